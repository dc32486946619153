package housing

import "strings"

// Cleanliness is an ordered housekeeping level. Higher is neater.
type Cleanliness int

const (
	CleanlinessUnknown Cleanliness = iota
	CleanlinessRelaxed
	CleanlinessAverage
	CleanlinessNeat
	CleanlinessVeryNeat
)

var cleanlinessNames = map[Cleanliness]string{
	CleanlinessRelaxed:  "Relaxed",
	CleanlinessAverage:  "Average",
	CleanlinessNeat:     "Neat",
	CleanlinessVeryNeat: "Very Neat",
}

// ParseCleanliness accepts both display ("Very Neat") and key ("very-neat") spellings.
func ParseCleanliness(s string) (Cleanliness, bool) {
	switch Fold(s) {
	case "very-neat":
		return CleanlinessVeryNeat, true
	case "neat":
		return CleanlinessNeat, true
	case "average":
		return CleanlinessAverage, true
	case "relaxed", "messy":
		return CleanlinessRelaxed, true
	default:
		return CleanlinessUnknown, false
	}
}

func (c Cleanliness) String() string {
	if name, ok := cleanlinessNames[c]; ok {
		return name
	}
	return "Unknown"
}

// Distance is the number of ordinal steps between two levels.
func (c Cleanliness) Distance(o Cleanliness) int {
	d := int(c) - int(o)
	if d < 0 {
		return -d
	}
	return d
}

// Fold normalises a free-text enum value for comparison: lower case, trimmed,
// with runs of spaces and underscores turned into single dashes.
func Fold(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ' ' || r == '_' || r == '-' || r == '\t'
	})
	return strings.Join(fields, "-")
}
