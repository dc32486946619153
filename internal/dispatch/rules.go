package dispatch

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var number = regexp.MustCompile(`\d+`)

// Budget tiers in RM.
const (
	lowBudgetBelow = 400
	midBudgetBelow = 600
)

// DefaultRules returns the housing intents in priority order.
func DefaultRules(t Templates) []Rule {
	return []Rule{
		{
			Name: "budget",
			Match: func(s string) bool {
				return strings.Contains(s, "budget") && containsAny(s, "room", "find")
			},
			Respond: func(text string) string {
				budget, ok := firstNumber(text)
				switch {
				case !ok:
					return t.Render("budget_ask", Data{Message: text})
				case budget < lowBudgetBelow:
					return t.Render("budget_low", Data{Budget: budget, Message: text})
				case budget < midBudgetBelow:
					return t.Render("budget_mid", Data{Budget: budget, Message: text})
				default:
					return t.Render("budget_high", Data{Budget: budget, Message: text})
				}
			},
		},
		keywordRule(t, "nearby", "nearby", "near", "close", "walking"),
		keywordRule(t, "facilities", "facilities", "facilities", "amenities", "gym", "pool"),
		{
			Name:  "roommate",
			Match: func(s string) bool { return containsAny(s, "roommate", "match") },
			Respond: func(text string) string {
				s := strings.ToLower(text)
				key := "roommate_general"
				switch {
				case containsAny(s, "find", "looking"):
					key = "roommate_find"
				case containsAny(s, "early bird", "morning"):
					key = "roommate_early"
				case containsAny(s, "clean", "neat"):
					key = "roommate_clean"
				}
				return t.Render(key, Data{Message: text})
			},
		},
		keywordRule(t, "price", "price", "price", "cost", "expensive", "cheap", "affordable"),
		keywordRule(t, "areas", "areas", "location", "area", "where", "pantai", "bangsar", "kerinchi"),
		keywordRule(t, "transport", "transport", "transport", "lrt", "bus", "grab"),
		keywordRule(t, "safety", "safety", "safe", "security", "dangerous"),
		keywordRule(t, "contract", "contract", "contract", "lease", "deposit", "agreement"),
		keywordRule(t, "viewing", "viewing", "view", "visit", "schedule", "appointment"),
		keywordRule(t, "help", "help", "help", "assist", "can you"),
		keywordRule(t, "thanks", "thanks", "thank", "tq"),
		keywordRule(t, "greeting", "greeting", "hello", "hi", "hey"),
	}
}

// Fallback answers messages no rule recognised, quoting them back.
func Fallback(t Templates) Rule {
	return Rule{
		Name:  FallbackRule,
		Match: func(string) bool { return true },
		Respond: func(text string) string {
			return t.Render("fallback", Data{Message: text})
		},
	}
}

// keywordRule matches when any keyword occurs as a substring.
func keywordRule(t Templates, name, key string, keywords ...string) Rule {
	return Rule{
		Name:  name,
		Match: func(s string) bool { return containsAny(s, keywords...) },
		Respond: func(text string) string {
			return t.Render(key, Data{Message: text})
		},
	}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// firstNumber returns the first run of digits in text.
func firstNumber(text string) (int, bool) {
	m := number.FindString(text)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return math.MaxInt, true
	}
	return n, true
}
