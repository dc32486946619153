// Package predicate decides whether a record satisfies a criteria set.
//
// Each record type has a schema: an ordered list of named field predicates.
// A predicate whose criterion is unset is inactive and always passes; the
// record passes when every active predicate does.
package predicate

// Field is one named predicate of a schema.
type Field[T, C any] struct {
	Name   string
	Active func(c C) bool
	Test   func(r T, c C) bool
}

// Schema is an ordered list of field predicates for record type T and criteria type C.
type Schema[T, C any] []Field[T, C]

// FieldResult reports how a single field contributed to an evaluation.
type FieldResult struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
	Passed bool   `json:"passed"`
}

// Evaluation is the outcome of checking one record against a criteria set.
type Evaluation struct {
	Passed bool          `json:"passed"`
	Fields []FieldResult `json:"fields"`
}

// Failed returns the names of the active fields that rejected the record.
func (e Evaluation) Failed() []string {
	var names []string
	for _, f := range e.Fields {
		if f.Active && !f.Passed {
			names = append(names, f.Name)
		}
	}
	return names
}

// Evaluate checks every field and records its contribution.
func (s Schema[T, C]) Evaluate(r T, c C) Evaluation {
	ev := Evaluation{Passed: true, Fields: make([]FieldResult, 0, len(s))}
	for _, f := range s {
		res := FieldResult{Name: f.Name, Passed: true}
		if f.Active(c) {
			res.Active = true
			res.Passed = f.Test(r, c)
		}
		if !res.Passed {
			ev.Passed = false
		}
		ev.Fields = append(ev.Fields, res)
	}
	return ev
}

// Passes is Evaluate without the per-field report; it stops at the first failure.
func (s Schema[T, C]) Passes(r T, c C) bool {
	for _, f := range s {
		if f.Active(c) && !f.Test(r, c) {
			return false
		}
	}
	return true
}

// Filter returns the passing records in their original order.
func (s Schema[T, C]) Filter(records []T, c C) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if s.Passes(r, c) {
			out = append(out, r)
		}
	}
	return out
}

// Names lists the field names in evaluation order.
func (s Schema[T, C]) Names() []string {
	names := make([]string, 0, len(s))
	for _, f := range s {
		names = append(names, f.Name)
	}
	return names
}
