// Package dispatch answers free-text chat messages with canned replies chosen
// by an ordered keyword rule table.
package dispatch

import (
	"strings"
)

// Rule is one intent. Match receives the lower-cased message, Respond the
// original one.
type Rule struct {
	Name    string
	Match   func(lower string) bool
	Respond func(text string) string
}

// Reply is the answer together with the rule that produced it.
type Reply struct {
	Rule string `json:"rule"`
	Text string `json:"text"`
}

const (
	FallbackRule = "fallback"

	lastResort = "Sorry, I didn't catch that. Ask me about rooms, roommates, prices or areas near UM."
)

// Dispatcher evaluates rules in order; the first matching rule answers.
// The fallback answers when nothing matches.
type Dispatcher struct {
	rules    []Rule
	fallback Rule
}

// New returns a dispatcher over rules. A fallback without a name or
// responder is replaced with a fixed reply.
func New(rules []Rule, fallback Rule) *Dispatcher {
	if fallback.Name == "" {
		fallback.Name = FallbackRule
	}
	if fallback.Respond == nil {
		fallback.Respond = func(string) string { return lastResort }
	}
	return &Dispatcher{
		rules:    append([]Rule(nil), rules...),
		fallback: fallback,
	}
}

// Default returns the housing assistant dispatcher.
func Default() *Dispatcher {
	t := DefaultTemplates()
	return New(DefaultRules(t), Fallback(t))
}

// Respond returns the reply text for a message. It never returns an empty string.
func (d *Dispatcher) Respond(text string) string {
	return d.Dispatch(text).Text
}

func (d *Dispatcher) Dispatch(text string) Reply {
	lower := strings.ToLower(text)
	for _, r := range d.rules {
		if r.Match == nil || r.Respond == nil || !r.Match(lower) {
			continue
		}
		if out := r.Respond(text); out != "" {
			return Reply{Rule: r.Name, Text: out}
		}
		break
	}

	out := d.fallback.Respond(text)
	if out == "" {
		out = lastResort
	}
	return Reply{Rule: d.fallback.Name, Text: out}
}

// Rules lists the rule names in evaluation order, fallback last.
func (d *Dispatcher) Rules() []string {
	names := make([]string, 0, len(d.rules)+1)
	for _, r := range d.rules {
		names = append(names, r.Name)
	}
	return append(names, d.fallback.Name)
}
