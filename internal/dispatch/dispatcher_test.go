package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch(t *testing.T) {
	d := Default()

	tests := []struct {
		message  string
		rule     string
		contains string
	}{
		{message: "I need a roommate near my budget", rule: "budget", contains: "What is your budget?"},
		{message: "Find me a room, budget 350", rule: "budget", contains: "RM 350 these are"},
		{message: "budget 399 for a room", rule: "budget", contains: "Shared rooms in Pantai Dalam"},
		{message: "Find a room with budget RM 450", rule: "budget", contains: "RM 450 gets you"},
		{message: "find room budget 600", rule: "budget", contains: "With RM 600 or more"},
		{message: "Any rooms near UM?", rule: "nearby", contains: "Walking distance"},
		{message: "Do you have a GYM?", rule: "facilities", contains: "Premium facilities"},
		{message: "I'm looking for a roommate", rule: "roommate", contains: "Let's find you a roommate"},
		{message: "roommate who likes the morning", rule: "roommate", contains: "early birds"},
		{message: "a neat roommate please", rule: "roommate", contains: "very neat"},
		{message: "tell me about roommates", rule: "roommate", contains: "Average match rate"},
		{message: "Is it expensive?", rule: "price", contains: "Rent guide"},
		{message: "Where should I stay?", rule: "areas", contains: "Popular areas"},
		{message: "how do I take the LRT", rule: "transport", contains: "Abdullah Hukum"},
		{message: "is it safe at night", rule: "safety", contains: "CCTV"},
		{message: "what about the deposit", rule: "contract", contains: "Utility deposit"},
		{message: "Can I visit tomorrow?", rule: "viewing", contains: "Viewing checklist"},
		{message: "can you assist me", rule: "help", contains: "I can help with"},
		{message: "thanks a lot", rule: "thanks", contains: "You're welcome"},
		{message: "Hello there", rule: "greeting", contains: "Roomeo assistant"},
		{message: "qwerty", rule: FallbackRule, contains: `asking about: "qwerty"`},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			reply := d.Dispatch(tt.message)

			assert.Equal(t, tt.rule, reply.Rule)
			assert.Contains(t, reply.Text, tt.contains)
		})
	}
}

func TestDispatchIsTotal(t *testing.T) {
	d := Default()

	for _, msg := range []string{"", "   ", "🏠", "12345", "\n\t"} {
		reply := d.Dispatch(msg)
		assert.NotEmpty(t, reply.Text, "%q", msg)
	}

	empty := d.Dispatch("")
	assert.Equal(t, FallbackRule, empty.Rule)
	assert.Contains(t, empty.Text, `asking about: ""`)
}

func TestDispatchIsDeterministic(t *testing.T) {
	d := Default()

	assert.Equal(t, d.Dispatch("budget room 500"), d.Dispatch("budget room 500"))
	assert.Equal(t, d.Respond("hey"), Default().Respond("hey"))
}

func TestKeywordsMatchAsSubstrings(t *testing.T) {
	assert.Equal(t, "greeting", Default().Dispatch("this one").Rule)
}

func TestBudgetOverflowIsPremium(t *testing.T) {
	reply := Default().Dispatch("budget room 99999999999999999999999")

	assert.Equal(t, "budget", reply.Rule)
	assert.Contains(t, reply.Text, "go premium")
}

func TestRules(t *testing.T) {
	assert.Equal(t, []string{
		"budget", "nearby", "facilities", "roommate", "price", "areas", "transport",
		"safety", "contract", "viewing", "help", "thanks", "greeting", FallbackRule,
	}, Default().Rules())
}

func TestCustomDispatcher(t *testing.T) {
	rules := []Rule{
		{Name: "empty", Match: func(s string) bool { return s == "blank" }, Respond: func(string) string { return "" }},
		{Name: "shout", Match: func(s string) bool { return s == "hey" }, Respond: func(string) string { return "HEY" }},
		{Name: "broken"},
	}
	d := New(rules, Rule{})

	assert.Equal(t, Reply{Rule: "shout", Text: "HEY"}, d.Dispatch("HEY"))
	assert.Equal(t, FallbackRule, d.Dispatch("blank").Rule, "empty replies fall back")
	assert.Equal(t, lastResort, d.Respond("anything"))

	rules[1].Name = "mutated"
	assert.Equal(t, "shout", d.Dispatch("hey").Rule)
}

func TestParseTemplates(t *testing.T) {
	tmpl, err := ParseTemplates([]byte("a: 'budget {{.Budget}} for {{.Message}}'\n"))
	require.NoError(t, err)
	assert.Equal(t, "budget 5 for x", tmpl.Render("a", Data{Budget: 5, Message: "x"}))
	assert.Empty(t, tmpl.Render("missing", Data{}))

	_, err = ParseTemplates([]byte("a: '{{.Budget'\n"))
	assert.Error(t, err)

	_, err = ParseTemplates([]byte("- not a map"))
	assert.Error(t, err)
}

func TestDefaultTemplatesCoverRules(t *testing.T) {
	tmpl := DefaultTemplates()
	for _, key := range []string{
		"budget_low", "budget_mid", "budget_high", "budget_ask", "nearby", "facilities",
		"roommate_find", "roommate_early", "roommate_clean", "roommate_general", "price",
		"areas", "transport", "safety", "contract", "viewing", "help", "thanks", "greeting", "fallback",
	} {
		assert.NotEmpty(t, tmpl.Render(key, Data{Budget: 1, Message: "m"}), key)
	}
}
