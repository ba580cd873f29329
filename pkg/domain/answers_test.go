package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnswers_ToggleTwiceRestores(t *testing.T) {
	store := Answers{"goals": {Selected: []string{"sleep"}}}
	before := store.Clone()

	store.Toggle("goals", "anxiety")
	assert.ElementsMatch(t, []string{"sleep", "anxiety"}, store.Selected("goals"))

	store.Toggle("goals", "anxiety")
	assert.Equal(t, before, store)
}

func TestAnswers_ToggleLastOptionRemovesKey(t *testing.T) {
	store := Answers{}
	store.Toggle("goals", "sleep")
	store.Toggle("goals", "sleep")

	_, ok := store.Get("goals")
	assert.False(t, ok, "an empty set must not linger in the store")
}

func TestAnswers_SetEmptyClears(t *testing.T) {
	store := Answers{}
	store.Set("name", "Ada")
	assert.Equal(t, "Ada", store.Value("name"))

	store.Set("name", "")
	_, ok := store.Get("name")
	assert.False(t, ok)
}

func TestAnswers_CloneIsDeep(t *testing.T) {
	store := Answers{"goals": {Selected: []string{"a"}}}
	clone := store.Clone()
	clone.Toggle("goals", "b")

	assert.Equal(t, []string{"a"}, store.Selected("goals"))
}

func TestCondition_Match(t *testing.T) {
	answers := Answers{
		"role":  {Value: "Other"},
		"goals": {Selected: []string{"sleep", "focus"}},
	}

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"Equals", *Equals("role", "Other"), true},
		{"Equals Default Op", Condition{Key: "role", Value: "Other"}, true},
		{"Equals Mismatch", *Equals("role", "A"), false},
		{"Not Equals Missing Key", Condition{Key: "age", Op: OpNotEquals, Value: "1"}, true},
		{"In", *In("role", "A", "Other"), true},
		{"Not In", Condition{Key: "role", Op: OpNotIn, Values: []string{"Other"}}, false},
		{"Includes", *Includes("goals", "focus"), true},
		{"Includes Missing", *Includes("goals", "anger"), false},
		{"Answered", *Answered("goals"), true},
		{"Answered Missing", *Answered("age"), false},
		{"All", Condition{All: []Condition{*Equals("role", "Other"), *Includes("goals", "sleep")}}, true},
		{"Any", Condition{Any: []Condition{*Equals("role", "A"), *Includes("goals", "sleep")}}, true},
		{"Any None", Condition{Any: []Condition{*Equals("role", "A"), *Includes("goals", "anger")}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.Match(answers))
		})
	}
}

func TestCondition_Validate(t *testing.T) {
	assert.NoError(t, Equals("a", "b").Validate())
	assert.Error(t, Condition{}.Validate())
	assert.Error(t, Condition{Key: "a", Op: "matches"}.Validate())
	assert.Error(t, Condition{Key: "a", Op: OpIn}.Validate())
}

func TestQuestion_Visible(t *testing.T) {
	q := Question{
		Key:         "detail",
		When:        Equals("role", "Other"),
		VisibleWhen: func(a Answers) bool { return a.Value("name") != "" },
	}

	assert.False(t, q.Visible(Answers{"role": {Value: "Other"}}))
	assert.True(t, q.Visible(Answers{"role": {Value: "Other"}, "name": {Value: "Ada"}}))
	assert.True(t, Question{Key: "plain"}.Visible(nil))
}
