package flow_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/flow"
)

func TestNew_DuplicateKeysFailFast(t *testing.T) {
	_, err := flow.New("dup", "Dup", []domain.Question{
		{Key: "name", Prompt: "Name?", Kind: domain.KindText},
		{Key: "name", Prompt: "Name again?", Kind: domain.KindText},
	})
	require.Error(t, err)

	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "name", cfgErr.Key)
	assert.Contains(t, cfgErr.Reason, "duplicate key")
}

func TestNew_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		questions []domain.Question
		reason    string
	}{
		{
			name:      "Select Without Options",
			questions: []domain.Question{{Key: "a", Prompt: "A?", Kind: domain.KindSingle}},
			reason:    "requires options",
		},
		{
			name:      "Duplicate Option",
			questions: []domain.Question{{Key: "a", Prompt: "A?", Kind: domain.KindMulti, Options: []string{"x", "x"}}},
			reason:    "duplicate option",
		},
		{
			name:      "Text With Options",
			questions: []domain.Question{{Key: "a", Prompt: "A?", Kind: domain.KindText, Options: []string{"x"}}},
			reason:    "cannot declare options",
		},
		{
			name:      "Unknown Kind",
			questions: []domain.Question{{Key: "a", Prompt: "A?", Kind: "slider"}},
			reason:    "unknown kind",
		},
		{
			name:      "Missing Prompt",
			questions: []domain.Question{{Key: "a", Kind: domain.KindText}},
			reason:    "missing prompt",
		},
		{
			name: "Forward Reference",
			questions: []domain.Question{
				{Key: "a", Prompt: "A?", Kind: domain.KindText, When: domain.Equals("b", "x")},
				{Key: "b", Prompt: "B?", Kind: domain.KindText},
			},
			reason: "not declared before",
		},
		{
			name: "Self Reference",
			questions: []domain.Question{
				{Key: "a", Prompt: "A?", Kind: domain.KindText, When: domain.Answered("a")},
			},
			reason: "not declared before",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := flow.New("f", "F", tt.questions)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestNew_AggregatesProblems(t *testing.T) {
	_, err := flow.New("", "F", []domain.Question{
		{Key: "a", Kind: domain.KindText},
	})
	var agg *domain.AggregateError
	require.True(t, errors.As(err, &agg))
	assert.Len(t, agg.Errors, 2)
}

func TestFlow_IsImmutable(t *testing.T) {
	options := []string{"A", "B"}
	f, err := flow.New("f", "F", []domain.Question{
		{Key: "q", Prompt: "Q?", Kind: domain.KindSingle, Options: options},
	})
	require.NoError(t, err)

	options[0] = "mutated"
	q, ok := f.Question(0)
	require.True(t, ok)
	assert.Equal(t, "A", q.Options[0])

	q.Options[1] = "mutated"
	again, _ := f.Question(0)
	assert.Equal(t, "B", again.Options[1])
}

func TestFlow_NextVisible(t *testing.T) {
	f := flow.MustNew("branch", "Branch", []domain.Question{
		{Key: "q1", Prompt: "Q1", Kind: domain.KindSingle, Options: []string{"A", "Other"}},
		{Key: "q2", Prompt: "Q2", Kind: domain.KindText, When: domain.Equals("q1", "Other")},
		{Key: "q3", Prompt: "Q3", Kind: domain.KindText},
	})

	assert.Equal(t, 2, f.NextVisible(0, domain.Answers{"q1": {Value: "A"}}))
	assert.Equal(t, 1, f.NextVisible(0, domain.Answers{"q1": {Value: "Other"}}))
	assert.Equal(t, 3, f.NextVisible(2, nil))
	assert.True(t, f.IsTerminal(3))
	assert.Equal(t, 3, f.Len())
	assert.Equal(t, 1, f.IndexOf("q2"))
	assert.Equal(t, -1, f.IndexOf("missing"))

	_, ok := f.Question(3)
	assert.False(t, ok, "summary step has no question")
}
