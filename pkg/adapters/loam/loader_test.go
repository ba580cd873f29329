package loam

import (
	"errors"
	"testing"

	"github.com/aretw0/loam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/intake/internal/testutils"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports/tests"
)

const moodMarkdown = `---
id: mood
title: Daily check-in
questions:
  - key: mood
    prompt: How are you feeling?
    options: [Good, Bad, Other]
  - key: mood_detail
    prompt: Tell us more
    when:
      key: mood
      value: Other
---
A quick check-in before your session.`

const profileJSON = `{
  "id": "profile",
  "questions": [
    {"key": "name", "prompt": "What should we call you?"},
    {"key": "age", "prompt": "How old are you?", "kind": "number", "optional": true},
    {"key": "goals", "prompt": "Goals?", "kind": "multi", "options": ["Sleep", "Focus"]}
  ]
}`

func seed(t *testing.T, files map[string]string) *Loader {
	t.Helper()
	tmpDir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, tmpDir, files)
	return New(loam.NewTypedRepository[FlowMetadata](repo))
}

func TestLoader_Contract(t *testing.T) {
	loader := seed(t, map[string]string{
		"mood.md":      moodMarkdown,
		"profile.json": profileJSON,
	})

	tests.FlowLoaderContractTest(t, loader, map[string]int{
		"mood":    2,
		"profile": 3,
	})
}

func TestLoader_MarkdownBodyBecomesIntro(t *testing.T) {
	loader := seed(t, map[string]string{"mood.md": moodMarkdown})

	f, err := loader.GetFlow("mood")
	require.NoError(t, err)
	assert.Equal(t, "Daily check-in", f.Title())
	assert.Equal(t, "A quick check-in before your session.", f.Intro())

	detail, ok := f.Question(1)
	require.True(t, ok)
	require.NotNil(t, detail.When)
	assert.Equal(t, "mood", detail.When.Key)
}

func TestLoader_ListFlows_NormalizesIDs(t *testing.T) {
	loader := seed(t, map[string]string{
		"implicit.md": "---\nquestions:\n  - key: a\n    prompt: A?\n---\n",
		"README.md":   "# Not a flow\n",
	})

	ids, err := loader.ListFlows()
	require.NoError(t, err)
	assert.Equal(t, []string{"implicit"}, ids, "documents without questions are not flows")

	_, err = loader.GetFlow("implicit")
	require.NoError(t, err)
}

func TestLoader_ListFlows_DetectsCollisions(t *testing.T) {
	loader := seed(t, map[string]string{
		"foo.md":   "---\nid: foo\nquestions:\n  - {key: a, prompt: A}\n---\n",
		"foo.json": `{"id": "foo", "questions": [{"key": "a", "prompt": "A"}]}`,
	})

	_, err := loader.ListFlows()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
}

func TestLoader_GetFlow_ByDeclaredID(t *testing.T) {
	loader := seed(t, map[string]string{
		"2026-intake.md": "---\nid: intake\nquestions:\n  - {key: a, prompt: A}\n---\n",
	})

	f, err := loader.GetFlow("intake")
	require.NoError(t, err)
	assert.Equal(t, "intake", f.ID())
}

func TestLoader_GetFlow_InvalidDefinition(t *testing.T) {
	loader := seed(t, map[string]string{
		"dup.md": "---\nid: dup\nquestions:\n  - {key: a, prompt: A}\n  - {key: a, prompt: B}\n---\n",
	})

	_, err := loader.GetFlow("dup")
	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Reason, "duplicate key")
}
