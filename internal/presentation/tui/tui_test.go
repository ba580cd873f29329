package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner_PlainOnNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")

	out := buf.String()
	assert.NotContains(t, out, "\x1b[", "a buffer is not a color terminal")
	assert.Contains(t, out, "v1.2.3")
	assert.Equal(t, len(bannerLines)+3, strings.Count(out, "\n"))
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer()
	out, err := render("**Your name?**")
	require.NoError(t, err)
	assert.Contains(t, out, "Your name?")
}
