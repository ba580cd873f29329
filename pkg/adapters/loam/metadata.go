package loam

import (
	"strings"

	"github.com/aretw0/intake/internal/compiler"
)

// FlowMetadata represents the header of a flow document.
// In markdown files it is the frontmatter and the body becomes the intro;
// JSON and YAML files carry the whole definition.
type FlowMetadata struct {
	ID        string                 `json:"id" mapstructure:"id"`
	Title     string                 `json:"title" mapstructure:"title"`
	Intro     string                 `json:"intro" mapstructure:"intro"`
	Questions []compiler.QuestionDef `json:"questions" mapstructure:"questions"`

	// General Metadata
	Metadata map[string]string `json:"metadata" mapstructure:"metadata"`
}

func (m FlowMetadata) definition(id, content string) *compiler.Definition {
	intro := m.Intro
	if intro == "" {
		intro = strings.TrimSpace(content)
	}
	return &compiler.Definition{
		ID:        id,
		Title:     m.Title,
		Intro:     intro,
		Questions: m.Questions,
	}
}
