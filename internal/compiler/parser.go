package compiler

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML or JSON document into a Definition.
// Unknown fields are rejected so typos in flow files surface early.
func Parse(data []byte) (*Definition, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse flow definition: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("failed to parse flow definition: document is empty")
	}
	return Decode(raw)
}

// Decode maps a generic document (e.g. decoded frontmatter) onto a Definition.
func Decode(raw map[string]any) (*Definition, error) {
	var def Definition
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &def,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode flow definition: %w", err)
	}
	return &def, nil
}
