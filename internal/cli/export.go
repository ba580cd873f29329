package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/intake/internal/compiler"
	"github.com/aretw0/intake/pkg/flow"
)

// ExportFlows writes each flow as <id>.yaml under dir, in the format the
// directory loader reads back. Existing files are overwritten.
func ExportFlows(dir string, flows []*flow.Flow) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	var written []string
	for _, f := range flows {
		data, err := yaml.Marshal(compiler.Export(f))
		if err != nil {
			return written, fmt.Errorf("failed to encode flow %s: %w", f.ID(), err)
		}
		path := filepath.Join(dir, f.ID()+".yaml")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
