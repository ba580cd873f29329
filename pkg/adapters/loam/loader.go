package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/intake/internal/compiler"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/flow"
)

// Loader adapts the Loam library to the FlowLoader interface.
// Each document in the repository declares one flow.
type Loader struct {
	Repo *loam.TypedRepository[FlowMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[FlowMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// GetFlow loads and compiles the flow with the given ID.
// Loam resolves the file from the normalized name ("intake" finds intake.md).
// When the file name differs from the declared id, the repository is scanned.
func (l *Loader) GetFlow(id string) (*flow.Flow, error) {
	ctx := context.Background()

	doc, err := l.Repo.Get(ctx, id)
	if err == nil {
		return l.compile(doc.ID, doc.Data, doc.Content)
	}

	docs, listErr := l.Repo.List(ctx)
	if listErr != nil {
		return nil, fmt.Errorf("loam list failed: %w", listErr)
	}
	for _, d := range docs {
		if flowID(d.ID, d.Data) == id {
			return l.compile(d.ID, d.Data, d.Content)
		}
	}
	return nil, fmt.Errorf("%w: %s (%v)", domain.ErrFlowNotFound, id, err)
}

func (l *Loader) compile(docID string, meta FlowMetadata, content string) (*flow.Flow, error) {
	f, err := compiler.Compile(meta.definition(flowID(docID, meta), content))
	if err != nil {
		return nil, fmt.Errorf("invalid flow in %s: %w", docID, err)
	}
	return f, nil
}

// ListFlows returns the IDs of every document declaring questions, sorted.
func (l *Loader) ListFlows() ([]string, error) {
	ctx := context.Background()
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	ids := make([]string, 0, len(docs))

	for _, doc := range docs {
		if len(doc.Data.Questions) == 0 {
			continue
		}
		id := flowID(doc.ID, doc.Data)

		// Collision Detection
		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// flowID prefers the declared id and falls back to the file name.
func flowID(docID string, meta FlowMetadata) string {
	rawID := meta.ID
	if rawID == "" {
		rawID = docID
	}
	return trimExtension(rawID)
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
