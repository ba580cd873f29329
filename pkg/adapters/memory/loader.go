package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/intake/internal/compiler"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/flow"
)

// Loader implements ports.FlowLoader using an in-memory map.
type Loader struct {
	mu    sync.RWMutex
	flows map[string]*flow.Flow
}

// NewLoader creates a loader serving the given flows.
// It fails when two flows share an ID.
func NewLoader(flows ...*flow.Flow) (*Loader, error) {
	l := &Loader{flows: make(map[string]*flow.Flow, len(flows))}
	for _, f := range flows {
		if f == nil {
			return nil, fmt.Errorf("nil flow")
		}
		if _, dup := l.flows[f.ID()]; dup {
			return nil, fmt.Errorf("duplicate flow id %q", f.ID())
		}
		l.flows[f.ID()] = f
	}
	return l, nil
}

// NewFromDefinitions creates a loader from raw YAML or JSON documents keyed by a label
// used in error messages (usually a file name).
// This handles compilation automatically, improving DX for tests.
func NewFromDefinitions(data map[string]string) (*Loader, error) {
	labels := make([]string, 0, len(data))
	for label := range data {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	flows := make([]*flow.Flow, 0, len(data))
	for _, label := range labels {
		f, err := compiler.ParseAndCompile([]byte(data[label]))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", label, err)
		}
		flows = append(flows, f)
	}
	return NewLoader(flows...)
}

// Put registers or replaces a flow.
func (l *Loader) Put(f *flow.Flow) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.flows[f.ID()] = f
}

// GetFlow returns the flow with the given ID.
func (l *Loader) GetFlow(id string) (*flow.Flow, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	f, ok := l.flows[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrFlowNotFound, id)
	}
	return f, nil
}

// ListFlows returns all available flow IDs.
func (l *Loader) ListFlows() ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	keys := make([]string, 0, len(l.flows))
	for k := range l.flows {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
