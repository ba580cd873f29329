package tests

import (
	"errors"
	"testing"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
)

// FlowLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.FlowLoader.
// expected maps each flow ID the loader must serve to its number of questions.
func FlowLoaderContractTest(t *testing.T, loader ports.FlowLoader, expected map[string]int) {
	t.Helper()

	t.Run("GetFlow_Success", func(t *testing.T) {
		for id, questions := range expected {
			f, err := loader.GetFlow(id)
			if err != nil {
				t.Fatalf("unexpected error getting flow %s: %v", id, err)
			}
			if f.ID() != id {
				t.Errorf("flow id mismatch: got %q, want %q", f.ID(), id)
			}
			if f.Len() != questions {
				t.Errorf("flow %s: got %d questions, want %d", id, f.Len(), questions)
			}
		}
	})

	t.Run("GetFlow_NotFound", func(t *testing.T) {
		_, err := loader.GetFlow("non-existent-flow")
		if !errors.Is(err, domain.ErrFlowNotFound) {
			t.Errorf("expected ErrFlowNotFound, got %v", err)
		}
	})

	t.Run("ListFlows", func(t *testing.T) {
		ids, err := loader.ListFlows()
		if err != nil {
			t.Fatalf("unexpected error listing flows: %v", err)
		}

		if len(ids) != len(expected) {
			t.Errorf("expected %d flows, got %d", len(expected), len(ids))
		}

		lookup := make(map[string]bool)
		for _, id := range ids {
			lookup[id] = true
		}
		for id := range expected {
			if !lookup[id] {
				t.Errorf("flow %s missing from list", id)
			}
		}
	})
}
