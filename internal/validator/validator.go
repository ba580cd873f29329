package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/flow"
	"github.com/aretw0/intake/pkg/ports"
)

// Warning flags a construct that is valid but almost certainly a mistake,
// such as a condition that can never match.
type Warning struct {
	FlowID  string
	Key     string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s/%s: %s", w.FlowID, w.Key, w.Message)
}

// Report is the outcome of linting one flow.
type Report struct {
	FlowID   string
	Warnings []Warning
}

// Lint inspects the declarative visibility rules of f against the questions they reference.
func Lint(f *flow.Flow) Report {
	report := Report{FlowID: f.ID()}
	warn := func(key, format string, args ...any) {
		report.Warnings = append(report.Warnings, Warning{FlowID: f.ID(), Key: key, Message: fmt.Sprintf(format, args...)})
	}

	for _, q := range f.Questions() {
		if q.When == nil {
			continue
		}
		for _, leaf := range q.When.Leaves() {
			ref, ok := f.Question(f.IndexOf(leaf.Key))
			if !ok {
				// Unknown keys are rejected when the flow is built.
				continue
			}
			op := leaf.Op
			if op == "" {
				op = domain.OpEquals
			}

			switch op {
			case domain.OpIncludes:
				if ref.Kind != domain.KindMulti {
					warn(q.Key, "%q uses includes on %s question %q; use equals", leaf.String(), ref.Kind, ref.Key)
				}
			case domain.OpEquals, domain.OpNotEquals, domain.OpIn, domain.OpNotIn:
				if ref.Kind == domain.KindMulti {
					warn(q.Key, "%q compares the scalar value of multi-select question %q; use includes", leaf.String(), ref.Key)
				}
			}

			if !ref.Kind.IsSelect() || op == domain.OpAnswered {
				continue
			}
			values := leaf.Values
			if op == domain.OpEquals || op == domain.OpNotEquals || op == domain.OpIncludes {
				values = []string{leaf.Value}
			}
			for _, v := range values {
				if !ref.HasOption(v) {
					warn(q.Key, "condition value %q is not an option of %q (%s)", v, ref.Key, strings.Join(ref.Options, ", "))
				}
			}
		}
	}
	return report
}

// ValidateLoader loads every flow served by loader and lints it.
// Flows that fail to load are reported as errors; lint findings come back as reports.
func ValidateLoader(loader ports.FlowLoader) ([]Report, error) {
	ids, err := loader.ListFlows()
	if err != nil {
		return nil, fmt.Errorf("failed to list flows: %w", err)
	}

	var reports []Report
	var errs []string
	for _, id := range ids {
		f, err := loader.GetFlow(id)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		reports = append(reports, Lint(f))
	}

	if len(errs) > 0 {
		return reports, fmt.Errorf("found %d errors:\n- %s", len(errs), strings.Join(errs, "\n- "))
	}
	return reports, nil
}
