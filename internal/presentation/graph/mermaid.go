package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/flow"
)

const (
	startID   = "start"
	summaryID = "summary"
)

// Overlay contains session data to visualize on the graph.
type Overlay struct {
	Visited []int
	Current int
}

// NewOverlay builds an overlay from a session state.
func NewOverlay(state *domain.State) *Overlay {
	if state == nil {
		return nil
	}
	return &Overlay{
		Visited: append([]int(nil), state.Visited...),
		Current: state.Current,
	}
}

// GenerateMermaid produces a Mermaid flowchart of f.
// Shapes:
// - Start and Summary: ((Circle))
// - Select questions: [/Parallelogram/]
// - Free-form questions: [Rectangle]
//
// Each step links to every step that may follow it: the next question, and
// past it as long as the questions in between are conditional. Edges into a
// conditional question carry its rule as label.
func GenerateMermaid(f *flow.Flow, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	fmt.Fprintf(&sb, "    %s((\"%s\"))\n", startID, escape(f.Title()))

	questions := f.Questions()
	for i, q := range questions {
		opener, closer := "[", "]"
		if q.Kind.IsSelect() {
			opener, closer = "[/", "/]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", nodeID(f, i), opener, escape(q.DisplayLabel()), closer)
	}
	fmt.Fprintf(&sb, "    %s((\"Summary\"))\n", summaryID)

	for from := -1; from < len(questions); from++ {
		writeEdges(&sb, f, questions, from)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[int]bool)
		for _, step := range overlay.Visited {
			if seen[step] || step < 0 || step > len(questions) {
				continue
			}
			seen[step] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", nodeID(f, step))
		}
		if overlay.Current >= 0 && overlay.Current <= len(questions) {
			fmt.Fprintf(&sb, "    class %s current;\n", nodeID(f, overlay.Current))
		}
	}

	return sb.String()
}

func writeEdges(sb *strings.Builder, f *flow.Flow, questions []domain.Question, from int) {
	src := startID
	if from >= 0 {
		src = nodeID(f, from)
	}

	for to := from + 1; to < len(questions); to++ {
		q := questions[to]
		if !q.Conditional() {
			fmt.Fprintf(sb, "    %s --> %s\n", src, nodeID(f, to))
			return
		}
		fmt.Fprintf(sb, "    %s -- \"%s\" --> %s\n", src, escape(ruleLabel(q)), nodeID(f, to))
	}
	fmt.Fprintf(sb, "    %s --> %s\n", src, summaryID)
}

func ruleLabel(q domain.Question) string {
	var parts []string
	if q.When != nil {
		parts = append(parts, q.When.String())
	}
	if q.VisibleWhen != nil {
		parts = append(parts, "custom rule")
	}
	return strings.Join(parts, " and ")
}

// nodeID maps a step index to a Mermaid-safe identifier.
func nodeID(f *flow.Flow, step int) string {
	if f.IsTerminal(step) {
		return summaryID
	}
	q, _ := f.Question(step)
	return "q_" + sanitizeMermaidID(q.Key)
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

func escape(label string) string {
	return strings.ReplaceAll(label, "\"", "'")
}
