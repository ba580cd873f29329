package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/intake/internal/runtime"
	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/flow"
	"github.com/aretw0/intake/pkg/session"
)

func newServer(t *testing.T, opts ...Option) (*Server, *memory.Sink) {
	t.Helper()
	f := flow.MustNew("goals", "Goals", []domain.Question{
		{Key: "goals", Prompt: "What brings you here?", Label: "Goals", Kind: domain.KindMulti, Options: []string{"Sleep", "Focus", "Calm"}},
		{Key: "notes", Prompt: "Anything else?", Kind: domain.KindText, Optional: true},
	}, flow.WithIntro("A short check-in."))
	loader, err := memory.NewLoader(f)
	require.NoError(t, err)

	sink := memory.NewSink()
	eng := runtime.NewEngine(loader, runtime.WithSinks(sink))
	return NewServer(eng, session.NewManager(memory.NewStore()), opts...), sink
}

func call(t *testing.T, s *Server, tool string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	registered := s.MCPServer().GetTool(tool)
	require.NotNil(t, registered, "tool %s is not registered", tool)

	req := mcp.CallToolRequest{}
	req.Params.Name = tool
	req.Params.Arguments = args
	res, err := registered.Handler(context.Background(), req)
	require.NoError(t, err, "tool failures are reported in the result, not as protocol errors")
	return res
}

func viewOf(t *testing.T, res *mcp.CallToolResult) SessionView {
	t.Helper()
	require.False(t, res.IsError, "%+v", res.Content)
	resp, ok := res.StructuredContent.(ViewResponse)
	require.True(t, ok)
	return resp.View
}

func errorText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.True(t, res.IsError)
	require.NotEmpty(t, res.Content)
	text, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok)
	return text.Text
}

func TestTools_Registered(t *testing.T) {
	s, _ := newServer(t)
	for _, name := range []string{"list_flows", "start_session", "submit_answer", "advance", "back", "get_view", "get_summary", "complete"} {
		assert.NotNil(t, s.MCPServer().GetTool(name), name)
	}
}

func TestTools_Walkthrough(t *testing.T) {
	s, sink := newServer(t)

	flows := call(t, s, "list_flows", nil)
	require.False(t, flows.IsError)
	assert.Equal(t, []FlowInfo{{ID: "goals", Title: "Goals", Intro: "A short check-in.", Steps: 2}}, flows.StructuredContent.(FlowsResponse).Flows)

	view := viewOf(t, call(t, s, "start_session", map[string]any{"flow_id": "goals", "session_id": "s1"}))
	assert.Equal(t, "s1", view.SessionID)

	view = viewOf(t, call(t, s, "submit_answer", map[string]any{"session_id": "s1", "step": 0, "value": "Calm"}))
	view = viewOf(t, call(t, s, "submit_answer", map[string]any{"session_id": "s1", "step": 0, "value": "Sleep"}))
	assert.True(t, view.CanAdvance)

	view = viewOf(t, call(t, s, "advance", map[string]any{"session_id": "s1"}))
	assert.Equal(t, 1, view.Current)
	view = viewOf(t, call(t, s, "advance", map[string]any{"session_id": "s1"}))
	assert.True(t, view.Terminal)

	summary := call(t, s, "get_summary", map[string]any{"session_id": "s1"})
	require.False(t, summary.IsError)
	entries := summary.StructuredContent.(SummaryResponse).Entries
	require.Len(t, entries, 2)
	assert.Equal(t, domain.SummaryEntry{Key: "goals", Label: "Goals", Value: "Sleep, Calm"}, entries[0])

	view = viewOf(t, call(t, s, "back", map[string]any{"session_id": "s1"}))
	assert.Equal(t, 1, view.Current)
	viewOf(t, call(t, s, "advance", map[string]any{"session_id": "s1"}))

	view = viewOf(t, call(t, s, "complete", map[string]any{"session_id": "s1"}))
	assert.True(t, view.Completed)

	last, ok := sink.Last()
	require.True(t, ok)
	assert.Equal(t, []string{"Calm", "Sleep"}, last.Answers.Selected("goals"))
}

func TestTools_Errors(t *testing.T) {
	s, _ := newServer(t, WithSanitizer(func(v string) (string, error) {
		if v == "bad" {
			return "", assert.AnError
		}
		return v, nil
	}))
	viewOf(t, call(t, s, "start_session", map[string]any{"flow_id": "goals", "session_id": "s1"}))

	assert.Contains(t, errorText(t, call(t, s, "advance", map[string]any{"session_id": "s1"})), domain.ErrStepIncomplete.Error())
	assert.Contains(t, errorText(t, call(t, s, "submit_answer", map[string]any{"session_id": "s1", "step": 0, "value": "Joy"})), domain.ErrInvalidValue.Error())
	assert.Contains(t, errorText(t, call(t, s, "submit_answer", map[string]any{"session_id": "s1", "step": 0, "value": "bad"})), "input rejected")
	assert.Contains(t, errorText(t, call(t, s, "get_view", map[string]any{"session_id": "nope"})), domain.ErrSessionNotFound.Error())
	assert.Contains(t, errorText(t, call(t, s, "start_session", map[string]any{"flow_id": "missing"})), domain.ErrFlowNotFound.Error())
	assert.Contains(t, errorText(t, call(t, s, "start_session", map[string]any{})), "flow_id is required")

	view := viewOf(t, call(t, s, "get_view", map[string]any{"session_id": "s1"}))
	assert.Empty(t, view.Steps[0].Selected)
}

func TestNewServer_NestedConditions(t *testing.T) {
	f := flow.MustNew("nested", "Nested", []domain.Question{
		{Key: "role", Prompt: "Role?", Kind: domain.KindSingle, Options: []string{"A", "Other"}},
		{Key: "goals", Prompt: "Goals?", Kind: domain.KindMulti, Options: []string{"Sleep", "Focus"}},
		{Key: "detail", Prompt: "Tell us more", Kind: domain.KindText, When: &domain.Condition{Any: []domain.Condition{
			*domain.Equals("role", "Other"),
			{All: []domain.Condition{*domain.Includes("goals", "Sleep"), *domain.Answered("role")}},
		}}},
	})
	loader, err := memory.NewLoader(f)
	require.NoError(t, err)

	s := NewServer(runtime.NewEngine(loader), session.NewManager(memory.NewStore()))

	for _, name := range []string{"start_session", "get_view", "get_summary"} {
		tool := s.MCPServer().GetTool(name)
		require.NotNil(t, tool, name)
		data, err := json.Marshal(tool.Tool)
		require.NoError(t, err)
		assert.Contains(t, string(data), "outputSchema", name)
	}

	viewOf(t, call(t, s, "start_session", map[string]any{"flow_id": "nested", "session_id": "s1"}))
	viewOf(t, call(t, s, "submit_answer", map[string]any{"session_id": "s1", "step": 0, "value": "Other"}))
	viewOf(t, call(t, s, "advance", map[string]any{"session_id": "s1"}))
	viewOf(t, call(t, s, "submit_answer", map[string]any{"session_id": "s1", "step": 1, "value": "Focus"}))
	view := viewOf(t, call(t, s, "advance", map[string]any{"session_id": "s1"}))

	require.Len(t, view.Steps, 3)
	detail := view.Steps[2]
	assert.Equal(t, "detail", detail.Key)
	assert.True(t, detail.Current)
	assert.NotEmpty(t, detail.Rule)
	assert.Empty(t, view.Steps[0].Rule)
}

func TestResources_Flows(t *testing.T) {
	s, _ := newServer(t)

	raw := s.MCPServer().HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{"uri":"intake://flows"}}`))
	data, err := json.Marshal(raw)
	require.NoError(t, err)
	assert.Contains(t, string(data), `\"id\":\"goals\"`)
}
