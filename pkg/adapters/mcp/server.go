// Package mcp exposes wizard sessions as Model Context Protocol tools, so an
// AI agent can walk a user through a flow on their behalf.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/session"
)

// FlowsURI is the resource listing the available flows.
const FlowsURI = "intake://flows"

// ViewResponse wraps a session view so every tool answers with the same shape.
type ViewResponse struct {
	View SessionView `json:"view" jsonschema_description:"Render-ready projection of the session"`
}

// SummaryResponse carries the labelled answers of a session.
type SummaryResponse struct {
	SessionID string                `json:"session_id"`
	Entries   []domain.SummaryEntry `json:"entries" jsonschema_description:"One line per visited question"`
}

// FlowInfo describes an available flow.
type FlowInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Intro string `json:"intro,omitempty"`
	Steps int    `json:"steps"`
}

// FlowsResponse lists the available flows.
type FlowsResponse struct {
	Flows []FlowInfo `json:"flows"`
}

// StartArgs are the arguments of start_session.
type StartArgs struct {
	FlowID    string `json:"flow_id"`
	SessionID string `json:"session_id,omitempty"`
}

// SessionArgs identify a stored session.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// SubmitArgs are the arguments of submit_answer.
type SubmitArgs struct {
	SessionID string `json:"session_id"`
	Step      int    `json:"step"`
	Value     string `json:"value"`
}

// Server wraps the engine and exposes it as an MCP Server.
type Server struct {
	engine    ports.WizardEngine
	sessions  *session.Manager
	sanitize  func(string) (string, error)
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithSanitizer cleans submitted values before they reach the engine.
func WithSanitizer(fn func(string) (string, error)) Option {
	return func(s *Server) {
		s.sanitize = fn
	}
}

// WithLogger configures the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.WizardEngine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		sessions:  sessions,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("intake-mcp", strings.TrimSpace(intake.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func sessionTool(name, description string, opts ...mcp.ToolOption) mcp.Tool {
	opts = append([]mcp.ToolOption{
		mcp.WithDescription(description),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier returned by start_session")),
	}, opts...)
	return mcp.NewTool(name, opts...)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_flows",
		mcp.WithDescription("List the questionnaires that can be started."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOutputSchema[FlowsResponse](),
	), mcp.NewStructuredToolHandler(s.handleListFlows))

	s.mcpServer.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Start a new session on a flow. Returns the first question."),
		mcp.WithString("flow_id", mcp.Required(), mcp.Description("Flow to run, see list_flows")),
		mcp.WithString("session_id", mcp.Description("Optional identifier; generated when omitted")),
		mcp.WithOutputSchema[ViewResponse](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	s.mcpServer.AddTool(sessionTool("submit_answer",
		"Answer the current question. Multi-select questions toggle the given option; other kinds replace the answer.",
		mcp.WithNumber("step", mcp.Required(), mcp.Description("Index of the current step, see view.current")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Option label, free text, or number")),
		mcp.WithOutputSchema[ViewResponse](),
	), mcp.NewStructuredToolHandler(s.handleSubmit))

	s.mcpServer.AddTool(sessionTool("advance",
		"Move to the next visible question once the current one is answered.",
		mcp.WithOutputSchema[ViewResponse](),
	), mcp.NewStructuredToolHandler(s.navigation(s.engine.Advance)))

	s.mcpServer.AddTool(sessionTool("back",
		"Return to the previously visited question. Answers given further ahead are kept.",
		mcp.WithOutputSchema[ViewResponse](),
	), mcp.NewStructuredToolHandler(s.navigation(s.engine.Back)))

	s.mcpServer.AddTool(sessionTool("complete",
		"Confirm the summary and hand the answers off. Only valid on the summary step.",
		mcp.WithOutputSchema[ViewResponse](),
	), mcp.NewStructuredToolHandler(s.navigation(s.engine.Complete)))

	s.mcpServer.AddTool(sessionTool("get_view",
		"Show the visited questions, their answers and what can be done next.",
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOutputSchema[ViewResponse](),
	), mcp.NewStructuredToolHandler(s.handleView))

	s.mcpServer.AddTool(sessionTool("get_summary",
		"List the answers of the visited questions as labelled lines.",
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithOutputSchema[SummaryResponse](),
	), mcp.NewStructuredToolHandler(s.handleSummary))
}

func (s *Server) flows() ([]FlowInfo, error) {
	ids, err := s.engine.Flows()
	if err != nil {
		return nil, err
	}
	out := make([]FlowInfo, 0, len(ids))
	for _, id := range ids {
		f, err := s.engine.Flow(id)
		if err != nil {
			return nil, err
		}
		out = append(out, FlowInfo{ID: f.ID(), Title: f.Title(), Intro: f.Intro(), Steps: f.Len()})
	}
	return out, nil
}

func (s *Server) handleListFlows(ctx context.Context, request mcp.CallToolRequest, args struct{}) (FlowsResponse, error) {
	flows, err := s.flows()
	if err != nil {
		return FlowsResponse{}, err
	}
	return FlowsResponse{Flows: flows}, nil
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args StartArgs) (ViewResponse, error) {
	if args.FlowID == "" {
		return ViewResponse{}, errors.New("flow_id is required")
	}
	state, err := s.sessions.Start(ctx, s.engine, args.FlowID, args.SessionID)
	if err != nil {
		return ViewResponse{}, err
	}
	s.logger.Info("MCP session started", "session_id", state.SessionID, "flow_id", state.FlowID)
	return s.view(ctx, state)
}

func (s *Server) handleSubmit(ctx context.Context, request mcp.CallToolRequest, args SubmitArgs) (ViewResponse, error) {
	value := args.Value
	if s.sanitize != nil {
		clean, err := s.sanitize(value)
		if err != nil {
			s.logger.Warn("MCP submit: input rejected", "err", err, "size", len(value))
			return ViewResponse{}, fmt.Errorf("input rejected: %w", err)
		}
		value = clean
	}

	state, err := s.sessions.Update(ctx, args.SessionID, func(st *domain.State) (*domain.State, error) {
		return s.engine.Submit(ctx, st, args.Step, value)
	})
	if err != nil {
		return ViewResponse{}, err
	}
	return s.view(ctx, state)
}

func (s *Server) navigation(op func(context.Context, *domain.State) (*domain.State, error)) mcp.StructuredToolHandlerFunc[SessionArgs, ViewResponse] {
	return func(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (ViewResponse, error) {
		state, err := s.sessions.Update(ctx, args.SessionID, func(st *domain.State) (*domain.State, error) {
			return op(ctx, st)
		})
		if err != nil {
			return ViewResponse{}, err
		}
		return s.view(ctx, state)
	}
}

func (s *Server) handleView(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (ViewResponse, error) {
	state, err := s.sessions.Load(ctx, args.SessionID)
	if err != nil {
		return ViewResponse{}, err
	}
	return s.view(ctx, state)
}

func (s *Server) handleSummary(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (SummaryResponse, error) {
	state, err := s.sessions.Load(ctx, args.SessionID)
	if err != nil {
		return SummaryResponse{}, err
	}
	entries, err := s.engine.Summary(ctx, state)
	if err != nil {
		return SummaryResponse{}, err
	}
	return SummaryResponse{SessionID: state.SessionID, Entries: entries}, nil
}

func (s *Server) view(ctx context.Context, state *domain.State) (ViewResponse, error) {
	v, err := s.engine.View(ctx, state)
	if err != nil {
		return ViewResponse{}, fmt.Errorf("render failed: %w", err)
	}
	return ViewResponse{View: NewSessionView(v)}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(FlowsURI, "Available flows",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		flows, err := s.flows()
		if err != nil {
			return nil, fmt.Errorf("failed to list flows: %w", err)
		}
		data, err := json.Marshal(flows)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      FlowsURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
