// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/focus-smile/internal/domain"
	"github.com/xvierd/focus-smile/internal/ports"
)

const defaultHistoryLimit = 20

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server        *server.MCPServer
	stateProvider ports.MCPStateProvider
	in            io.Reader
	out           io.Writer

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a new MCP server instance serving on stdio.
func NewServer(stateProvider ports.MCPStateProvider, version string) *Server {
	s := &Server{
		stateProvider: stateProvider,
		in:            os.Stdin,
		out:           os.Stdout,
	}

	s.server = server.NewMCPServer(
		"focus-smile",
		version,
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_timer_state",
			mcp.WithDescription("Get the Focus Smile timer: session type, status, remaining time and sessions completed today"),
		),
		s.handleGetTimerState,
	)

	s.server.AddTool(
		mcp.NewTool("start_timer", mcp.WithDescription("Start or resume the current session")),
		s.timerCommand("start", s.stateProvider.StartTimer),
	)
	s.server.AddTool(
		mcp.NewTool("pause_timer", mcp.WithDescription("Pause the running session")),
		s.timerCommand("pause", s.stateProvider.PauseTimer),
	)
	s.server.AddTool(
		mcp.NewTool("reset_timer", mcp.WithDescription("Rewind the current session to its full length")),
		s.timerCommand("reset", s.stateProvider.ResetTimer),
	)
	s.server.AddTool(
		mcp.NewTool("skip_session", mcp.WithDescription("Skip to the next session without a smile prompt")),
		s.timerCommand("skip", s.stateProvider.SkipSession),
	)

	s.server.AddTool(
		mcp.NewTool(
			"list_quotes",
			mcp.WithDescription("List the quote collection, optionally fuzzy-filtered"),
			mcp.WithString("query", mcp.Description("Text to match against quote text and author")),
		),
		s.handleListQuotes,
	)

	s.server.AddTool(
		mcp.NewTool(
			"add_quote",
			mcp.WithDescription("Add a quote to the collection"),
			mcp.WithString("text", mcp.Required(), mcp.Description("The quote text")),
			mcp.WithString("author", mcp.Required(), mcp.Description("Who said it")),
			mcp.WithString("category", mcp.Description("Optional category such as productivity or motivation")),
		),
		s.handleAddQuote,
	)

	s.server.AddTool(
		mcp.NewTool(
			"toggle_favorite",
			mcp.WithDescription("Mark or unmark a quote as favorite"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("The quote ID")),
		),
		s.handleToggleFavorite,
	)

	s.server.AddTool(
		mcp.NewTool(
			"contextual_quote",
			mcp.WithDescription("Pick a quote the way the smile prompt does, without changing the timer"),
			mcp.WithString(
				"session_type",
				mcp.Description("Session the quote is for (default: work)"),
				mcp.Enum(string(domain.SessionTypeWork), string(domain.SessionTypeShortBreak), string(domain.SessionTypeLongBreak)),
			),
		),
		s.handleContextualQuote,
	)

	s.server.AddTool(
		mcp.NewTool(
			"smile_history",
			mcp.WithDescription("Get the most recent smile prompt answers, newest first"),
			mcp.WithNumber("limit", mcp.Description(fmt.Sprintf("Maximum number of events (default: %d)", defaultHistoryLimit))),
		),
		s.handleSmileHistory,
	)
}

// Start serves MCP requests over stdio until ctx is done or the client
// disconnects.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	ctx = s.ctx
	s.mu.Unlock()

	err := server.NewStdioServer(s.server).Listen(ctx, s.in, s.out)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server stopped: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx != nil && s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

func (s *Server) handleGetTimerState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.stateProvider.GetCurrentState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current state: %w", err)
	}
	return jsonResult(stateJSON(state))
}

// timerCommand adapts a timer command to a tool handler. Refusals such as
// pausing an idle timer are reported as tool errors.
func (s *Server) timerCommand(name string, run func(context.Context) (domain.CurrentState, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		state, err := run(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("cannot %s: %v", name, err)), nil
		}
		return jsonResult(stateJSON(state))
	}
}

func (s *Server) handleListQuotes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("query", "")

	quotes, err := s.stateProvider.ListQuotes(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}

	list := make([]map[string]interface{}, 0, len(quotes))
	for _, q := range quotes {
		list = append(list, quoteJSON(q))
	}

	result := map[string]interface{}{
		"quotes":      list,
		"total_count": len(list),
	}
	if query != "" {
		result["query"] = query
	}
	return jsonResult(result)
}

func (s *Server) handleAddQuote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text is required: " + err.Error()), nil
	}
	author, err := request.RequireString("author")
	if err != nil {
		return mcp.NewToolResultError("author is required: " + err.Error()), nil
	}

	q, err := s.stateProvider.AddQuote(ctx, text, author, request.GetString("category", ""))
	if errors.Is(err, domain.ErrValidation) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add quote: %w", err)
	}
	return jsonResult(quoteJSON(q))
}

func (s *Server) handleToggleFavorite(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireFloat("id")
	if err != nil {
		return mcp.NewToolResultError("id is required: " + err.Error()), nil
	}

	q, err := s.stateProvider.ToggleFavorite(ctx, int64(id))
	if errors.Is(err, domain.ErrQuoteNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("quote %d not found", int64(id))), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	return jsonResult(quoteJSON(q))
}

func (s *Server) handleContextualQuote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw := request.GetString("session_type", string(domain.SessionTypeWork))
	sessionType, err := domain.ParseSessionType(strings.TrimSpace(raw))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	q, branch, notice := s.stateProvider.ContextualQuote(ctx, sessionType)
	result := map[string]interface{}{
		"quote":        quoteJSON(q),
		"branch":       string(branch),
		"session_type": string(sessionType),
	}
	if notice != nil {
		result["notice"] = notice.Error()
	}
	return jsonResult(result)
}

func (s *Server) handleSmileHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(request.GetFloat("limit", defaultHistoryLimit))
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	events, err := s.stateProvider.GetSmileHistory(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get smile history: %w", err)
	}

	list := make([]map[string]interface{}, 0, len(events))
	smiles := 0
	for _, e := range events {
		if e.Type == domain.SmileTypeSmile {
			smiles++
		}
		list = append(list, map[string]interface{}{
			"timestamp":     e.Time().Format("2006-01-02T15:04:05"),
			"quote_id":      e.QuoteID,
			"session_type":  string(e.SessionType),
			"session_count": e.SessionCount,
			"type":          string(e.Type),
		})
	}

	return jsonResult(map[string]interface{}{
		"events":      list,
		"total_count": len(list),
		"smiles":      smiles,
	})
}

func stateJSON(state domain.CurrentState) map[string]interface{} {
	return map[string]interface{}{
		"session_type":                  string(state.Timer.SessionType),
		"status":                        string(state.Status),
		"remaining_seconds":             state.Timer.RemainingSec,
		"remaining":                     state.Remaining().String(),
		"progress":                      state.Progress(),
		"session_count":                 state.Timer.SessionCount,
		"completed_work_sessions_today": state.CompletedWorkSessionsToday,
		"recap_available":               state.RecapAvailable(),
		"durations": map[string]interface{}{
			"work":        state.Durations.Work,
			"short_break": state.Durations.ShortBreak,
			"long_break":  state.Durations.LongBreak,
		},
	}
}

func quoteJSON(q domain.Quote) map[string]interface{} {
	data := map[string]interface{}{
		"id":          q.ID,
		"text":        q.Text,
		"author":      q.Author,
		"is_favorite": q.IsFavorite,
		"source":      string(q.Source),
	}
	if q.Category != "" {
		data["category"] = q.Category
	}
	if q.Rating != nil {
		data["rating"] = *q.Rating
	}
	return data
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
