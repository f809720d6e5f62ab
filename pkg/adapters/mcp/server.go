package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	blogs "github.com/ts1257/acme-blogs"
	"github.com/ts1257/acme-blogs/internal/logging"
	"github.com/ts1257/acme-blogs/internal/presentation/tui"
	"github.com/ts1257/acme-blogs/pkg/dom"
	"github.com/ts1257/acme-blogs/pkg/domain"
)

// Resource URIs.
const (
	BoardURI         = "blogs://board"
	BoardMarkdownURI = "blogs://board.md"
)

// PostsResponse is the structured result of show_posts.
type PostsResponse struct {
	UserID   int                  `json:"user_id" jsonschema_description:"The employee whose posts are displayed"`
	Rendered []int                `json:"rendered" jsonschema_description:"IDs of the posts now on the board, in order"`
	Skipped  []domain.SkippedPost `json:"skipped,omitempty" jsonschema_description:"Posts left out because their author or comments were unavailable"`
	Markdown string               `json:"markdown" jsonschema_description:"The board rendered as Markdown"`
}

// ToggleResponse is the structured result of toggle_comments.
type ToggleResponse struct {
	PostID  int    `json:"post_id"`
	Visible bool   `json:"visible" jsonschema_description:"Whether the comments of the post are now shown"`
	Caption string `json:"caption" jsonschema_description:"The caption of the toggle control"`
}

// Server exposes a single board to MCP clients.
type Server struct {
	board     *blogs.Board
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance driving board.
func NewServer(board *blogs.Board, opts ...Option) *Server {
	s := &Server{
		board:     board,
		mcpServer: server.NewMCPServer("acme-blogs-mcp", strings.TrimSpace(blogs.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())
	httpServer := &http.Server{Addr: addr, Handler: mux}

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
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_employees",
		mcp.WithDescription("List the employees whose posts can be displayed."),
	), s.handleListEmployees)

	showTool := mcp.NewTool("show_posts",
		mcp.WithDescription("Display the posts of an employee, with their comments collapsed. Unknown or missing ids show the default employee."),
		mcp.WithString("user_id", mcp.Description("The employee id, as listed by list_employees")),
		mcp.WithOutputSchema[PostsResponse](),
	)
	s.mcpServer.AddTool(showTool, mcp.NewStructuredToolHandler(s.handleShowPosts))

	toggleTool := mcp.NewTool("toggle_comments",
		mcp.WithDescription("Show or hide the comments of a displayed post."),
		mcp.WithString("post_id", mcp.Required(), mcp.Description("The post id")),
		mcp.WithOutputSchema[ToggleResponse](),
	)
	s.mcpServer.AddTool(toggleTool, mcp.NewStructuredToolHandler(s.handleToggle))
}

func (s *Server) handleListEmployees(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	users, err := s.board.Users(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list employees: %v", err)), nil
	}
	type employee struct {
		ID      int    `json:"id"`
		Name    string `json:"name"`
		Company string `json:"company"`
	}
	out := make([]employee, 0, len(users))
	for _, u := range users {
		out = append(out, employee{ID: u.ID, Name: u.Name, Company: u.Company.Name})
	}
	jsonBytes, _ := json.Marshal(out)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleShowPosts(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (PostsResponse, error) {
	value := argString(args, "user_id")

	res, err := s.board.Select(ctx, value)
	if err != nil {
		return PostsResponse{}, fmt.Errorf("show posts failed: %w", err)
	}

	resp := PostsResponse{UserID: res.UserID, Rendered: []int{}}
	if res.Refresh != nil {
		resp.Rendered = res.Refresh.Rendered
		resp.Skipped = res.Refresh.Skipped
	}
	resp.Markdown = s.markdown()
	return resp, nil
}

func (s *Server) handleToggle(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ToggleResponse, error) {
	postID, err := strconv.Atoi(argString(args, "post_id"))
	if err != nil {
		return ToggleResponse{}, fmt.Errorf("post_id: %w", domain.ErrInvalidID)
	}

	res, err := s.board.Click(ctx, postID)
	if err != nil {
		return ToggleResponse{}, fmt.Errorf("toggle failed: %w", err)
	}
	if !res.Found {
		return ToggleResponse{}, fmt.Errorf("post %d is not displayed", postID)
	}
	return ToggleResponse{PostID: postID, Visible: res.Visible, Caption: res.Caption}, nil
}

// argString reads a string argument. Numbers are accepted too, since clients often send ids as such.
func argString(args map[string]interface{}, key string) string {
	switch v := args[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func (s *Server) markdown() string {
	var md string
	_ = s.board.View(func(doc *dom.Document) error {
		md = tui.Markdown(doc)
		return nil
	})
	return md
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(BoardURI, "Current Board (HTML)",
		mcp.WithMIMEType("text/html"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		var buf bytes.Buffer
		if err := s.board.Render(&buf); err != nil {
			return nil, fmt.Errorf("failed to render board: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: BoardURI, MIMEType: "text/html", Text: buf.String()},
		}, nil
	})

	s.mcpServer.AddResource(mcp.NewResource(BoardMarkdownURI, "Current Board (Markdown)",
		mcp.WithMIMEType("text/markdown"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: BoardMarkdownURI, MIMEType: "text/markdown", Text: s.markdown()},
		}, nil
	})
}
