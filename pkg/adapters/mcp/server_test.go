package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	blogs "github.com/ts1257/acme-blogs"
	"github.com/ts1257/acme-blogs/pkg/adapters/memory"
	"github.com/ts1257/acme-blogs/pkg/domain"
	"github.com/ts1257/acme-blogs/pkg/ports/tests"
)

func newTestServer(t *testing.T) (*Server, *memory.Source) {
	t.Helper()
	fx := tests.NewFixture()
	src := memory.NewSource(fx.Users, fx.Posts, fx.Comments)
	board, err := blogs.New(src)
	require.NoError(t, err)
	require.NoError(t, board.InitPage(context.Background()))
	return NewServer(board), src
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestListEmployees(t *testing.T) {
	s, src := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleListEmployees(ctx, mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.JSONEq(t,
		`[{"id":1,"name":"Leanne Graham","company":"Romaguera-Crona"},{"id":3,"name":"Clementine Bauch","company":"Romaguera-Jacobson"}]`,
		resultText(t, res))

	src.Fail(domain.ResourceUsers, 0, errors.New("down"))
	res, err = s.handleListEmployees(ctx, mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestShowPostsAndToggle(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	posts, err := s.handleShowPosts(ctx, mcp.CallToolRequest{}, map[string]interface{}{"user_id": float64(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, posts.UserID)
	assert.Equal(t, []int{10, 11, 12}, posts.Rendered)
	assert.Contains(t, posts.Markdown, "## optio molestias")

	toggle, err := s.handleToggle(ctx, mcp.CallToolRequest{}, map[string]interface{}{"post_id": "11"})
	require.NoError(t, err)
	assert.True(t, toggle.Visible)
	assert.Equal(t, domain.HideCommentsLabel, toggle.Caption)

	_, err = s.handleToggle(ctx, mcp.CallToolRequest{}, map[string]interface{}{"post_id": "99"})
	assert.Error(t, err)
	_, err = s.handleToggle(ctx, mcp.CallToolRequest{}, map[string]interface{}{"post_id": "abc"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	t.Run("Missing user shows the default employee", func(t *testing.T) {
		posts, err := s.handleShowPosts(ctx, mcp.CallToolRequest{}, map[string]interface{}{})
		require.NoError(t, err)
		assert.Equal(t, 1, posts.UserID)
		assert.Equal(t, []int{1}, posts.Rendered)
	})
}

func TestHandleMessage_ToolsList(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	init := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`
	s.MCPServer().HandleMessage(ctx, json.RawMessage(init))

	resp := s.MCPServer().HandleMessage(ctx, json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	for _, name := range []string{"list_employees", "show_posts", "toggle_comments"} {
		assert.Contains(t, string(data), `"name":"`+name+`"`)
	}
}
