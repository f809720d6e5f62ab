package runner_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	blogs "github.com/ts1257/acme-blogs"
	"github.com/ts1257/acme-blogs/pkg/adapters/memory"
	"github.com/ts1257/acme-blogs/pkg/domain"
	"github.com/ts1257/acme-blogs/pkg/ports/tests"
	"github.com/ts1257/acme-blogs/pkg/runner"
)

func newBoard(t *testing.T) (*blogs.Board, *memory.Source) {
	t.Helper()
	fx := tests.NewFixture()
	src := memory.NewSource(fx.Users, fx.Posts, fx.Comments)
	board, err := blogs.New(src)
	require.NoError(t, err)
	return board, src
}

func TestRunner_TextSession(t *testing.T) {
	board, _ := newBoard(t)
	input := strings.NewReader("users\nselect 3\ntoggle 10\nquit\nselect 1\n")
	var out bytes.Buffer

	r := runner.NewRunner(runner.NewTextHandler(input, &out))
	require.NoError(t, r.Run(context.Background(), board))

	text := out.String()
	assert.Contains(t, text, domain.DefaultText)
	assert.Contains(t, text, "3  Clementine Bauch (Romaguera-Jacobson)")
	assert.Contains(t, text, "Employee: **Clementine Bauch**")
	assert.Contains(t, text, "`[Hide Comments]` (post 10)")
	assert.Contains(t, text, "#### dolorem")

	// quit stops the loop before the last command.
	snap := board.Snapshot()
	assert.Equal(t, 3, snap.UserID)
	assert.Equal(t, []int{10}, snap.Expanded)
}

func TestRunner_ErrorsDoNotStopTheLoop(t *testing.T) {
	board, _ := newBoard(t)
	input := strings.NewReader("dance\ntoggle abc\ntoggle 99\nselect Employees\nselect 3\n")
	var out bytes.Buffer

	r := runner.NewRunner(runner.NewTextHandler(input, &out))
	require.NoError(t, r.Run(context.Background(), board), "EOF ends the loop cleanly")

	text := out.String()
	assert.Contains(t, text, `Error: unknown command "dance"`)
	assert.Contains(t, text, "invalid id")
	assert.Contains(t, text, "post 99 is not displayed")
	assert.Contains(t, text, `Error: select "Employees": invalid id`)
	assert.Equal(t, 3, board.Snapshot().UserID)
}

func TestRunner_ExecRejectsBadIDsBeforeTheBoard(t *testing.T) {
	board, src := newBoard(t)
	r := runner.NewRunner(runner.NewTextHandler(strings.NewReader(""), &bytes.Buffer{}))
	ctx := context.Background()

	for _, line := range []string{"select -1", "select abc", "toggle x10"} {
		err := r.Exec(ctx, board, line)
		assert.ErrorIs(t, err, domain.ErrInvalidID, line)
	}
	assert.Zero(t, src.Calls(domain.ResourcePosts))
	assert.Equal(t, uint64(0), board.Snapshot().Generation)

	require.NoError(t, r.Exec(ctx, board, "select"))
	assert.Equal(t, 1, board.Snapshot().UserID, "no id selects the default employee")
}

func TestRunner_TextRenderer(t *testing.T) {
	board, _ := newBoard(t)
	var out bytes.Buffer
	h := runner.NewTextHandler(strings.NewReader(""), &out,
		runner.WithTextHandlerRenderer(func(s string) (string, error) { return strings.ToUpper(s), nil }))

	require.NoError(t, runner.NewRunner(h).Run(context.Background(), board))
	assert.Contains(t, out.String(), "# ACME BLOGS")
}

func TestRunner_InitFailure(t *testing.T) {
	board, src := newBoard(t)
	src.Fail(domain.ResourceUsers, 0, errors.New("down"))
	var out bytes.Buffer

	// Users being unavailable leaves the placeholder; it is not fatal.
	r := runner.NewRunner(runner.NewTextHandler(strings.NewReader("select 3\n"), &out))
	require.NoError(t, r.Run(context.Background(), board))
	assert.Equal(t, 3, board.Snapshot().UserID)
}

func TestRunner_Cancelled(t *testing.T) {
	board, _ := newBoard(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pr := strings.NewReader("")
	err := runner.NewRunner(runner.NewTextHandler(pr, &bytes.Buffer{})).Run(ctx, board)
	assert.NoError(t, err)
}

func TestRunner_JSONLines(t *testing.T) {
	board, src := newBoard(t)
	src.Fail(domain.ResourceComments, 11, errors.New("down"))
	input := strings.NewReader("\"select 3\"\ntoggle 12\n")
	var out bytes.Buffer

	require.NoError(t, runner.NewRunner(runner.NewJSONHandler(input, &out)).Run(context.Background(), board))

	var msgs []runner.Message
	sc := bufio.NewScanner(&out)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var m runner.Message
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m), sc.Text())
		msgs = append(msgs, m)
	}
	require.Len(t, msgs, 4)

	assert.Equal(t, runner.MessageBoard, msgs[0].Type)
	assert.Equal(t, runner.MessageSystem, msgs[1].Type)

	selected := msgs[2].View
	require.NotNil(t, selected)
	assert.Equal(t, 3, selected.Session.UserID)
	require.Len(t, selected.Skipped, 1)
	assert.Equal(t, 11, selected.Skipped[0].PostID)

	toggled := msgs[3].View
	require.NotNil(t, toggled)
	assert.Equal(t, []int{12}, toggled.Session.Expanded)
	assert.Contains(t, toggled.Markdown, "_No comments_")
}
