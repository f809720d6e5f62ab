package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ts1257/acme-blogs/pkg/adapters/file"
	"github.com/ts1257/acme-blogs/pkg/adapters/jsonplaceholder"
	"github.com/ts1257/acme-blogs/pkg/adapters/memory"
	"github.com/ts1257/acme-blogs/pkg/adapters/redis"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewApp_FlagOverrides(t *testing.T) {
	cfgPath := writeFile(t, "acme-blogs.yaml", "board:\n  failure_policy: skip\nlog:\n  level: warn\n")

	app, err := NewApp(Options{
		ConfigPath:    cfgPath,
		BaseURL:       "http://localhost:9999",
		FailurePolicy: "abort",
		Debug:         true,
	}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "abort", app.Config.Board.FailurePolicy)
	assert.Equal(t, "debug", app.Config.Log.Level)
	assert.IsType(t, &jsonplaceholder.Client{}, app.Fetcher())
}

func TestNewApp_InvalidOverride(t *testing.T) {
	_, err := NewApp(Options{FailurePolicy: "retry"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "failure_policy")
}

func TestNewApp_OfflineBoard(t *testing.T) {
	app, err := NewApp(Options{Offline: true}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.IsType(t, &memory.Source{}, app.Fetcher())

	board, err := app.NewBoard()
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, board.InitPage(ctx))

	res, err := board.Select(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.UserID)
	require.NotNil(t, res.Refresh)
	assert.NotEmpty(t, res.Refresh.Rendered)
}

func TestNewApp_OfflineFixturesFile(t *testing.T) {
	fixtures := writeFile(t, "fixtures.yaml", `
users:
  - id: 7
    name: Kurtis Weissnat
    company: {name: Johns Group, catchPhrase: Configurable multimedia task-force}
posts:
  - {id: 61, userId: 7, title: voluptatem doloribus, body: dignissimos}
comments: []
`)
	app, err := NewApp(Options{Offline: true, FixturesPath: fixtures}, &bytes.Buffer{})
	require.NoError(t, err)

	users, err := app.Fetcher().FetchUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Kurtis Weissnat", users[0].Name)

	_, err = NewApp(Options{Offline: true, FixturesPath: filepath.Join(t.TempDir(), "none.yaml")}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "failed to load fixtures")
}

func TestNewSessions_Memory(t *testing.T) {
	app, err := NewApp(Options{Offline: true}, &bytes.Buffer{})
	require.NoError(t, err)

	sessions, closeFn, err := app.NewSessions(context.Background())
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &memory.Store{}, sessions.Store())
}

func TestNewSessions_File(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, "acme-blogs.yaml", "store:\n  dir: "+dir+"\n")

	app, err := NewApp(Options{ConfigPath: cfgPath, Offline: true}, &bytes.Buffer{})
	require.NoError(t, err)

	sessions, closeFn, err := app.NewSessions(context.Background())
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &file.Store{}, sessions.Store())

	_, _, err = sessions.Toggle(context.Background(), "viewer-1", 1)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "viewer-1.json"))
}

func TestNewSessions_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfgPath := writeFile(t, "acme-blogs.yaml", "redis:\n  addr: "+mr.Addr()+"\n")

	app, err := NewApp(Options{ConfigPath: cfgPath, Offline: true}, &bytes.Buffer{})
	require.NoError(t, err)

	ctx := context.Background()
	sessions, closeFn, err := app.NewSessions(ctx)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &redis.Store{}, sessions.Store())

	_, _, err = sessions.Select(ctx, "viewer-1", "1")
	require.NoError(t, err)
	ids, err := sessions.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"viewer-1"}, ids)
}

func TestNewSessions_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	cfgPath := writeFile(t, "acme-blogs.yaml", "redis:\n  addr: "+addr+"\n")

	app, err := NewApp(Options{ConfigPath: cfgPath, Offline: true}, &bytes.Buffer{})
	require.NoError(t, err)

	_, _, err = app.NewSessions(context.Background())
	assert.ErrorContains(t, err, "redis "+addr)
}

func TestRenderer(t *testing.T) {
	app, err := NewApp(Options{Offline: true}, &bytes.Buffer{})
	require.NoError(t, err)

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()

	assert.False(t, IsTerminal(f))

	render, err := app.Renderer(f, false)
	require.NoError(t, err)
	assert.Nil(t, render, "plain markdown when not a terminal")

	render, err = app.Renderer(f, true)
	require.NoError(t, err)
	require.NotNil(t, render)
	out, err := render("# Acme Blogs")
	require.NoError(t, err)
	assert.Contains(t, out, "Acme Blogs")
}
