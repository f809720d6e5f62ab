package blogs_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	blogs "github.com/ts1257/acme-blogs"
	"github.com/ts1257/acme-blogs/pkg/adapters/memory"
	"github.com/ts1257/acme-blogs/pkg/dom"
	"github.com/ts1257/acme-blogs/pkg/domain"
	"github.com/ts1257/acme-blogs/pkg/ports/tests"
)

func newSource() *memory.Source {
	fx := tests.NewFixture()
	return memory.NewSource(fx.Users, fx.Posts, fx.Comments)
}

func TestNew_RequiresFetcher(t *testing.T) {
	_, err := blogs.New(nil)
	assert.Error(t, err)
}

func TestBoard_TitleAndRender(t *testing.T) {
	board, err := blogs.New(newSource(), blogs.WithTitle("Team Posts"))
	require.NoError(t, err)
	assert.Equal(t, "Team Posts", board.Title())

	require.NoError(t, board.InitPage(context.Background()))

	var buf bytes.Buffer
	require.NoError(t, board.Render(&buf))
	out := buf.String()
	assert.Contains(t, out, "<title>Team Posts</title>")
	assert.Contains(t, out, `<option value="3">Clementine Bauch</option>`)
	assert.Contains(t, out, domain.DefaultText)
}

func TestBoard_SelectClickSnapshot(t *testing.T) {
	board, err := blogs.New(newSource(), blogs.WithConcurrency(1))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, board.InitPage(ctx))

	sel, err := board.Select(ctx, "3")
	require.NoError(t, err)
	require.NotNil(t, sel.Refresh)
	assert.Equal(t, []int{10, 11, 12}, sel.Refresh.Rendered)

	res, err := board.Click(ctx, 11)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.True(t, res.Visible)

	snap := board.Snapshot()
	assert.Equal(t, 3, snap.UserID)
	assert.Equal(t, []int{11}, snap.Expanded)

	var visible []int
	require.NoError(t, board.View(func(doc *dom.Document) error {
		for _, section := range dom.FindAll(doc.Main(), dom.Tag("section")) {
			if !dom.HasClass(section, domain.ClassHidden) {
				id, _ := dom.PostID(section)
				visible = append(visible, id)
			}
		}
		return nil
	}))
	assert.Equal(t, []int{11}, visible)
}

func TestBoard_DefaultUser(t *testing.T) {
	board, err := blogs.New(newSource(), blogs.WithDefaultUserID(3))
	require.NoError(t, err)

	sel, err := board.Select(context.Background(), domain.SelectPlaceholder)
	require.NoError(t, err)
	assert.Equal(t, 3, sel.UserID)
}

func TestBoard_Users(t *testing.T) {
	board, err := blogs.New(newSource())
	require.NoError(t, err)

	users, err := board.Users(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestParseFailurePolicy(t *testing.T) {
	p, err := blogs.ParseFailurePolicy("abort")
	require.NoError(t, err)
	assert.Equal(t, blogs.AbortAll, p)

	p, err = blogs.ParseFailurePolicy("")
	require.NoError(t, err)
	assert.Equal(t, blogs.SkipPost, p)

	_, err = blogs.ParseFailurePolicy("retry")
	assert.Error(t, err)
}
