package memory_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ts1257/acme-blogs/pkg/adapters/memory"
	"github.com/ts1257/acme-blogs/pkg/domain"
	"github.com/ts1257/acme-blogs/pkg/ports/tests"
)

func fixtureSource() *memory.Source {
	fx := tests.NewFixture()
	return memory.NewSource(fx.Users, fx.Posts, fx.Comments)
}

func TestSource_Contract(t *testing.T) {
	tests.FetcherContractTest(t, fixtureSource())
}

func TestSource_InjectedFailure(t *testing.T) {
	src := fixtureSource()
	boom := errors.New("connection reset")
	src.Fail(domain.ResourceUser, 3, boom)

	_, err := src.FetchUser(context.Background(), 3)
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
	assert.ErrorIs(t, err, boom)

	_, err = src.FetchUser(context.Background(), 1)
	assert.NoError(t, err, "only the targeted entity fails")
}

func TestSource_InvalidIDIssuesNoRequest(t *testing.T) {
	src := fixtureSource()
	_, err := src.FetchCommentsByPost(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidID)
	assert.Equal(t, 0, src.Calls(domain.ResourceComments))
}

func TestSource_DelayHonoursContext(t *testing.T) {
	src := fixtureSource()
	src.Delay(domain.ResourcePosts, 3, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := src.FetchPostsByUser(ctx, 3)
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLoadSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.yaml")
	content := `
users:
  - id: 7
    name: Kurtis Weissnat
    company:
      name: Johns Group
      catchPhrase: Configurable multimedia task-force
posts:
  - {id: 61, userId: 7, title: voluptatem, body: quia}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	src, err := memory.LoadSource(path)
	require.NoError(t, err)

	u, err := src.FetchUser(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Configurable multimedia task-force", u.Company.CatchPhrase)

	posts, err := src.FetchPostsByUser(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	_, err = memory.LoadSource(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultSource(t *testing.T) {
	src := memory.DefaultSource()
	users, err := src.FetchUsers(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, users)
}
