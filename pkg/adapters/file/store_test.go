package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ts1257/acme-blogs/pkg/adapters/file"
	"github.com/ts1257/acme-blogs/pkg/domain"
	"github.com/ts1257/acme-blogs/pkg/ports"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_Layout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sessions")
	store := file.New(dir)
	ctx := context.Background()

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids, "missing directory lists nothing")

	s := domain.NewSession("viewer-1")
	s.UserID = 3
	require.NoError(t, store.Save(ctx, s))

	data, err := os.ReadFile(filepath.Join(dir, "viewer-1.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"user_id": 3`)

	// Leftover temp files are not sessions.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmp-viewer-2-123.json"), []byte("{}"), 0o644))
	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"viewer-1"}, ids)
}

func TestFileStore_RejectsUnsafeIDs(t *testing.T) {
	store := file.New(t.TempDir())
	ctx := context.Background()

	for _, id := range []string{"", "../escape", "a/b", `a\b`, ".hidden", ".."} {
		err := store.Save(ctx, domain.NewSession(id))
		assert.ErrorIs(t, err, file.ErrInvalidSessionID, id)

		_, err = store.Load(ctx, id)
		assert.ErrorIs(t, err, file.ErrInvalidSessionID, id)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))

	_, err := file.New(dir).Load(context.Background(), "broken")
	assert.ErrorContains(t, err, "failed to unmarshal session")
}
