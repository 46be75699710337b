package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahror172/kino/internal/model"
	"github.com/ahror172/kino/internal/store"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	return s
}

func TestContentLastWriteWins(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.GetContent(ctx, "M1")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.PutContent(ctx, &model.Content{Code: "M1", FileID: "first", Kind: model.MediaVideo}))
	require.NoError(t, s.PutContent(ctx, &model.Content{Code: "M1", FileID: "second", Kind: model.MediaPhoto, Caption: "new"}))

	c, err := s.GetContent(ctx, "M1")
	require.NoError(t, err)
	assert.Equal(t, "second", c.FileID)
	assert.Equal(t, model.MediaPhoto, c.Kind)
	assert.Equal(t, "new", c.Caption)
	assert.False(t, c.UpdatedAt.IsZero())

	require.NoError(t, s.PutContent(ctx, &model.Content{Code: "A0", FileID: "x"}))
	list, err := s.ListContents(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "A0", list[0].Code)
	assert.Equal(t, "M1", list[1].Code)
}

func TestChannelsKeepOrder(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	got, err := s.LoadChannels(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	want := []string{"@b", "https://t.me/+x", "@a"}
	require.NoError(t, s.ReplaceChannels(ctx, want))
	got, err = s.LoadChannels(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRecipients(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	added, err := s.AddRecipient(ctx, 1)
	require.NoError(t, err)
	assert.True(t, added)
	added, err = s.AddRecipient(ctx, 1)
	require.NoError(t, err)
	assert.False(t, added)
	_, err = s.AddRecipient(ctx, 2)
	require.NoError(t, err)

	ids, err := s.LoadRecipients(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)

	require.NoError(t, s.ReplaceRecipients(ctx, []int64{2}))
	ids, err = s.LoadRecipients(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids)
}

func TestReadsFilesWrittenByHand(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	// формат первой версии бота: плоские JSON-массивы
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, channelsFile), []byte(`["@kino"]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, usersFile), []byte(`[11, 22]`), 0o644))

	chs, err := s.LoadChannels(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"@kino"}, chs)
	ids, err := s.LoadRecipients(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{11, 22}, ids)
}

func TestCorruptFileIsAnError(t *testing.T) {
	s := newStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, usersFile), []byte(`{oops`), 0o644))
	_, err := s.LoadRecipients(context.Background())
	require.Error(t, err)
}

func TestNoTempFilesLeft(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.ReplaceChannels(context.Background(), []string{"@a"}))
	entries, err := os.ReadDir(s.dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}
