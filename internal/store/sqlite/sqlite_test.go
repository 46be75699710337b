package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahror172/kino/internal/model"
	"github.com/ahror172/kino/internal/store"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "kino.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestContentUpsert(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	_, err := s.GetContent(ctx, "M1")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.PutContent(ctx, &model.Content{Code: "M1", FileID: "a", Kind: model.MediaVideo, Caption: "one"}))
	require.NoError(t, s.PutContent(ctx, &model.Content{Code: "M1", FileID: "b", Kind: model.MediaDocument}))

	c, err := s.GetContent(ctx, "M1")
	require.NoError(t, err)
	assert.Equal(t, "b", c.FileID)
	assert.Equal(t, model.MediaDocument, c.Kind)
	assert.Equal(t, "", c.Caption)
	assert.WithinDuration(t, time.Now(), c.UpdatedAt, time.Minute)

	list, err := s.ListContents(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestChannelsReplacePreservesOrder(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	require.NoError(t, s.ReplaceChannels(ctx, []string{"@z", "@a", "https://t.me/+x"}))
	got, err := s.LoadChannels(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"@z", "@a", "https://t.me/+x"}, got)

	require.NoError(t, s.ReplaceChannels(ctx, []string{"@a"}))
	got, err = s.LoadChannels(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"@a"}, got)
}

func TestRecipients(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	added, err := s.AddRecipient(ctx, 5)
	require.NoError(t, err)
	assert.True(t, added)
	added, err = s.AddRecipient(ctx, 5)
	require.NoError(t, err)
	assert.False(t, added)

	require.NoError(t, s.ReplaceRecipients(ctx, []int64{1, 2, 3}))
	ids, err := s.LoadRecipients(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2, 3}, ids)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kino.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.PutContent(ctx, &model.Content{Code: "K", FileID: "f"}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	c, err := s.GetContent(ctx, "K")
	require.NoError(t, err)
	assert.Equal(t, "f", c.FileID)
}
