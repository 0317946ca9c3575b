package storage

import (
	"bitwise74/media-api/internal/model"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStore_PutWritesObjectAndMeta(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	data := []byte("hello world")
	err = s.Put(context.Background(), model.BucketChatTemp, "u1/1-a.txt", bytes.NewReader(data), int64(len(data)), "text/plain")
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(s.Root, "chat-temp", "u1", "1-a.txt"))
	require.NoError(t, err)
	require.Equal(t, data, got)

	raw, err := os.ReadFile(filepath.Join(s.Root, ".meta", "chat-temp", "u1", "1-a.txt.json"))
	require.NoError(t, err)

	var meta localMeta
	require.NoError(t, json.Unmarshal(raw, &meta))
	require.Equal(t, "text/plain", meta.ContentType)
	require.Equal(t, int64(len(data)), meta.Size)
}

func TestLocalStore_NoOverwrite(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, model.BucketProfilePublic, "u1/1-a.png", bytes.NewReader([]byte("first")), 5, "image/png"))

	err = s.Put(ctx, model.BucketProfilePublic, "u1/1-a.png", bytes.NewReader([]byte("second")), 6, "image/png")
	require.ErrorIs(t, err, ErrObjectExists)

	got, err := os.ReadFile(filepath.Join(s.Root, "profile-public", "u1", "1-a.png"))
	require.NoError(t, err)
	require.Equal(t, "first", string(got))

	// Same key in another bucket is a different object
	require.NoError(t, s.Put(ctx, model.BucketChatTemp, "u1/1-a.png", bytes.NewReader([]byte("third")), 5, "image/png"))
}

func TestLocalStore_RejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../outside", "u1/../../outside", "."} {
		err := s.Put(context.Background(), model.BucketChatTemp, key, bytes.NewReader(nil), 0, "")
		require.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}
}

func TestLocalStore_CancelledContext(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = s.Put(ctx, model.BucketChatTemp, "u1/1-a", bytes.NewReader([]byte("x")), 1, "")
	require.ErrorIs(t, err, context.Canceled)

	_, err = os.Stat(filepath.Join(s.Root, "chat-temp", "u1", "1-a"))
	require.True(t, os.IsNotExist(err))
}
