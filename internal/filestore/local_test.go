package filestore

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linkstash/server/internal/config"
)

func configFor(root string) config.FileStoreConfig {
	return config.FileStoreConfig{
		Type: TypeLocal,
		Data: map[string]interface{}{"root": root},
	}
}

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	payload := []byte("thumbnail bytes")
	require.NoError(t, store.Save(ctx, "1/test.png", bytes.NewReader(payload), int64(len(payload))))

	rc, err := store.Open(ctx, "1/test.png")
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Open(ctx, "../escape")
	require.Error(t, err)
	require.Error(t, store.Save(ctx, "/abs/path", bytes.NewReader(nil), 0))
}

func TestRegistryResolvesByType(t *testing.T) {
	store, err := New(configFor(t.TempDir()))
	require.NoError(t, err)
	require.Equal(t, TypeLocal, store.Type())
	require.Equal(t, "http://host/api/v1/files/1/a.png", store.URL("1/a.png", "http://host/"))
}
