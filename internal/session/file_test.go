package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.json")

	first, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Ping(ctx))
	require.NoError(t, first.Save(ctx, "p", []byte(`{"user":{"id":1},"token":"t"}`)))

	second, err := NewFileStore(path)
	require.NoError(t, err)
	payload, err := second.Load(ctx, "p")
	require.NoError(t, err)
	assert.JSONEq(t, `{"user":{"id":1},"token":"t"}`, string(payload))

	require.NoError(t, second.Delete(ctx, "p"))
	_, err = first.Load(ctx, "p")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestFileStoreMissingProfile(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "sessions.json"))
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNoSession)
	assert.NoError(t, store.Delete(context.Background(), "nobody"))
}

func TestSealerRejectsGarbage(t *testing.T) {
	s, err := NewSealer("k")
	require.NoError(t, err)

	_, err = s.Open([]byte("not base64!"))
	assert.ErrorIs(t, err, ErrSealedPayload)
	_, err = s.Open([]byte("c2hvcnQ="))
	assert.ErrorIs(t, err, ErrSealedPayload)

	_, err = NewSealer("")
	assert.Error(t, err)
}
