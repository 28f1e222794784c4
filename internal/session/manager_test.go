package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ricepro-web/internal/models"
)

func testSession() models.Session {
	return models.Session{
		User:  models.User{ID: 1, Username: "a", Email: "a@example.com"},
		Token: "t",
	}
}

func TestSlotRoundTrip(t *testing.T) {
	ctx := context.Background()
	slot := NewManager(NewMemoryStore(), nil).Slot("profile-1")

	_, ok := slot.CurrentUser(ctx)
	assert.False(t, ok)
	assert.False(t, slot.IsAuthenticated(ctx))

	require.NoError(t, slot.SetCurrentUser(ctx, testSession()))

	got, ok := slot.CurrentUser(ctx)
	require.True(t, ok)
	assert.Equal(t, testSession(), *got)
	assert.True(t, slot.IsAuthenticated(ctx))

	require.NoError(t, slot.Logout(ctx))
	assert.False(t, slot.IsAuthenticated(ctx))
}

func TestSlotOverwrites(t *testing.T) {
	ctx := context.Background()
	slot := NewManager(NewMemoryStore(), nil).Slot("p")

	require.NoError(t, slot.SetCurrentUser(ctx, testSession()))
	next := testSession()
	next.Token = "t2"
	require.NoError(t, slot.SetCurrentUser(ctx, next))

	token, ok := slot.Token(ctx)
	require.True(t, ok)
	assert.Equal(t, "t2", token)
}

func TestSlotsAreIsolated(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), nil)

	require.NoError(t, m.Slot("a").SetCurrentUser(ctx, testSession()))
	assert.True(t, m.Slot("a").IsAuthenticated(ctx))
	assert.False(t, m.Slot("b").IsAuthenticated(ctx))
}

func TestSetCurrentUserRejectsEmptyToken(t *testing.T) {
	slot := NewManager(NewMemoryStore(), nil).Slot("p")
	err := slot.SetCurrentUser(context.Background(), models.Session{User: models.User{ID: 1}})
	assert.Error(t, err)
}

func TestCurrentUserIgnoresCorruptPayload(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, "p", []byte("{not json")))

	_, ok := NewManager(store, nil).Slot("p").CurrentUser(ctx)
	assert.False(t, ok)
}

func TestSubscribeReceivesChanges(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(), nil)
	events, cancel := m.Subscribe("p")
	defer cancel()

	other, cancelOther := m.Subscribe("q")
	defer cancelOther()

	slot := m.Slot("p")
	require.NoError(t, slot.SetCurrentUser(ctx, testSession()))
	require.NoError(t, slot.Logout(ctx))

	select {
	case ev := <-events:
		assert.Equal(t, SignedIn, ev.Kind)
		require.NotNil(t, ev.User)
		assert.Equal(t, "a", ev.User.Username)
	case <-time.After(time.Second):
		t.Fatal("no signed_in event")
	}
	select {
	case ev := <-events:
		assert.Equal(t, SignedOut, ev.Kind)
		assert.Nil(t, ev.User)
	case <-time.After(time.Second):
		t.Fatal("no signed_out event")
	}
	assert.Len(t, other, 0)
}

func TestSubscribeCancelClosesChannel(t *testing.T) {
	m := NewManager(NewMemoryStore(), nil)
	events, cancel := m.Subscribe("p")
	cancel()
	cancel()

	_, open := <-events
	assert.False(t, open)
	require.NoError(t, m.Slot("p").SetCurrentUser(context.Background(), testSession()))
}

func TestSealedFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "sessions.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)
	sealer, err := NewSealer("secret")
	require.NoError(t, err)

	slot := NewManager(store, sealer).Slot("p")
	require.NoError(t, slot.SetCurrentUser(ctx, testSession()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"token"`)

	got, ok := slot.CurrentUser(ctx)
	require.True(t, ok)
	assert.Equal(t, testSession(), *got)

	// A different key cannot read the slot and it reads as signed out.
	wrong, err := NewSealer("other")
	require.NoError(t, err)
	_, ok = NewManager(store, wrong).Slot("p").CurrentUser(ctx)
	assert.False(t, ok)
}
