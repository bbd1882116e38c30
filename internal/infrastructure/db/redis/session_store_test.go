package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogdesk/admin-api/internal/core/domain"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client, time.Minute), mr
}

func TestConnect_PingsServer(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	mr.Close()
	assert.Error(t, Ping(context.Background(), client, 200*time.Millisecond))
}

func TestSessionStore_UnknownSessionIsZero(t *testing.T) {
	store, _ := newTestStore(t)

	state, err := store.Load(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionState{}, state)
}

func TestSessionStore_SaveLoadDelete(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	published := false
	want := domain.SessionState{
		ConfirmFlag:        true,
		PendingProfilePath: "temp/me.png",
		PendingPostStatus:  &published,
		LastRouteKey:       "/user/create",
	}
	require.NoError(t, store.Save(ctx, "abc", want))
	assert.True(t, mr.Exists("session:abc"))
	assert.Equal(t, time.Minute, mr.TTL("session:abc"))

	got, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, store.Delete(ctx, "abc"))
	got, err = store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, got.ConfirmFlag)
}

func TestSessionStore_ExpiredSessionStartsOver(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "abc", domain.SessionState{ConfirmFlag: true, LastRouteKey: "/post/create"}))
	mr.FastForward(2 * time.Minute)

	got, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, got.Previewing("/post/create"))
}

func TestSessionStore_CorruptPayload(t *testing.T) {
	store, mr := newTestStore(t)
	require.NoError(t, mr.Set("session:bad", "{not json"))

	_, err := store.Load(context.Background(), "bad")
	assert.Error(t, err)
}
