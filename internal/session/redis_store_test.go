package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/util"
)

func newRedisManager(t *testing.T) (*Manager, *RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	store := NewRedisStore(rdb)
	return NewManager(store, time.Hour), store, mr
}

func TestRedisStore_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	m, _, mr := newRedisManager(t)

	s, err := m.SignIn(ctx, model.RoleAdmin, "identity-1", "admin", "admin@quizmaster.com")
	require.NoError(t, err)
	assert.True(t, mr.Exists(sessionKey(s.ID)))

	got, err := m.Resolve(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Username)

	require.NoError(t, m.SignOut(ctx, s.ID))
	_, err = m.Resolve(ctx, s.ID)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestRedisStore_DataFollowsSession(t *testing.T) {
	ctx := context.Background()
	m, store, mr := newRedisManager(t)

	s, err := m.SignIn(ctx, model.RoleAdmin, "identity-1", "admin", "admin@quizmaster.com")
	require.NoError(t, err)

	require.NoError(t, store.PutData(ctx, s, "quiz_draft:1", []byte("payload")))
	v, err := store.GetData(ctx, s, "quiz_draft:1")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), v)
	assert.True(t, mr.TTL(dataKey(s.ID)) > 0, "data expires with the session")

	require.NoError(t, store.DeleteData(ctx, s, "quiz_draft:1"))
	_, err = store.GetData(ctx, s, "quiz_draft:1")
	assert.ErrorIs(t, err, ErrDataNotFound)

	require.NoError(t, store.PutData(ctx, s, "quiz_draft:2", []byte("payload")))
	require.NoError(t, m.SignOut(ctx, s.ID))
	assert.False(t, mr.Exists(dataKey(s.ID)))
}

func TestRedisStore_PutDataAfterSignOut(t *testing.T) {
	ctx := context.Background()
	m, store, mr := newRedisManager(t)

	s, err := m.SignIn(ctx, model.RoleAdmin, "identity-1", "admin", "admin@quizmaster.com")
	require.NoError(t, err)
	require.NoError(t, m.SignOut(ctx, s.ID))

	err = store.PutData(ctx, s, "quiz_draft:1", []byte("payload"))
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
	assert.False(t, mr.Exists(dataKey(s.ID)), "no data hash is recreated for a signed-out session")

	// 内存实现行为一致
	mem := NewMemoryStore()
	assert.ErrorIs(t, mem.PutData(ctx, s, "quiz_draft:1", []byte("payload")), util.ErrSessionNotFound)
}
