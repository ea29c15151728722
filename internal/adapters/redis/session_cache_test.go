package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/vive-avila/ui-api/internal/domain/auth"
)

func setupCache(t *testing.T) (*SessionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionCache(client), mr
}

func TestSessionCache_RoundTrip(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	sess := domainauth.Session{
		Record: domainauth.Record{
			UID:          "u-77",
			Username:     "Pedro",
			Email:        "pedro@correo.unimet.edu.ve",
			Phone:        "+58-412-5550000",
			ProfileImage: "https://img.example/p.png",
			Role:         domainauth.RoleAdmin,
			Provider:     domainauth.ProviderGoogle,
		},
		AuthHandle:   &domainauth.Credential{ID: "u-77"},
		DirectoryRef: "rec-3",
	}

	require.NoError(t, cache.Save(ctx, sess.Snapshot()))

	got, err := cache.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sess.Snapshot(), *got)

	// transient references never survive the round-trip
	back := domainauth.SessionFromSnapshot(*got)
	assert.Nil(t, back.AuthHandle)
	assert.Empty(t, back.DirectoryRef)
}

func TestSessionCache_LoadMissing(t *testing.T) {
	cache, _ := setupCache(t)

	got, err := cache.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionCache_LoadCorrupt(t *testing.T) {
	cache, mr := setupCache(t)
	require.NoError(t, mr.Set(DefaultSessionKey, "{not json"))

	got, err := cache.Load(context.Background())
	require.NoError(t, err, "corrupt data fails soft")
	assert.Nil(t, got)
}

func TestSessionCache_Clear(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, domainauth.Snapshot{UID: "u-1", Email: "a@unimet.edu.ve"}))
	require.NoError(t, cache.Clear(ctx))

	got, err := cache.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	// clearing an empty slot is fine
	require.NoError(t, cache.Clear(ctx))
}

func TestSessionCache_SaveOverwrites(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, domainauth.Snapshot{UID: "u-1", Email: "a@unimet.edu.ve"}))
	require.NoError(t, cache.Save(ctx, domainauth.Snapshot{UID: "u-2", Email: "b@unimet.edu.ve"}))

	got, err := cache.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u-2", got.UID)
}

func TestSessionCache_SaveRequiresUID(t *testing.T) {
	cache, _ := setupCache(t)
	assert.Error(t, cache.Save(context.Background(), domainauth.Snapshot{Email: "a@unimet.edu.ve"}))
}
