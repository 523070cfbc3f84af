package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopswift/storefront/cart"
	"github.com/shopswift/storefront/checkout"
	"github.com/shopswift/storefront/models"
	"github.com/shopswift/storefront/session"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*session.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return session.NewRedisStore(client, ttl), mr
}

func populated() *session.Session {
	s := session.New("sess-1", "user-1")
	s.Cart = cart.Add(s.Cart, models.Product{ID: "1", Name: "Tee", Price: decimal.RequireFromString("20.00")}, models.Variant{Color: "blue", Size: "m"}, 2)
	return s
}

func storeContract(t *testing.T, store session.Store) {
	ctx := context.Background()

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, got, "unknown session")

	require.NoError(t, store.Save(ctx, populated()))

	got, err = store.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "user-1", got.UserID)
	require.Len(t, got.Cart, 1)
	assert.Equal(t, "blue", got.Cart[0].Color)
	assert.Equal(t, 2, got.Cart[0].Quantity)
	assert.True(t, decimal.RequireFromString("20").Equal(got.Cart[0].Price))
	assert.Equal(t, checkout.StepShipping, got.Checkout.Step)
	assert.False(t, got.UpdatedAt.IsZero())

	require.NoError(t, store.Delete(ctx, "sess-1"))
	got, err = store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, session.NewMemoryStore())
}

func TestMemoryStore_IsolatesCallers(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemoryStore()
	s := populated()
	require.NoError(t, store.Save(ctx, s))

	s.Cart[0].Quantity = 50

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Cart[0].Quantity)
}

func TestRedisStore(t *testing.T) {
	store, _ := newRedisStore(t, time.Hour)
	storeContract(t, store)
}

func TestRedisStore_AppliesTTL(t *testing.T) {
	store, mr := newRedisStore(t, time.Hour)
	require.NoError(t, store.Save(context.Background(), populated()))

	assert.True(t, mr.Exists("session:sess-1"))
	assert.Equal(t, time.Hour, mr.TTL("session:sess-1"))

	mr.FastForward(2 * time.Hour)
	got, err := store.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	store, mr := newRedisStore(t, time.Hour)
	require.NoError(t, mr.Set("session:bad", "{not json"))

	_, err := store.Get(context.Background(), "bad")
	assert.Error(t, err)
}
