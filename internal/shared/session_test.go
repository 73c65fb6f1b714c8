package shared

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*TokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTokenStore(client, "test_token", time.Minute), mr
}

func TestTokenIssueResolve(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	actor := Actor{UserID: 10, Email: "rep@acme.local", CompanyID: 1, TeamID: 7}
	token, err := store.Issue(ctx, actor)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	resolved, err := store.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, actor, *resolved)
}

func TestTokenResolveUnknown(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Resolve(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = store.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokenExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, Actor{UserID: 10})
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = store.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokenRevoke(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	token, err := store.Issue(ctx, Actor{UserID: 10})
	require.NoError(t, err)

	require.NoError(t, store.Revoke(ctx, token))

	_, err = store.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
