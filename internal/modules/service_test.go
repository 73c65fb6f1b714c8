package modules

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	defs      []Definition
	enabled   map[int64][]string
	listCalls int
	setKnown  bool
}

func (m *mockRepo) ListDefinitions(ctx context.Context) ([]Definition, error) {
	return m.defs, nil
}

func (m *mockRepo) ListEnabledCodes(ctx context.Context, companyID int64) ([]string, error) {
	m.listCalls++
	return m.enabled[companyID], nil
}

func (m *mockRepo) SetEnabled(ctx context.Context, companyID int64, code string, enabled bool) (bool, error) {
	if !m.setKnown {
		return false, nil
	}
	if enabled {
		m.enabled[companyID] = append(m.enabled[companyID], code)
	} else {
		var kept []string
		for _, c := range m.enabled[companyID] {
			if c != code {
				kept = append(kept, c)
			}
		}
		m.enabled[companyID] = kept
	}
	return true, nil
}

var _ Repository = (*mockRepo)(nil)

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(repo, NewCache(client, time.Minute), nil)
}

func TestEnabled(t *testing.T) {
	repo := &mockRepo{enabled: map[int64][]string{1: {"sales", "dashboard"}}}
	svc := newTestService(t, repo)
	ctx := context.Background()

	ok, err := svc.Enabled(ctx, 1, "sales")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Enabled(ctx, 1, "support")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEnabledZeroScope(t *testing.T) {
	repo := &mockRepo{enabled: map[int64][]string{1: {"sales"}}}
	svc := newTestService(t, repo)
	ctx := context.Background()

	ok, err := svc.Enabled(ctx, 0, "sales")
	require.NoError(t, err)
	assert.False(t, ok, "no company, no modules")

	ok, err = svc.Enabled(ctx, 1, "")
	require.NoError(t, err)
	assert.False(t, ok, "empty module never enabled")

	assert.Zero(t, repo.listCalls, "zero scope answered without a lookup")
}

func TestEnabledCachesLookups(t *testing.T) {
	repo := &mockRepo{enabled: map[int64][]string{1: {"sales"}}}
	svc := newTestService(t, repo)
	ctx := context.Background()

	_, err := svc.Enabled(ctx, 1, "sales")
	require.NoError(t, err)
	_, err = svc.Enabled(ctx, 1, "support")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.listCalls, "second check served from cache")
}

func TestEnabledCachesEmptySets(t *testing.T) {
	repo := &mockRepo{enabled: map[int64][]string{}}
	svc := newTestService(t, repo)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := svc.Enabled(ctx, 2, "sales")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, 1, repo.listCalls, "a company with nothing enabled is cached too")
}

func TestSetEnabledInvalidatesCache(t *testing.T) {
	repo := &mockRepo{enabled: map[int64][]string{1: {"sales"}}, setKnown: true}
	svc := newTestService(t, repo)
	ctx := context.Background()

	ok, err := svc.Enabled(ctx, 1, "support")
	require.NoError(t, err)
	require.False(t, ok)

	known, err := svc.SetEnabled(ctx, 1, "support", true)
	require.NoError(t, err)
	assert.True(t, known)

	ok, err = svc.Enabled(ctx, 1, "support")
	require.NoError(t, err)
	assert.True(t, ok, "enablement visible after cache invalidation")
}

func TestSetEnabledUnknownModule(t *testing.T) {
	repo := &mockRepo{enabled: map[int64][]string{}, setKnown: false}
	svc := newTestService(t, repo)

	known, err := svc.SetEnabled(context.Background(), 1, "nope", true)
	require.NoError(t, err)
	assert.False(t, known)
}

func TestRefreshCompany(t *testing.T) {
	repo := &mockRepo{enabled: map[int64][]string{1: {"sales"}}}
	svc := newTestService(t, repo)
	ctx := context.Background()

	require.NoError(t, svc.RefreshCompany(ctx, 1))

	ok, err := svc.Enabled(ctx, 1, "sales")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, repo.listCalls, "enabled check served from the refreshed cache")
}

func TestNilCacheDegradesToRepo(t *testing.T) {
	repo := &mockRepo{enabled: map[int64][]string{1: {"sales"}}}
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := svc.Enabled(ctx, 1, "sales")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Equal(t, 2, repo.listCalls, "no cache, every check hits the repo")
}
