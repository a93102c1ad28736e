package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/proconnect/backend/internal/models"
	"github.com/anonto42/proconnect/backend/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryCache mimics the JSON round trip of the redis cache.
type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.items[key]
	if !ok {
		return cache.ErrMiss
	}
	return json.Unmarshal(data, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items == nil {
		m.items = map[string][]byte{}
	}
	m.items[key] = data
	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func TestAccountDirectoryCachesSummaries(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ada := e.user(t, "Ada")
	mem := &memoryCache{}
	dir := NewAccountDirectory(e.users, e.companies, mem, zap.NewNop())

	first, err := dir.Summary(ctx, ada)
	require.NoError(t, err)
	assert.Equal(t, "Ada", first.Name)
	require.Contains(t, mem.items, cache.AccountSummaryKey(ada.Key()))

	// a stale row is served from cache until invalidated
	u, err := e.users.GetUserByID(ctx, ada.ID)
	require.NoError(t, err)
	u.Name = "Ada L."
	require.NoError(t, e.users.UpdateUser(ctx, u))

	cached, err := dir.Summary(ctx, ada)
	require.NoError(t, err)
	assert.Equal(t, "Ada", cached.Name)

	dir.Invalidate(ctx, ada)
	fresh, err := dir.Summary(ctx, ada)
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", fresh.Name)
}

func TestAccountDirectoryResolvesBothKinds(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ada := e.user(t, "Ada")
	acme := e.company(t, "Acme")
	require.Equal(t, ada.ID, acme.ID)

	user, err := e.directory.Summary(ctx, ada)
	require.NoError(t, err)
	company, err := e.directory.Summary(ctx, acme)
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "Acme", company.Name)

	assert.ErrorIs(t, e.directory.Exists(ctx, models.UserRef(42)), ErrNotFound)
	stub := e.directory.SummaryOrStub(ctx, models.CompanyRef(42))
	assert.Equal(t, models.AccountSummary{ID: 42, Type: models.AccountCompany}, stub)
}
