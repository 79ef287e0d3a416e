package testhelpers

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/nutriplan/backend/internal/types"
)

// MockOracle is a testify mock of the text-completion oracle
type MockOracle struct {
	mock.Mock
}

func (m *MockOracle) Complete(ctx context.Context, systemInstruction, userPrompt string, temperature float64) (string, error) {
	args := m.Called(ctx, systemInstruction, userPrompt, temperature)
	return args.String(0), args.Error(1)
}

// MemoryMenuCache is an in-process menu cache for tests
type MemoryMenuCache struct {
	mu    sync.Mutex
	menus map[uuid.UUID][]types.RecommendedMenu
}

func NewMemoryMenuCache() *MemoryMenuCache {
	return &MemoryMenuCache{menus: make(map[uuid.UUID][]types.RecommendedMenu)}
}

func (c *MemoryMenuCache) CacheMenus(ctx context.Context, userID uuid.UUID, menus []types.RecommendedMenu) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.menus[userID] = menus
}

func (c *MemoryMenuCache) GetCachedMenus(ctx context.Context, userID uuid.UUID) ([]types.RecommendedMenu, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	menus, ok := c.menus[userID]
	return menus, ok
}

func (c *MemoryMenuCache) EvictMenus(ctx context.Context, userID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.menus, userID)
}
