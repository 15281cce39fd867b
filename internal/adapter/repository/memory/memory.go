package memory

import (
	"context"
	"sync"

	"github.com/simaogato/priorityflow-backend/internal/domain"
)

// AssetRepository keeps a portfolio in memory. Useful for tests or ephemeral runs.
type AssetRepository struct {
	mu     sync.RWMutex
	assets []domain.Asset
	saves  int
}

var _ domain.AssetRepository = (*AssetRepository)(nil)

// NewAssetRepository creates a repository seeded with a copy of assets
func NewAssetRepository(assets ...domain.Asset) *AssetRepository {
	return &AssetRepository{assets: clone(assets)}
}

// LoadAssets returns a copy of the stored collection
func (r *AssetRepository) LoadAssets(ctx context.Context) ([]domain.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clone(r.assets), nil
}

// SaveAssets replaces the stored collection with a copy of assets
func (r *AssetRepository) SaveAssets(ctx context.Context, assets []domain.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assets = clone(assets)
	r.saves++
	return nil
}

// Saves returns how many times SaveAssets was called
func (r *AssetRepository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}

// EventSource serves a fixed batch of events
type EventSource struct {
	events []domain.Event
}

var _ domain.EventSource = (*EventSource)(nil)

// NewEventSource creates a source returning a copy of events on every read
func NewEventSource(events ...domain.Event) *EventSource {
	return &EventSource{events: append([]domain.Event(nil), events...)}
}

// ReadAll returns the configured events in order
func (s *EventSource) ReadAll(ctx context.Context) ([]domain.Event, error) {
	return append([]domain.Event(nil), s.events...), nil
}

func clone(assets []domain.Asset) []domain.Asset {
	out := make([]domain.Asset, len(assets))
	copy(out, assets)
	return out
}
