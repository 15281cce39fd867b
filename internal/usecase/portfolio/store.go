package portfolio

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/priorityflow-backend/internal/domain"
)

// Store owns the asset collection and the event history
// Both are guarded by a single mutex so that an update and its history append
// are indivisible with respect to every other operation, snapshots included
type Store struct {
	mu      sync.Mutex
	assets  []domain.Asset
	history []domain.HistoryRecord

	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for load/persist failures
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the wall clock used to timestamp history records
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates an empty Store
func NewStore(opts ...Option) *Store {
	s := &Store{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the collection with the contents of source
// Any read, parse or validation failure leaves the collection empty,
// never partially populated and never the previous state
func (s *Store) Load(ctx context.Context, source domain.AssetSource) {
	assets, err := source.LoadAssets(ctx)
	if err == nil {
		err = domain.ValidateCollection(assets)
	}
	if err != nil {
		s.logger.Error("failed to load portfolio, starting empty", "error", err)
		assets = nil
	}

	loaded := make([]domain.Asset, len(assets))
	copy(loaded, assets)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets = loaded

	if err == nil {
		s.logger.Info("portfolio loaded", "assets", len(loaded))
	}
}

// ApplyUpdate adds bump to the priority of the first asset matching assetID and
// overwrites its suggestion. A history record is appended whether or not the
// asset was found. Returns whether the asset was found.
func (s *Store) ApplyUpdate(assetID, suggestion string, bump int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.assets {
		if s.assets[i].ID == assetID {
			s.assets[i].PriorityScore += bump
			s.assets[i].Suggestion = suggestion
			found = true
			break
		}
	}

	s.history = append(s.history, domain.HistoryRecord{
		ID:         uuid.New(),
		Timestamp:  s.now(),
		AssetID:    assetID,
		Suggestion: suggestion,
		Bump:       bump,
	})

	return found
}

// SortedSnapshot returns a copy of the collection ordered by priority descending
// Assets with equal scores keep their collection order
func (s *Store) SortedSnapshot() []domain.Asset {
	out := s.copyAssets()
	sortByPriority(out)
	return out
}

// HistorySnapshot returns a copy of the history, most recent first
func (s *Store) HistorySnapshot() []domain.HistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reversedHistoryLocked()
}

// Snapshot returns SortedSnapshot and HistorySnapshot taken under a single lock,
// so the effect of every returned history record is visible in the assets
func (s *Store) Snapshot() ([]domain.Asset, []domain.HistoryRecord) {
	assets, history := s.copyAll()
	sortByPriority(assets)
	return assets, history
}

// Persist writes the current collection to sink while holding the lock, so the
// saved state matches the latest completed ApplyUpdate. Failures are logged only.
func (s *Store) Persist(ctx context.Context, sink domain.AssetSink) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.assetsLocked()

	if err := sink.SaveAssets(ctx, snapshot); err != nil {
		s.logger.Error("failed to persist portfolio", "error", err)
		return
	}
	s.logger.Info("portfolio persisted", "assets", len(snapshot))
}

func (s *Store) copyAssets() []domain.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assetsLocked()
}

func (s *Store) copyAll() ([]domain.Asset, []domain.HistoryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assetsLocked(), s.reversedHistoryLocked()
}

// assetsLocked and reversedHistoryLocked require s.mu to be held
func (s *Store) assetsLocked() []domain.Asset {
	out := make([]domain.Asset, len(s.assets))
	copy(out, s.assets)
	return out
}

func (s *Store) reversedHistoryLocked() []domain.HistoryRecord {
	out := make([]domain.HistoryRecord, len(s.history))
	for i, rec := range s.history {
		out[len(s.history)-1-i] = rec
	}
	return out
}

func sortByPriority(assets []domain.Asset) {
	sort.SliceStable(assets, func(i, j int) bool {
		return assets[i].PriorityScore > assets[j].PriorityScore
	})
}

// Len returns the number of assets in the collection
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.assets)
}

// HistoryLen returns the number of history records
func (s *Store) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}
