package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/simaogato/priorityflow-backend/internal/domain"
)

// UnknownAssetName labels history entries whose asset is not in the collection
const UnknownAssetName = "Unknown"

// DefaultTopN is the number of highest-priority assets highlighted in a View
const DefaultTopN = 3

// Reader is the read side of the portfolio store. Snapshot returns the assets
// sorted by priority and the history newest first, taken together.
type Reader interface {
	Snapshot() ([]domain.Asset, []domain.HistoryRecord)
}

// FeedEntry is a history record resolved against the current collection
type FeedEntry struct {
	domain.HistoryRecord
	AssetName string
}

// View is one picture handed to observers: assets sorted by priority, the top
// assets and the event feed newest first, all from the same store state
type View struct {
	TakenAt time.Time
	Assets  []domain.Asset
	Top     []domain.Asset
	Feed    []FeedEntry
}

// Observer consumes views. It runs without any store lock held.
type Observer func(View)

// Monitor periodically snapshots a Reader and notifies an Observer
type Monitor struct {
	reader   Reader
	observer Observer
	interval time.Duration
	topN     int
}

// New creates a monitor. A non-positive interval defaults to two seconds.
func New(reader Reader, observer Observer, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Monitor{
		reader:   reader,
		observer: observer,
		interval: interval,
		topN:     DefaultTopN,
	}
}

// Snapshot builds a View from the current store contents
func (m *Monitor) Snapshot() View {
	assets, history := m.reader.Snapshot()

	names := make(map[string]string, len(assets))
	for _, a := range assets {
		names[a.ID] = a.Name
	}

	feed := make([]FeedEntry, len(history))
	for i, rec := range history {
		name, ok := names[rec.AssetID]
		if !ok {
			name = UnknownAssetName
		}
		feed[i] = FeedEntry{HistoryRecord: rec, AssetName: name}
	}

	top := assets
	if len(top) > m.topN {
		top = top[:m.topN]
	}

	return View{
		TakenAt: time.Now(),
		Assets:  assets,
		Top:     top,
		Feed:    feed,
	}
}

// Run notifies the observer immediately and then on every tick until ctx is done
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.observer(m.Snapshot())
	for {
		select {
		case <-ticker.C:
			m.observer(m.Snapshot())
		case <-ctx.Done():
			return nil
		}
	}
}

// LogObserver returns an Observer that writes each view to logger
func LogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("task", "monitor")
	return func(v View) {
		logger.Info("portfolio dashboard", "assets", len(v.Assets), "events", len(v.Feed))
		for i, a := range v.Assets {
			attrs := []any{
				"rank", i + 1,
				"asset_id", a.ID,
				"name", a.Name,
				"type", a.Type,
				"value", a.CurrentValue.StringFixed(2),
				"priority", a.PriorityScore,
			}
			if a.HasSuggestion() {
				attrs = append(attrs, "suggestion", a.Suggestion)
			}
			logger.Info("asset", attrs...)
		}
		if len(v.Feed) > 0 {
			latest := v.Feed[0]
			logger.Info("latest event",
				"time", latest.Timestamp.Format(time.TimeOnly),
				"asset", latest.AssetName,
				"suggestion", latest.Suggestion,
				"bump", latest.Bump)
		}
	}
}
