package domain

import "context"

// AssetSource loads the initial asset collection
type AssetSource interface {
	// LoadAssets returns the full collection in source order
	// Implementations wrap failures with ErrSourceUnavailable
	LoadAssets(ctx context.Context) ([]Asset, error)
}

// AssetSink persists the asset collection
type AssetSink interface {
	// SaveAssets replaces the stored collection with assets
	// Implementations wrap failures with ErrSinkWriteFailure
	SaveAssets(ctx context.Context, assets []Asset) error
}

// EventSource produces the ordered batch of pending events
type EventSource interface {
	// ReadAll returns every pending event in source order
	// Implementations wrap failures with ErrSourceUnavailable
	ReadAll(ctx context.Context) ([]Event, error)
}

// AssetRepository is both an AssetSource and an AssetSink
type AssetRepository interface {
	AssetSource
	AssetSink
}
