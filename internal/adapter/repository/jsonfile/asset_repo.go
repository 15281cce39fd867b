package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/simaogato/priorityflow-backend/internal/domain"
)

// assetRepository implements domain.AssetRepository over a JSON file
// Paths ending in .gz hold gzip-compressed JSON
type assetRepository struct {
	path string
}

// NewAssetRepository creates a file-backed asset repository
func NewAssetRepository(path string) domain.AssetRepository {
	return &assetRepository{path: path}
}

// LoadAssets reads the whole portfolio array in file order
func (r *assetRepository) LoadAssets(ctx context.Context) ([]domain.Asset, error) {
	data, err := readFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read portfolio %s: %w: %w", r.path, domain.ErrSourceUnavailable, err)
	}

	var records []assetRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse portfolio %s: %w: %w", r.path, domain.ErrSourceUnavailable, err)
	}

	assets := make([]domain.Asset, 0, len(records))
	for _, rec := range records {
		a, err := rec.toDomain()
		if err != nil {
			return nil, fmt.Errorf("failed to parse portfolio %s: %w: %w", r.path, domain.ErrSourceUnavailable, err)
		}
		assets = append(assets, a)
	}
	return assets, nil
}

// SaveAssets writes assets as an indented JSON array in the same shape LoadAssets reads
func (r *assetRepository) SaveAssets(ctx context.Context, assets []domain.Asset) error {
	records := make([]assetRecord, 0, len(assets))
	for _, a := range assets {
		records = append(records, fromDomain(a))
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode portfolio: %w: %w", domain.ErrSinkWriteFailure, err)
	}
	if err := writeFile(r.path, data); err != nil {
		return fmt.Errorf("failed to write portfolio %s: %w: %w", r.path, domain.ErrSinkWriteFailure, err)
	}
	return nil
}
