package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/priorityflow-backend/internal/domain"
)

// assetRepository implements domain.AssetRepository
type assetRepository struct {
	db *DB
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db *DB) domain.AssetRepository {
	return &assetRepository{db: db}
}

// LoadAssets retrieves the collection in stored order
func (r *assetRepository) LoadAssets(ctx context.Context) ([]domain.Asset, error) {
	query := `
		SELECT id, name, asset_type, current_value, priority_score, suggestion
		FROM assets
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w: %w", domain.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	assets := make([]domain.Asset, 0)
	for rows.Next() {
		var asset domain.Asset
		var valueStr string

		if err := rows.Scan(
			&asset.ID,
			&asset.Name,
			&asset.Type,
			&valueStr,
			&asset.PriorityScore,
			&asset.Suggestion,
		); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w: %w", domain.ErrSourceUnavailable, err)
		}

		// Parse current_value (NUMERIC)
		value, err := decimal.NewFromString(valueStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse current_value: %w: %w", domain.ErrSourceUnavailable, err)
		}
		asset.CurrentValue = value

		assets = append(assets, asset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w: %w", domain.ErrSourceUnavailable, err)
	}

	return assets, nil
}

// SaveAssets replaces the stored collection inside one transaction
func (r *assetRepository) SaveAssets(ctx context.Context, assets []domain.Asset) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w: %w", domain.ErrSinkWriteFailure, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM assets`); err != nil {
		return fmt.Errorf("failed to clear assets: %w: %w", domain.ErrSinkWriteFailure, err)
	}

	query := `
		INSERT INTO assets (position, id, name, asset_type, current_value, priority_score, suggestion)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i, asset := range assets {
		if _, err := tx.ExecContext(ctx, query,
			i,
			asset.ID,
			asset.Name,
			asset.Type,
			asset.CurrentValue.String(),
			asset.PriorityScore,
			asset.Suggestion,
		); err != nil {
			return fmt.Errorf("failed to insert asset %s: %w: %w", asset.ID, domain.ErrSinkWriteFailure, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assets: %w: %w", domain.ErrSinkWriteFailure, err)
	}
	return nil
}
