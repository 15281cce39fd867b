package postgres

import (
	"context"
	"fmt"

	"github.com/simaogato/priorityflow-backend/internal/domain"
)

// EventRepository implements domain.EventSource and can append new events
type EventRepository struct {
	db *DB
}

var _ domain.EventSource = (*EventRepository)(nil)

// NewEventRepository creates a new event repository
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// ReadAll retrieves every pending event ordered by insertion sequence
func (r *EventRepository) ReadAll(ctx context.Context) ([]domain.Event, error) {
	query := `
		SELECT asset_id, suggestion, priority_bump
		FROM events
		ORDER BY seq ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w: %w", domain.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	events := make([]domain.Event, 0)
	for rows.Next() {
		var event domain.Event
		if err := rows.Scan(&event.AssetID, &event.Suggestion, &event.PriorityBump); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w: %w", domain.ErrSourceUnavailable, err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w: %w", domain.ErrSourceUnavailable, err)
	}

	return events, nil
}

// Append inserts events after the existing ones inside one transaction,
// so a failure leaves the stored stream unchanged
func (r *EventRepository) Append(ctx context.Context, events ...domain.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w: %w", domain.ErrSinkWriteFailure, err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO events (asset_id, suggestion, priority_bump)
		VALUES ($1, $2, $3)
	`
	for _, event := range events {
		if _, err := tx.ExecContext(ctx, query, event.AssetID, event.Suggestion, event.PriorityBump); err != nil {
			return fmt.Errorf("failed to insert event for asset %s: %w: %w", event.AssetID, domain.ErrSinkWriteFailure, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit events: %w: %w", domain.ErrSinkWriteFailure, err)
	}
	return nil
}
