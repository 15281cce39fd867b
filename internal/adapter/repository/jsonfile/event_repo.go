package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/simaogato/priorityflow-backend/internal/domain"
)

// eventSource implements domain.EventSource over a JSON file
type eventSource struct {
	path string
}

// NewEventSource creates a file-backed event source
func NewEventSource(path string) domain.EventSource {
	return &eventSource{path: path}
}

// ReadAll materializes every event in file order
func (s *eventSource) ReadAll(ctx context.Context) ([]domain.Event, error) {
	data, err := readFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read events %s: %w: %w", s.path, domain.ErrSourceUnavailable, err)
	}

	var records []eventRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse events %s: %w: %w", s.path, domain.ErrSourceUnavailable, err)
	}

	events := make([]domain.Event, len(records))
	for i, rec := range records {
		events[i] = domain.Event{
			AssetID:      rec.ID,
			Suggestion:   rec.Suggestion,
			PriorityBump: rec.PriorityBump,
		}
	}
	return events, nil
}
