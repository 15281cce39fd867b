package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// NoSuggestion is the sentinel stored in Asset.Suggestion when no advice has been given yet
const NoSuggestion = "None"

// Asset represents a priority-tracked record in the managed collection
// ID is immutable after creation and unique within a collection
type Asset struct {
	ID            string
	Name          string
	Type          string
	CurrentValue  decimal.Decimal // Monetary value, informational only
	PriorityScore int
	Suggestion    string // Latest advisory text, NoSuggestion when unset
}

// HasSuggestion reports whether the asset carries advice other than the sentinel
func (a *Asset) HasSuggestion() bool {
	return a.Suggestion != "" && a.Suggestion != NoSuggestion
}

// Validate ensures the asset adheres to domain rules
func (a *Asset) Validate() error {
	if a.ID == "" {
		return errors.New("asset id cannot be empty")
	}
	return nil
}

// ValidateCollection checks every asset and enforces id uniqueness across the slice
func ValidateCollection(assets []Asset) error {
	seen := make(map[string]struct{}, len(assets))
	for i := range assets {
		if err := assets[i].Validate(); err != nil {
			return fmt.Errorf("asset at index %d: %w", i, err)
		}
		if _, dup := seen[assets[i].ID]; dup {
			return fmt.Errorf("duplicate asset id %q", assets[i].ID)
		}
		seen[assets[i].ID] = struct{}{}
	}
	return nil
}
