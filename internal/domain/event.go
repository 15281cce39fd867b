package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is an instruction to adjust one asset's priority and suggestion
// AssetID may reference an asset that does not exist
type Event struct {
	AssetID      string
	Suggestion   string
	PriorityBump int
}

// HistoryRecord is the audit entry written for every processed event,
// whether or not the target asset was found
type HistoryRecord struct {
	ID         uuid.UUID
	Timestamp  time.Time
	AssetID    string
	Suggestion string
	Bump       int
}
