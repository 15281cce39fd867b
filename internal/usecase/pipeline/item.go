package pipeline

import "github.com/simaogato/priorityflow-backend/internal/domain"

// ItemKind tags the variant carried by an Item
type ItemKind int

const (
	// ItemEvent carries a domain event to apply
	ItemEvent ItemKind = iota + 1
	// ItemTermination is the marker telling the consumer no more events follow
	ItemTermination
)

func (k ItemKind) String() string {
	switch k {
	case ItemEvent:
		return "event"
	case ItemTermination:
		return "termination"
	default:
		return "unknown"
	}
}

// Item is the unit passed through the queue
// Event is only meaningful when Kind is ItemEvent
type Item struct {
	Kind  ItemKind
	Event domain.Event
}

// EventItem wraps an event for the queue
func EventItem(e domain.Event) Item {
	return Item{Kind: ItemEvent, Event: e}
}

// TerminationItem returns the termination marker
func TerminationItem() Item {
	return Item{Kind: ItemTermination}
}
