package core

import "fmt"

// EventType represents the type of change in an annotation store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a stored annotation.
type Event struct {
	Type      EventType
	UUID      string
	URI       string
	Timestamp int64 // Unix timestamp
}

// String renders the event for logs; it also satisfies lifecycle.Event so the
// feed can be bridged into a lifecycle runtime.
func (e Event) String() string {
	return fmt.Sprintf("%s %s (%s)", e.Type, e.UUID, e.URI)
}
