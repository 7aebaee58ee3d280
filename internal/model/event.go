package model

import "time"

type EventType string

const (
	EventCreate EventType = "CREATE"
	EventWrite  EventType = "WRITE"
	EventRemove EventType = "REMOVE"
	EventRename EventType = "RENAME"
)

// FileEvent is a local filesystem change observed in watch mode.
type FileEvent struct {
	Type      EventType
	Path      string
	Timestamp time.Time
}
