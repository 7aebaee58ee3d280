package model

import (
	"time"

	"gorm.io/gorm"
)

// SyncRun is the audit record persisted after each completed split or
// folder-pair run. It is a log, not sync state: every sync starts from
// a full re-comparison of both trees regardless of history.
type SyncRun struct {
	gorm.Model
	Command string `gorm:"not null"`
	Split   string `gorm:"not null"`
	Success int
	Failed  int
	Total   int
	ErrMsg  string
	RanAt   time.Time `gorm:"not null"`
}
