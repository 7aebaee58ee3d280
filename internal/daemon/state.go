package daemon

import (
	"mlsync/internal/model"
	"sync"
	"time"
)

// State tracks the watch daemon's progress for the status endpoint.
type State struct {
	mu         sync.RWMutex
	localRoot  string
	remoteRoot string
	startedAt  time.Time
	runs       int
	lastRun    *time.Time
	lastReport model.Report
}

func NewState(localRoot, remoteRoot string) *State {
	return &State{
		localRoot:  localRoot,
		remoteRoot: remoteRoot,
		startedAt:  time.Now(),
	}
}

func (s *State) RecordRun(report model.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.lastRun = &now
	s.runs++
	s.lastReport = report
}

type Snapshot struct {
	LocalRoot  string       `json:"local_root"`
	RemoteRoot string       `json:"remote_root"`
	StartedAt  time.Time    `json:"started_at"`
	Runs       int          `json:"runs"`
	LastRun    *time.Time   `json:"last_run"`
	LastReport model.Report `json:"last_report,omitempty"`
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		LocalRoot:  s.localRoot,
		RemoteRoot: s.remoteRoot,
		StartedAt:  s.startedAt,
		Runs:       s.runs,
		LastRun:    s.lastRun,
		LastReport: s.lastReport,
	}
}
