package model

import "time"

type EntryKind string

const (
	KindFile   EntryKind = "FILE"
	KindFolder EntryKind = "FOLDER"
)

// Entry is one file or folder as reported by either side of a sync.
// Identity is Name within its parent folder. ModTime is zero for
// folders that have never been stat-ed (e.g. just-created local dirs).
type Entry struct {
	Name    string
	Kind    EntryKind
	ModTime time.Time
}
