package model

// Stats counts attempted transfers for one folder subtree or upload
// batch. Skipped (up-to-date) entries are not counted.
type Stats struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Total   int `json:"total"`
}

func (s *Stats) Merge(other Stats) {
	s.Success += other.Success
	s.Failed += other.Failed
	s.Total += other.Total
}

// SplitResult is the aggregated outcome for one dataset split: the
// reconcile counts merged with the upload sink counts, plus an error
// marker when the split was abandoned partway.
type SplitResult struct {
	Stats
	Err string `json:"error,omitempty"`
}

// Report maps split labels to their results. A fresh report is built
// on every invocation; nothing is carried across runs.
type Report map[string]*SplitResult

// HasFailures reports whether any split recorded a failed transfer or
// an error marker, so callers can exit non-zero.
func (r Report) HasFailures() bool {
	for _, res := range r {
		if res.Failed > 0 || res.Err != "" {
			return true
		}
	}

	return false
}
