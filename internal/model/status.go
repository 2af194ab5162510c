package model

import "time"

// JobStatus is the per-job slice of the persisted status record. History is
// most-recent-first and bounded; the counters cover every run ever recorded,
// including ones the history no longer holds.
type JobStatus struct {
	LastResult    *RunResult  `json:"last_result,omitempty"`
	History       []RunResult `json:"history"`
	SuccessCount  int64       `json:"success_count"`
	FailureCount  int64       `json:"failure_count"`
	LastSuccessAt *time.Time  `json:"last_success_at,omitempty"`
}

// StatusRecord is the document the dashboard reads.
type StatusRecord struct {
	Jobs        map[string]*JobStatus `json:"jobs"`
	LastRun     *time.Time            `json:"last_run,omitempty"`
	TotalRuns   int64                 `json:"total_runs"`
	LastSummary *PassSummary          `json:"last_summary,omitempty"`
}

func NewStatusRecord() StatusRecord {
	return StatusRecord{Jobs: make(map[string]*JobStatus)}
}
