package model

import "time"

type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeFailure Outcome = "FAILED"
)

// TransferStats holds the figures parsed from the mirroring tool's
// --stats summary. Zero means the figure was absent or unparseable.
type TransferStats struct {
	TotalFiles      int64 `json:"total_files,omitempty"`
	CreatedFiles    int64 `json:"created_files,omitempty"`
	DeletedFiles    int64 `json:"deleted_files,omitempty"`
	TransferredSize int64 `json:"transferred_size,omitempty"`
	TotalSize       int64 `json:"total_size,omitempty"`
}

// RunResult is the immutable outcome of one job execution.
type RunResult struct {
	JobName          string        `json:"job_name"`
	Source           string        `json:"source"`
	Destination      string        `json:"destination"`
	StartedAt        time.Time     `json:"started_at"`
	EndedAt          time.Time     `json:"ended_at"`
	Duration         time.Duration `json:"duration"`
	Outcome          Outcome       `json:"outcome"`
	ExitCode         int           `json:"exit_code"`
	BytesTransferred int64         `json:"bytes_transferred"`
	Stats            TransferStats `json:"stats"`
	ErrorExcerpt     string        `json:"error_excerpt,omitempty"`
}

func (r RunResult) Failed() bool {
	return r.Outcome == OutcomeFailure
}

// PassSummary describes one orchestration pass over the job list.
type PassSummary struct {
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Attempted int           `json:"attempted"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
}
