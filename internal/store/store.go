// Package store is the durable record of per-job run history and counters.
// The record lives in a single JSON document that is rewritten atomically
// after every job, so a crash mid-pass loses at most the in-flight job.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"mirrorsync/internal/model"
	"mirrorsync/internal/util"
	"os"
	"sync"
)

type Store struct {
	mu     sync.Mutex
	path   string
	limit  int
	record model.StatusRecord
}

// Open loads the status record at path, or starts an empty one if the file
// does not exist yet. A file that exists but does not parse is an error;
// silently discarding it would reset the monotonic counters.
func Open(path string, historyLimit int) (*Store, error) {
	record, err := Load(path)
	if err != nil {
		return nil, err
	}

	return &Store{
		path:   path,
		limit:  historyLimit,
		record: record,
	}, nil
}

// Load reads the record without taking ownership of it. A missing file
// yields an empty record, matching what the dashboard shows before the
// first pass has ever run.
func Load(path string) (model.StatusRecord, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return model.NewStatusRecord(), nil
	}
	if err != nil {
		return model.StatusRecord{}, fmt.Errorf("failed to read status file: %w", err)
	}

	var record model.StatusRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.StatusRecord{}, fmt.Errorf("failed to parse status file: %w", err)
	}

	if record.Jobs == nil {
		record.Jobs = make(map[string]*model.JobStatus)
	}

	return record, nil
}

// Record merges one run result into the job's status and persists the whole
// record before returning. History is prepended and truncated to the cap;
// the counters are never truncated.
func (s *Store) Record(result model.RunResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	js := s.record.Jobs[result.JobName]
	if js == nil {
		js = &model.JobStatus{}
		s.record.Jobs[result.JobName] = js
	}

	js.History = append([]model.RunResult{result}, js.History...)
	if len(js.History) > s.limit {
		js.History = js.History[:s.limit]
	}

	js.LastResult = &result
	if result.Failed() {
		js.FailureCount++
	} else {
		js.SuccessCount++
		at := result.EndedAt
		js.LastSuccessAt = &at
	}

	return s.persistLocked()
}

// FinishPass stamps the pass-level fields the dashboard's summary cards read.
func (s *Store) FinishPass(summary model.PassSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	at := summary.StartedAt
	s.record.LastRun = &at
	s.record.TotalRuns++
	s.record.LastSummary = &summary

	return s.persistLocked()
}

// Snapshot returns a deep copy safe to hand to readers.
func (s *Store) Snapshot() model.StatusRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := s.record
	copied.Jobs = make(map[string]*model.JobStatus, len(s.record.Jobs))
	for name, js := range s.record.Jobs {
		dup := *js
		dup.History = append([]model.RunResult(nil), js.History...)
		copied.Jobs[name] = &dup
	}

	if s.record.LastRun != nil {
		at := *s.record.LastRun
		copied.LastRun = &at
	}
	if s.record.LastSummary != nil {
		sum := *s.record.LastSummary
		copied.LastSummary = &sum
	}

	return copied
}

func (s *Store) persistLocked() error {
	data, err := json.MarshalIndent(s.record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status record: %w", err)
	}

	return util.AtomicWrite(s.path, data, 0644)
}
