package store

import (
	"encoding/json"
	"mirrorsync/internal/model"
	"mirrorsync/internal/util"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(job string, outcome model.Outcome) model.RunResult {
	now := time.Now().UTC().Truncate(time.Second)
	return model.RunResult{
		JobName:   job,
		StartedAt: now,
		EndedAt:   now.Add(2 * time.Second),
		Duration:  2 * time.Second,
		Outcome:   outcome,
	}
}

func TestOpenMissingFileStartsEmpty(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "status.json"), 10)
	require.NoError(t, err)

	record := s.Snapshot()
	assert.Empty(t, record.Jobs)
	assert.Nil(t, record.LastRun)
	assert.Zero(t, record.TotalRuns)
}

func TestOpenCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := Open(path, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestRecordCountersAndLastResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	s, err := Open(path, 10)
	require.NoError(t, err)

	require.NoError(t, s.Record(result("Docs", model.OutcomeSuccess)))
	require.NoError(t, s.Record(result("Docs", model.OutcomeFailure)))
	require.NoError(t, s.Record(result("Docs", model.OutcomeSuccess)))

	js := s.Snapshot().Jobs["Docs"]
	require.NotNil(t, js)
	assert.Equal(t, int64(2), js.SuccessCount)
	assert.Equal(t, int64(1), js.FailureCount)
	assert.Equal(t, model.OutcomeSuccess, js.LastResult.Outcome)
	require.NotNil(t, js.LastSuccessAt)
}

func TestLastSuccessAtOnlyAdvancesOnSuccess(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "status.json"), 10)
	require.NoError(t, err)

	require.NoError(t, s.Record(result("Docs", model.OutcomeFailure)))
	assert.Nil(t, s.Snapshot().Jobs["Docs"].LastSuccessAt)

	ok := result("Docs", model.OutcomeSuccess)
	require.NoError(t, s.Record(ok))

	js := s.Snapshot().Jobs["Docs"]
	require.NotNil(t, js.LastSuccessAt)
	assert.Equal(t, ok.EndedAt, *js.LastSuccessAt)

	require.NoError(t, s.Record(result("Docs", model.OutcomeFailure)))
	assert.Equal(t, ok.EndedAt, *s.Snapshot().Jobs["Docs"].LastSuccessAt)
}

func TestHistoryCapEvictsOldest(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "status.json"), 3)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		r := result("Docs", model.OutcomeSuccess)
		r.ExitCode = i // marker to tell entries apart
		require.NoError(t, s.Record(r))
	}

	js := s.Snapshot().Jobs["Docs"]
	require.Len(t, js.History, 3)

	// most-recent-first, oldest evicted
	assert.Equal(t, 4, js.History[0].ExitCode)
	assert.Equal(t, 3, js.History[1].ExitCode)
	assert.Equal(t, 2, js.History[2].ExitCode)

	// counters are never truncated
	assert.Equal(t, int64(5), js.SuccessCount)
}

func TestCountersSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")

	s, err := Open(path, 10)
	require.NoError(t, err)
	require.NoError(t, s.Record(result("Docs", model.OutcomeSuccess)))
	require.NoError(t, s.Record(result("Docs", model.OutcomeSuccess)))

	reopened, err := Open(path, 10)
	require.NoError(t, err)
	require.NoError(t, reopened.Record(result("Docs", model.OutcomeSuccess)))

	assert.Equal(t, int64(3), reopened.Snapshot().Jobs["Docs"].SuccessCount)
}

func TestFinishPass(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	s, err := Open(path, 10)
	require.NoError(t, err)

	summary := model.PassSummary{
		StartedAt: time.Now().UTC().Truncate(time.Second),
		Attempted: 2,
		Succeeded: 1,
		Failed:    1,
	}
	require.NoError(t, s.FinishPass(summary))
	require.NoError(t, s.FinishPass(summary))

	record, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(2), record.TotalRuns)
	require.NotNil(t, record.LastRun)
	require.NotNil(t, record.LastSummary)
	assert.Equal(t, 1, record.LastSummary.Failed)
}

func TestRoundTripStability(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	s, err := Open(path, 10)
	require.NoError(t, err)

	require.NoError(t, s.Record(result("Docs", model.OutcomeSuccess)))
	require.NoError(t, s.Record(result("Photos", model.OutcomeFailure)))
	require.NoError(t, s.FinishPass(model.PassSummary{StartedAt: time.Now().UTC()}))

	first, err := Load(path)
	require.NoError(t, err)

	// persist the loaded record unchanged and load it again
	data, err := json.MarshalIndent(first, "", "  ")
	require.NoError(t, err)
	require.NoError(t, util.AtomicWrite(path, data, 0644))

	second, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPersistLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "status.json"), 10)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, s.Record(result("Docs", model.OutcomeSuccess)))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "status.json", entries[0].Name())
}

// A reader hitting the file mid-update must always see a complete record.
func TestConcurrentReadersNeverSeeTornWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	s, err := Open(path, 10)
	require.NoError(t, err)
	require.NoError(t, s.Record(result("Docs", model.OutcomeSuccess)))

	done := make(chan struct{})
	var wg sync.WaitGroup

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}

				record, err := Load(path)
				assert.NoError(t, err)
				assert.NotNil(t, record.Jobs["Docs"])
			}
		}()
	}

	for i := 0; i < 100; i++ {
		require.NoError(t, s.Record(result("Docs", model.OutcomeSuccess)))
	}

	close(done)
	wg.Wait()
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "status.json"), 10)
	require.NoError(t, err)
	require.NoError(t, s.Record(result("Docs", model.OutcomeSuccess)))

	snap := s.Snapshot()
	snap.Jobs["Docs"].SuccessCount = 99
	snap.Jobs["Extra"] = &model.JobStatus{}

	fresh := s.Snapshot()
	assert.Equal(t, int64(1), fresh.Jobs["Docs"].SuccessCount)
	assert.NotContains(t, fresh.Jobs, "Extra")
}

func TestLoadEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))

	record, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, record.Jobs)
}
