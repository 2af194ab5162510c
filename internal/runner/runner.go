// Package runner executes a single sync job by shelling out to rsync and
// turns whatever happens into a RunResult. It never returns an error:
// launch failures and timeouts are failures of the job, not of the pass.
package runner

import (
	"context"
	"errors"
	"fmt"
	"mirrorsync/internal/config"
	"mirrorsync/internal/logger"
	"mirrorsync/internal/model"
	"mirrorsync/internal/secret"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	excerptLines    = 20
	excerptMaxBytes = 2000
)

type Runner struct {
	settings config.Settings
	secrets  secret.Provider

	// RsyncPath is the binary to invoke, "rsync" unless overridden.
	RsyncPath string
}

func New(settings config.Settings, secrets secret.Provider) *Runner {
	return &Runner{
		settings:  settings,
		secrets:   secrets,
		RsyncPath: "rsync",
	}
}

func (r *Runner) Run(ctx context.Context, job config.SyncJob) model.RunResult {
	started := time.Now()

	result := model.RunResult{
		JobName:     job.Name,
		Source:      job.Source,
		Destination: job.Destination,
		StartedAt:   started,
	}

	args, err := r.buildArgs(job)
	if err != nil {
		logger.Log.Error("sync failed",
			zap.String("job", job.Name),
			zap.Error(err))

		return finish(result, model.OutcomeFailure, -1, err.Error())
	}

	if r.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.settings.Timeout)
		defer cancel()
	}

	logger.Log.Info("starting sync",
		zap.String("job", job.Name),
		zap.String("src", job.Source),
		zap.String("dst", job.Destination))

	cmd := exec.CommandContext(ctx, r.RsyncPath, args...)
	output, runErr := cmd.CombinedOutput()

	switch {
	case runErr == nil:
		result = finish(result, model.OutcomeSuccess, 0, "")

	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		result = finish(result, model.OutcomeFailure, -1,
			fmt.Sprintf("timed out after %s", r.settings.Timeout))

	default:
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result = finish(result, model.OutcomeFailure, exitErr.ExitCode(), excerpt(string(output)))
		} else {
			// rsync never started: binary missing, permission denied.
			result = finish(result, model.OutcomeFailure, -1,
				fmt.Sprintf("failed to launch %s: %v", r.RsyncPath, runErr))
		}
	}

	result.Stats = ParseStats(string(output))
	result.BytesTransferred = bytesTransferred(result.Stats, string(output))

	if result.Failed() {
		logger.Log.Error("sync failed",
			zap.String("job", job.Name),
			zap.Int("exit_code", result.ExitCode),
			zap.String("excerpt", result.ErrorExcerpt))
	} else {
		logger.Log.Info("sync completed",
			zap.String("job", job.Name),
			zap.Duration("duration", result.Duration),
			zap.Int64("bytes", result.BytesTransferred))
	}

	return result
}

func (r *Runner) buildArgs(job config.SyncJob) ([]string, error) {
	sshCmd := "ssh -o StrictHostKeyChecking=no"
	if r.settings.SSHKey != "" {
		key, err := r.secrets.Resolve(r.settings.SSHKey)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve ssh key: %w", err)
		}

		sshCmd = fmt.Sprintf("ssh -i %s -o StrictHostKeyChecking=no", key)
	}

	args := []string{"-e", sshCmd}
	args = append(args, strings.Fields(r.settings.RsyncOptions)...)

	for _, pattern := range job.Exclude {
		args = append(args, "--exclude", pattern)
	}

	return append(args, job.Source, job.Destination), nil
}

func finish(result model.RunResult, outcome model.Outcome, exitCode int, errExcerpt string) model.RunResult {
	result.EndedAt = time.Now()
	result.Duration = result.EndedAt.Sub(result.StartedAt)
	result.Outcome = outcome
	result.ExitCode = exitCode
	result.ErrorExcerpt = errExcerpt

	return result
}

// excerpt keeps the tail of the combined output so the status record stays
// bounded no matter how chatty the failure was.
func excerpt(output string) string {
	output = strings.TrimRight(output, "\n")
	if output == "" {
		return ""
	}

	lines := strings.Split(output, "\n")
	if len(lines) > excerptLines {
		lines = lines[len(lines)-excerptLines:]
	}

	tail := strings.Join(lines, "\n")
	if len(tail) > excerptMaxBytes {
		tail = tail[len(tail)-excerptMaxBytes:]
	}

	return tail
}
