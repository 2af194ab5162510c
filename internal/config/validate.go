package config

import (
	"fmt"

	"github.com/gobwas/glob"
)

// ValidationError points at the config field that made the job list unusable.
type ValidationError struct {
	Job   string
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Job == "" {
		return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Msg)
	}

	return fmt.Sprintf("invalid config: job %q: %s: %s", e.Job, e.Field, e.Msg)
}

// Validate rejects configs that would make a pass ambiguous or unrunnable:
// unnamed or duplicate jobs, enabled jobs without endpoints, and exclude
// patterns that do not compile.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.SyncJobs))

	for i, job := range c.SyncJobs {
		if job.Name == "" {
			return &ValidationError{
				Field: "sync_jobs.name",
				Msg:   fmt.Sprintf("job at index %d has no name", i),
			}
		}

		if seen[job.Name] {
			return &ValidationError{
				Job:   job.Name,
				Field: "name",
				Msg:   "duplicate job name",
			}
		}
		seen[job.Name] = true

		if job.IsEnabled() {
			if job.Source == "" {
				return &ValidationError{Job: job.Name, Field: "source", Msg: "required for enabled jobs"}
			}
			if job.Destination == "" {
				return &ValidationError{Job: job.Name, Field: "destination", Msg: "required for enabled jobs"}
			}
		}

		for _, pattern := range job.Exclude {
			if _, err := glob.Compile(pattern); err != nil {
				return &ValidationError{
					Job:   job.Name,
					Field: "exclude",
					Msg:   fmt.Sprintf("invalid pattern %q: %v", pattern, err),
				}
			}
		}
	}

	if n := c.Settings.Notification; n.Configured() {
		if n.SMTPPort == 0 {
			return &ValidationError{Field: "settings.notification.smtp_port", Msg: "required when notification is configured"}
		}
	}

	if c.Settings.HistoryLimit < 1 {
		return &ValidationError{Field: "settings.history_limit", Msg: "must be at least 1"}
	}

	return nil
}
