package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	SyncJobs []SyncJob `mapstructure:"sync_jobs"`
	Settings Settings  `mapstructure:"settings"`
}

type SyncJob struct {
	Name        string   `mapstructure:"name" json:"name"`
	Source      string   `mapstructure:"source" json:"source"`
	Destination string   `mapstructure:"destination" json:"destination"`
	Enabled     *bool    `mapstructure:"enabled" json:"enabled"`
	Exclude     []string `mapstructure:"exclude" json:"exclude,omitempty"`
}

// IsEnabled treats a missing enabled key as true, so a job is only
// skipped when it is explicitly disabled.
func (j SyncJob) IsEnabled() bool {
	return j.Enabled == nil || *j.Enabled
}

type Settings struct {
	RsyncOptions string        `mapstructure:"rsync_options"`
	SSHKey       string        `mapstructure:"ssh_key"`
	Timeout      time.Duration `mapstructure:"timeout"`
	HistoryLimit int           `mapstructure:"history_limit"`
	StatusPath   string        `mapstructure:"status_path"`
	DBPath       string        `mapstructure:"db_path"`
	Notification Notification  `mapstructure:"notification"`
	Web          WebConfig     `mapstructure:"web_interface"`
}

type Notification struct {
	Email      string `mapstructure:"email"`
	SMTPServer string `mapstructure:"smtp_server"`
	SMTPPort   int    `mapstructure:"smtp_port"`
	SMTPUser   string `mapstructure:"smtp_user"`
	SMTPPass   string `mapstructure:"smtp_pass"`
}

// Configured reports whether failure notifications should be attempted at all.
func (n Notification) Configured() bool {
	return n.Email != "" && n.SMTPServer != ""
}

type WebConfig struct {
	Port  int    `mapstructure:"port"`
	Title string `mapstructure:"title"`
}

var Default = Settings{
	RsyncOptions: "-avz --delete --stats",
	Timeout:      time.Hour,
	HistoryLimit: 20,
	StatusPath:   "status.json",
	DBPath:       "mirrorsync.db",
	Web: WebConfig{
		Port:  8080,
		Title: "NAS Backup Monitor",
	},
}

// Load reads the job list and settings from path, or from config.{yaml,json}
// in the working directory and ~/.mirrorsync when path is empty.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home dir: %w", err)
		}

		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(home, ".mirrorsync"))
	}

	v.SetDefault("settings.rsync_options", Default.RsyncOptions)
	v.SetDefault("settings.timeout", Default.Timeout)
	v.SetDefault("settings.history_limit", Default.HistoryLimit)
	v.SetDefault("settings.status_path", Default.StatusPath)
	v.SetDefault("settings.db_path", Default.DBPath)
	v.SetDefault("settings.web_interface.port", Default.Web.Port)
	v.SetDefault("settings.web_interface.title", Default.Web.Title)

	v.SetEnvPrefix("MIRRORSYNC")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// EnabledJobs returns the jobs that would actually run in a pass,
// preserving their declared order.
func (c *Config) EnabledJobs() []SyncJob {
	jobs := make([]SyncJob, 0, len(c.SyncJobs))
	for _, job := range c.SyncJobs {
		if job.IsEnabled() {
			jobs = append(jobs, job)
		}
	}

	return jobs
}
