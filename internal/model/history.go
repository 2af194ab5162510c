package model

import (
	"time"

	"gorm.io/gorm"
)

// History is one run-history row in the audit database. Unlike the status
// record's bounded history, these rows are never evicted.
type History struct {
	gorm.Model
	JobName          string  `gorm:"not null;index"`
	Outcome          Outcome `gorm:"not null"`
	ExitCode         int
	BytesTransferred int64
	Duration         time.Duration
	ErrMsg           string
	StartedAt        time.Time `gorm:"not null;index"`
}
