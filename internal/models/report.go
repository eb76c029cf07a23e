// Package models defines the database models for persisted profiling runs.
package models

import "time"

// ProfileRun is one invocation of the profiler over a log directory.
type ProfileRun struct {
	ID         uint        `gorm:"primaryKey"`
	LogPath    string      `gorm:"size:1024;not null"`
	OutputPath string      `gorm:"size:1024"`
	Files      int
	Rows       []ReportRow `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time   `gorm:"index"`
	UpdatedAt  time.Time
}

// ReportRow mirrors one line of the report. SpanMs is NULL for incomplete rows.
type ReportRow struct {
	ID          uint   `gorm:"primaryKey"`
	RunID       uint   `gorm:"index:ix_run_seq,unique;not null"`
	Seq         int    `gorm:"index:ix_run_seq,unique"` // position in the report
	Kind        string `gorm:"size:16;index"`           // "DS Block", "MB Block" or "FB Block"
	BlockNumber uint64 `gorm:"index"`
	StartTime   string `gorm:"size:32"`
	EndTime     string `gorm:"size:32"`
	SpanMs      *int64
	CreatedAt   time.Time
}
