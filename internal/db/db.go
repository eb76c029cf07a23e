// Package db provides database connection and migration functionality.
package db

import (
	"fmt"
	stdlog "log"
	"os"

	"consensus-profiler/internal/config"
	"consensus-profiler/internal/models"
	"consensus-profiler/internal/report"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// rowBatchSize bounds one INSERT; a long test run produces a few thousand rows.
const rowBatchSize = 1000

// Open opens a database connection using the provided configuration.
// It returns (nil, nil) when persistence is not configured.
func Open(cfg config.Config) (*gorm.DB, error) {
	// Configure GORM logger (Silent to avoid cluttering output; only errors will be logged)
	newLogger := logger.New(
		stdlog.New(os.Stderr, "", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	if cfg.DBDialect == "" || cfg.DBDsn == "" {
		return nil, nil
	}

	switch cfg.DBDialect {
	case config.DatabaseSchemePostgres:
		return gorm.Open(postgres.Open(cfg.DBDsn), &gorm.Config{Logger: newLogger})
	default:
		return nil, fmt.Errorf("unsupported DB_DIALECT: %s", cfg.DBDialect)
	}
}

// AutoMigrate runs database migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&models.ProfileRun{},
		&models.ReportRow{},
	)
}

// Rows converts report lines to rows in report order.
func Rows(lines []report.Line) []models.ReportRow {
	rows := make([]models.ReportRow, len(lines))
	for i, l := range lines {
		rows[i] = models.ReportRow{
			Seq:         i,
			Kind:        string(l.Kind),
			BlockNumber: l.BlockNumber,
			StartTime:   l.StartTime,
			EndTime:     l.EndTime,
		}
		if l.Complete {
			span := l.Span
			rows[i].SpanMs = &span
		}
	}
	return rows
}

// SaveRun stores run and its report rows in one transaction. A nil db is a no-op.
func SaveRun(db *gorm.DB, run *models.ProfileRun, lines []report.Line) error {
	if db == nil {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Rows").Create(run).Error; err != nil {
			return fmt.Errorf("create run: %w", err)
		}
		rows := Rows(lines)
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].RunID = run.ID
		}
		if err := tx.CreateInBatches(rows, rowBatchSize).Error; err != nil {
			return fmt.Errorf("insert %d rows for run %d: %w", len(rows), run.ID, err)
		}
		return nil
	})
}
