// Package main provides the entry point for the consensus timing profiler.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"consensus-profiler/internal/collector"
	"consensus-profiler/internal/config"
	"consensus-profiler/internal/logger"
	"consensus-profiler/internal/models"
	"consensus-profiler/internal/report"
	"consensus-profiler/internal/tui"

	dbpkg "consensus-profiler/internal/db"

	"github.com/joho/godotenv"
)

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Profile consensus time from state logs\n"+
		"======================================\n"+
		"Usage:\n\t%s [Log Parent Path] [Output File Path]\n", filepath.Base(os.Args[0]))
}

func main() {
	// Try to load .env from CWD if present; otherwise use environment as-is
	if _, statErr := os.Stat(".env"); statErr == nil {
		_ = godotenv.Load(".env")
	}

	os.Exit(run(os.Args[1:], os.Stdout))
}

// run executes one profiling pass and returns the process exit code.
func run(args []string, stdout io.Writer) int {
	if len(args) < 2 {
		printUsage(stdout)
		return 0
	}
	logPath, outputPath := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}

	log := logger.New(cfg.Debug)
	defer log.Sync()
	log.Debugf("Config loaded: %s", cfg.DebugString())

	coll, err := collector.NewCollector(cfg, log)
	if err != nil {
		log.Errorf("failed to init collector: %v", err)
		return 1
	}

	store, err := coll.Run(logPath)
	if errors.Is(err, collector.ErrNotFound) {
		fmt.Fprintf(stdout, "Path %s not exist!\n", logPath)
		printUsage(stdout)
		return 1
	}
	if err != nil {
		log.Errorf("scan failed: %v", err)
		return 1
	}

	lines := report.Build(store, log)

	if err := writeReport(outputPath, lines); err != nil {
		fmt.Fprintf(stdout, "Failed to open file %s: %v\n", outputPath, err)
		return 1
	}

	stats := coll.Stats()
	log.Printf("Report written: %s (%d rows from %d files)", outputPath, len(lines), stats.Files)
	for _, s := range report.Summarize(lines) {
		log.Printf("%s: rows=%d incomplete=%d min=%dms max=%dms mean=%dms median=%dms",
			s.Kind, s.Rows, s.Incomplete, s.Min, s.Max, s.Mean, s.Median)
	}

	if err := persist(cfg, log, &models.ProfileRun{LogPath: logPath, OutputPath: outputPath, Files: stats.Files}, lines); err != nil {
		log.Errorf("failed to persist run: %v", err)
		return 1
	}

	if cfg.View {
		info := tui.RunInfo{LogPath: logPath, OutputPath: outputPath, Files: stats.Files}
		if err := tui.Run(info, lines); err != nil {
			log.Errorf("TUI error: %v", err)
			return 1
		}
	}
	return 0
}

func writeReport(path string, lines []report.Line) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.Write(f, lines); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// persist stores the run when DATABASE_URL is configured.
func persist(cfg config.Config, log *logger.Logger, run *models.ProfileRun, lines []report.Line) error {
	gormDB, err := dbpkg.Open(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if gormDB == nil {
		log.Debugf("DATABASE_URL not provided – persistence disabled")
		return nil
	}
	log.Printf("DB connected")

	if err := dbpkg.AutoMigrate(gormDB); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	if err := dbpkg.SaveRun(gormDB, run, lines); err != nil {
		return err
	}
	log.Printf("Run %d stored with %d rows", run.ID, len(lines))
	return nil
}
