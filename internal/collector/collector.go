package collector

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"consensus-profiler/internal/config"
	"consensus-profiler/internal/logger"
	"consensus-profiler/internal/parse"
	"consensus-profiler/internal/timeline"

	"github.com/gobwas/glob"
)

// ErrNotFound is returned when the log root does not exist.
var ErrNotFound = errors.New("path not found")

// maxLineSize bounds a single state log line; node logs carry long hex dumps.
const maxLineSize = 1024 * 1024

// Stats counts what a scan saw.
type Stats struct {
	Files   int
	Lines   int
	Events  int // marker lines that were recorded
	Skipped int // marker lines dropped for lack of a block number
}

func (s *Stats) add(o Stats) {
	s.Files += o.Files
	s.Lines += o.Lines
	s.Events += o.Events
	s.Skipped += o.Skipped
}

type Collector struct {
	cfg     config.Config
	log     *logger.Logger
	matcher glob.Glob
	stats   Stats
}

func NewCollector(cfg config.Config, log *logger.Logger) (*Collector, error) {
	g, err := glob.Compile(cfg.StateLogFile)
	if err != nil {
		return nil, fmt.Errorf("compile state log pattern %q: %w", cfg.StateLogFile, err)
	}
	return &Collector{
		cfg:     cfg,
		log:     log.Named("collector"),
		matcher: g,
	}, nil
}

// Run scans every state log under root into a fresh store.
func (c *Collector) Run(root string) (*timeline.Store, error) {
	files, err := findFiles(root, c.matcher)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		c.log.Warnf("no %s files under %s", c.cfg.StateLogFile, root)
	}

	store := timeline.New()
	for _, f := range files {
		c.log.Infof("Checking file: %s", f)
		st, err := ScanFile(f, store, c.cfg.Markers, c.log)
		if err != nil {
			return nil, err
		}
		c.stats.add(st)
	}

	ds, mb, fb := store.Len()
	c.log.Debugf("scan done: files=%d lines=%d events=%d skipped=%d ds=%d mb=%d fb=%d",
		c.stats.Files, c.stats.Lines, c.stats.Events, c.stats.Skipped, ds, mb, fb)
	return store, nil
}

// Stats returns the totals accumulated by Run.
func (c *Collector) Stats() Stats {
	return c.stats
}

// FindFiles returns the files under root whose base name matches pattern, in walk order.
func FindFiles(root, pattern string) ([]string, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	return findFiles(root, g)
}

func findFiles(root string, g glob.Glob) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", root, ErrNotFound)
		}
		return nil, err
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && g.Match(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

// ScanFile reads one state log and records its consensus events into store.
// Pending micro-block and final-block starts do not carry over between files.
func ScanFile(path string, store *timeline.Store, m config.Markers, log *logger.Logger) (Stats, error) {
	st := Stats{Files: 1}

	f, err := os.Open(path)
	if err != nil {
		return st, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var pendingMB, pendingFB pending

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		st.Lines++
		line := sc.Text()

		var kind string
		switch {
		case strings.Contains(line, m.DS):
			kind = "DS"
		case strings.Contains(line, m.MB):
			kind = "MB"
		case strings.Contains(line, m.FB):
			kind = "FB"
		default:
			continue
		}

		begin := strings.Contains(line, m.Begin)
		done := !begin && strings.Contains(line, m.Done)
		if !begin && !done {
			continue
		}

		block, err := parse.BlockNumber(line)
		if err != nil {
			st.Skipped++
			log.Warnf("%s:%d: %s line skipped: %v", path, st.Lines, kind, err)
			continue
		}

		ts := parse.Timestamp(line)
		if ts == "" {
			log.Warnf("%s:%d: %s block %d has no timestamp", path, st.Lines, kind, block)
		}
		st.Events++

		switch kind {
		case "DS":
			if begin {
				store.SetDSStart(block, ts)
			} else {
				store.SetDSEnd(block, ts)
			}
		case "MB":
			if begin {
				pendingMB.set(ts)
			} else {
				store.AppendMB(pendingMB.take(block, ts, path, log))
			}
		case "FB":
			if begin {
				pendingFB.set(ts)
			} else {
				store.AppendFB(pendingFB.take(block, ts, path, log))
			}
		}
	}
	if err := sc.Err(); err != nil {
		return st, fmt.Errorf("read %s: %w", path, err)
	}
	return st, nil
}

// pending holds the start time of the round that is currently open.
type pending struct {
	start string
	ok    bool
}

func (p *pending) set(ts string) {
	p.start = ts
	p.ok = true
}

// take closes the open round with end and clears it.
func (p *pending) take(block uint64, end, path string, log *logger.Logger) timeline.ConsensusRecord {
	if !p.ok {
		log.Warnf("%s: block %d DONE without BGIN", path, block)
	}
	rec := timeline.ConsensusRecord{
		BlockNumber: block,
		StartTime:   p.start,
		EndTime:     end,
	}
	if span, err := parse.Span(rec.StartTime, rec.EndTime); err == nil {
		rec.TimeSpan = span
		rec.Complete = true
	}
	*p = pending{}
	return rec
}
