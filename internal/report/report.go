// Package report merges the three consensus timelines into a flat, block-ordered report.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"consensus-profiler/internal/logger"
	"consensus-profiler/internal/parse"
	"consensus-profiler/internal/timeline"
)

// Kind labels a report row.
type Kind string

const (
	KindDS Kind = "DS Block"
	KindMB Kind = "MB Block"
	KindFB Kind = "FB Block"
)

// Kinds lists the row kinds in report order.
var Kinds = []Kind{KindDS, KindMB, KindFB}

// Line is one report row. Span is meaningful only when Complete is set.
type Line struct {
	Kind        Kind
	BlockNumber uint64
	StartTime   string
	EndTime     string
	Span        int64
	Complete    bool
}

// String renders the row tab separated. Incomplete rows leave the span column empty.
func (l Line) String() string {
	span := ""
	if l.Complete {
		span = strconv.FormatInt(l.Span, 10)
	}
	return fmt.Sprintf("%s\t%d\t%s\t%s\t%s", l.Kind, l.BlockNumber, l.StartTime, l.EndTime, span)
}

func fromRecord(kind Kind, rec timeline.ConsensusRecord) Line {
	return Line{
		Kind:        kind,
		BlockNumber: rec.BlockNumber,
		StartTime:   rec.StartTime,
		EndTime:     rec.EndTime,
		Span:        rec.TimeSpan,
		Complete:    rec.Complete,
	}
}

func fromDS(block uint64, span timeline.DSSpan) Line {
	l := Line{
		Kind:        KindDS,
		BlockNumber: block,
		StartTime:   span.StartTime,
		EndTime:     span.EndTime,
	}
	if ms, err := parse.Span(span.StartTime, span.EndTime); err == nil {
		l.Span = ms
		l.Complete = true
	}
	return l
}

// Build walks the final-block timeline and, per final block, emits the aligned
// directory-service row, the micro-block rows collected for that block and the final-block
// rows themselves.
//
// The directory-service cursor only moves when its next key equals the next final-block key,
// so directory-service rounds without a final block are never reported.
func Build(store *timeline.Store, log *logger.Logger) []Line {
	log = log.Named("report")

	dsKeys := store.DSBlocks()
	mbKeys := store.MBBlocks()
	fbKeys := store.FBBlocks()

	var lines []Line
	emit := func(l Line) {
		if !l.Complete {
			log.Warnf("%s %d incomplete: start=%q end=%q", l.Kind, l.BlockNumber, l.StartTime, l.EndTime)
		}
		lines = append(lines, l)
	}

	dsIdx, mbIdx := 0, 0
	for fbIdx := 0; fbIdx < len(fbKeys); fbIdx++ {
		block := fbKeys[fbIdx]

		if dsIdx < len(dsKeys) && dsKeys[dsIdx] == block {
			span, _ := store.DS(block)
			emit(fromDS(block, span))
		}

		if mbIdx < len(mbKeys) && mbKeys[mbIdx] == block {
			for _, rec := range store.MB(block) {
				emit(fromRecord(KindMB, rec))
			}
			mbIdx++
		} else {
			log.Warnf("no micro block consensus found for final block %d", block)
		}

		for _, rec := range store.FB(block) {
			emit(fromRecord(KindFB, rec))
		}

		if fbIdx+1 < len(fbKeys) && dsIdx+1 < len(dsKeys) && dsKeys[dsIdx+1] == fbKeys[fbIdx+1] {
			dsIdx++
		}
	}
	return lines
}

// Write renders lines to w, one row per line.
func Write(w io.Writer, lines []Line) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		if _, err := bw.WriteString(l.String() + "\n"); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}
