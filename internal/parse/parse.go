// Package parse extracts timestamps and block numbers from node state log lines.
package parse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrNoBlockNumber is returned when a line carries no bracketed block number.
	ErrNoBlockNumber = errors.New("no block number in line")
	// ErrIncompleteTimestamp is returned for empty or malformed H:M:S:millis strings.
	ErrIncompleteTimestamp = errors.New("incomplete timestamp")
)

var (
	// node loggers pad the millisecond group with spaces, e.g. "10:02:33: 42"
	timestampRe   = regexp.MustCompile(`\d+:\d+:\d+: *\d+`)
	blockNumberRe = regexp.MustCompile(`\[(\d+)\]`)
)

// Timestamp returns the first H:M:S:millis substring of line, or "" if there is none.
func Timestamp(line string) string {
	return timestampRe.FindString(line)
}

// BlockNumber returns the first bracket group in line that holds only decimal digits.
func BlockNumber(line string) (uint64, error) {
	m := blockNumberRe.FindStringSubmatch(line)
	if m == nil {
		return 0, ErrNoBlockNumber
	}
	n, err := strconv.ParseUint(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("block number %q: %w", m[1], err)
	}
	return n, nil
}

// Millis converts "H:M:S:millis" to milliseconds since midnight.
// There is no date component, so a run that crosses midnight yields negative spans.
func Millis(ts string) (int64, error) {
	parts := strings.Split(ts, ":")
	if len(parts) != 4 {
		return 0, fmt.Errorf("%q: %w", ts, ErrIncompleteTimestamp)
	}
	var vals [4]int64
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%q: %w", ts, ErrIncompleteTimestamp)
		}
		vals[i] = v
	}
	return vals[0]*3600000 + vals[1]*60000 + vals[2]*1000 + vals[3], nil
}

// Span returns end minus start in milliseconds.
func Span(start, end string) (int64, error) {
	s, err := Millis(start)
	if err != nil {
		return 0, err
	}
	e, err := Millis(end)
	if err != nil {
		return 0, err
	}
	return e - s, nil
}
