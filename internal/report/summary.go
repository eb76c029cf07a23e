package report

import (
	"math"
	"sort"
)

// Summary aggregates the spans of one row kind. Incomplete rows are counted but carry no span.
type Summary struct {
	Kind       Kind
	Rows       int
	Incomplete int
	Min        int64
	Max        int64
	Mean       int64
	Median     int64
}

// Summarize returns one Summary per kind, in report order. Kinds with no rows are included.
func Summarize(lines []Line) []Summary {
	spans := make(map[Kind][]int64, len(Kinds))
	out := make([]Summary, len(Kinds))
	idx := make(map[Kind]int, len(Kinds))
	for i, k := range Kinds {
		out[i].Kind = k
		idx[k] = i
	}

	for _, l := range lines {
		s := &out[idx[l.Kind]]
		s.Rows++
		if !l.Complete {
			s.Incomplete++
			continue
		}
		spans[l.Kind] = append(spans[l.Kind], l.Span)
	}

	for i := range out {
		vs := spans[out[i].Kind]
		out[i].Min = minOf(vs)
		out[i].Max = maxOf(vs)
		out[i].Mean = mean(vs)
		out[i].Median = median(vs)
	}
	return out
}

func maxOf(vs []int64) int64 {
	if len(vs) == 0 {
		return 0
	}
	m := vs[0]
	for _, v := range vs {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(vs []int64) int64 {
	if len(vs) == 0 {
		return 0
	}
	m := vs[0]
	for _, v := range vs {
		if v < m {
			m = v
		}
	}
	return m
}

func mean(vs []int64) int64 {
	if len(vs) == 0 {
		return 0
	}
	total := int64(0)
	for _, v := range vs {
		total += v
	}
	return int64(math.Round(float64(total) / float64(len(vs))))
}

// median sorts a copy; callers keep their order.
func median(vs []int64) int64 {
	if len(vs) == 0 {
		return 0
	}
	sorted := append([]int64(nil), vs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	mid := len(sorted) / 2

	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
