// Package timeline holds per-block consensus timings ordered by block number.
package timeline

import (
	"github.com/huandu/skiplist"
)

// ConsensusRecord is one matched BGIN/DONE pair for a block.
type ConsensusRecord struct {
	BlockNumber uint64
	StartTime   string
	EndTime     string
	TimeSpan    int64 // milliseconds, valid only when Complete is true
	Complete    bool
}

// DSSpan is the start and end of a directory-service round. Either side may be empty.
type DSSpan struct {
	StartTime string
	EndTime   string
}

// Store keeps the three timelines. Keys are uint64 block numbers in ascending order.
type Store struct {
	ds *skiplist.SkipList // block -> *DSSpan
	mb *skiplist.SkipList // block -> []ConsensusRecord
	fb *skiplist.SkipList // block -> []ConsensusRecord
}

func New() *Store {
	return &Store{
		ds: skiplist.New(skiplist.Uint64),
		mb: skiplist.New(skiplist.Uint64),
		fb: skiplist.New(skiplist.Uint64),
	}
}

func (s *Store) dsSpan(block uint64) *DSSpan {
	if el := s.ds.Get(block); el != nil {
		return el.Value.(*DSSpan)
	}
	span := &DSSpan{}
	s.ds.Set(block, span)
	return span
}

// SetDSStart records the start time of a directory-service round, replacing an earlier one.
func (s *Store) SetDSStart(block uint64, ts string) {
	s.dsSpan(block).StartTime = ts
}

// SetDSEnd records the end time of a directory-service round, replacing an earlier one.
func (s *Store) SetDSEnd(block uint64, ts string) {
	s.dsSpan(block).EndTime = ts
}

func (s *Store) DSStart(block uint64) (string, bool) {
	el := s.ds.Get(block)
	if el == nil {
		return "", false
	}
	return el.Value.(*DSSpan).StartTime, true
}

func (s *Store) DSEnd(block uint64) (string, bool) {
	el := s.ds.Get(block)
	if el == nil {
		return "", false
	}
	return el.Value.(*DSSpan).EndTime, true
}

// DS returns the span for block.
func (s *Store) DS(block uint64) (DSSpan, bool) {
	el := s.ds.Get(block)
	if el == nil {
		return DSSpan{}, false
	}
	return *el.Value.(*DSSpan), true
}

func (s *Store) AppendMB(rec ConsensusRecord) { appendRecord(s.mb, rec) }

func (s *Store) AppendFB(rec ConsensusRecord) { appendRecord(s.fb, rec) }

func (s *Store) MB(block uint64) []ConsensusRecord { return records(s.mb, block) }

func (s *Store) FB(block uint64) []ConsensusRecord { return records(s.fb, block) }

func (s *Store) DSBlocks() []uint64 { return keys(s.ds) }

func (s *Store) MBBlocks() []uint64 { return keys(s.mb) }

func (s *Store) FBBlocks() []uint64 { return keys(s.fb) }

// Len returns the number of distinct block numbers per timeline.
func (s *Store) Len() (ds, mb, fb int) {
	return s.ds.Len(), s.mb.Len(), s.fb.Len()
}

func appendRecord(sl *skiplist.SkipList, rec ConsensusRecord) {
	if el := sl.Get(rec.BlockNumber); el != nil {
		el.Value = append(el.Value.([]ConsensusRecord), rec)
		return
	}
	sl.Set(rec.BlockNumber, []ConsensusRecord{rec})
}

func records(sl *skiplist.SkipList, block uint64) []ConsensusRecord {
	el := sl.Get(block)
	if el == nil {
		return nil
	}
	recs := el.Value.([]ConsensusRecord)
	out := make([]ConsensusRecord, len(recs))
	copy(out, recs)
	return out
}

func keys(sl *skiplist.SkipList) []uint64 {
	out := make([]uint64, 0, sl.Len())
	for el := sl.Front(); el != nil; el = el.Next() {
		out = append(out, el.Key().(uint64))
	}
	return out
}
