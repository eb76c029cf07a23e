package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_DSOrderedByBlock(t *testing.T) {
	s := New()
	s.SetDSStart(10, "00:00:10:000")
	s.SetDSStart(2, "00:00:02:000")
	s.SetDSEnd(2, "00:00:03:000")
	s.SetDSEnd(7, "00:00:08:000")

	assert.Equal(t, []uint64{2, 7, 10}, s.DSBlocks())

	start, ok := s.DSStart(2)
	require.True(t, ok)
	assert.Equal(t, "00:00:02:000", start)

	// DONE without BGIN keeps an empty start
	span, ok := s.DS(7)
	require.True(t, ok)
	assert.Equal(t, DSSpan{EndTime: "00:00:08:000"}, span)

	end, ok := s.DSEnd(10)
	require.True(t, ok)
	assert.Empty(t, end)

	_, ok = s.DSStart(3)
	assert.False(t, ok)
}

func TestStore_RecordsKeepEncounterOrder(t *testing.T) {
	s := New()
	s.AppendMB(ConsensusRecord{BlockNumber: 7, StartTime: "b", TimeSpan: 2})
	s.AppendMB(ConsensusRecord{BlockNumber: 3, StartTime: "a", TimeSpan: 1})
	s.AppendMB(ConsensusRecord{BlockNumber: 7, StartTime: "c", TimeSpan: 3})
	s.AppendFB(ConsensusRecord{BlockNumber: 7})

	assert.Equal(t, []uint64{3, 7}, s.MBBlocks())
	assert.Equal(t, []uint64{7}, s.FBBlocks())

	recs := s.MB(7)
	require.Len(t, recs, 2)
	assert.Equal(t, "b", recs[0].StartTime)
	assert.Equal(t, "c", recs[1].StartTime)

	// returned slices are copies
	recs[0].StartTime = "mutated"
	assert.Equal(t, "b", s.MB(7)[0].StartTime)

	assert.Nil(t, s.FB(3))

	ds, mb, fb := s.Len()
	assert.Equal(t, 0, ds)
	assert.Equal(t, 2, mb)
	assert.Equal(t, 1, fb)
}
