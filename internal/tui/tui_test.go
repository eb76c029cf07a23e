package tui

import (
	"fmt"
	"strings"
	"testing"

	"consensus-profiler/internal/report"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLines(n int) []report.Line {
	lines := make([]report.Line, n)
	for i := range lines {
		lines[i] = report.Line{
			Kind:        report.KindFB,
			BlockNumber: uint64(i + 1),
			StartTime:   "00:00:01:000",
			EndTime:     "00:00:02:000",
			Span:        1000,
			Complete:    true,
		}
	}
	return lines
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm
}

func TestModel_Scroll(t *testing.T) {
	m := NewModel(RunInfo{LogPath: "logs", OutputPath: "out.txt", Files: 2}, sampleLines(50))
	assert.Equal(t, "Loading...", m.View())

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 20})
	page := m.pageSize()
	assert.Equal(t, 20-headerHeight-footerHeight, page)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.offset)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.offset)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, 50-page, m.offset)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 50-page, m.offset)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 0, m.offset)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.NotNil(t, cmd)
}

func TestModel_View(t *testing.T) {
	lines := sampleLines(3)
	lines = append(lines, report.Line{Kind: report.KindMB, BlockNumber: 4, EndTime: "00:00:05:000"})

	m := NewModel(RunInfo{LogPath: "logs", OutputPath: "out.txt", Files: 1}, lines)
	m = update(t, m, tea.WindowSizeMsg{Width: 90, Height: 16})

	view := m.View()
	assert.Contains(t, view, "logs -> out.txt (1 files)")
	assert.Contains(t, view, "FB Block: 3 rows")
	assert.Contains(t, view, "MB Block: 1 rows")
	assert.Contains(t, view, "incomplete: 1")
	assert.Contains(t, view, "1000ms")
	assert.Contains(t, view, fmt.Sprintf("rows 1-4 of %d", len(lines)))

	rows := strings.Split(view, "\n")
	assert.Len(t, rows, 16)
	for _, r := range rows[:headerHeight] {
		assert.Equal(t, 90, runewidth.StringWidth(r), r)
	}
}

func TestModel_SmallWindow(t *testing.T) {
	m := NewModel(RunInfo{}, nil)
	m = update(t, m, tea.WindowSizeMsg{Width: 10, Height: 5})
	assert.Equal(t, "Window too small", m.View())
}

func TestPadToWidth(t *testing.T) {
	assert.Equal(t, "ab  ", padToWidth("ab", 4))
	assert.Equal(t, "abc", padToWidth("abcdef", 3))
}
