package tui

import (
	"fmt"
	"strings"

	"consensus-profiler/internal/report"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// headerHeight is the number of lines rendered above the report table
const headerHeight = 8

// summaryLines is the height of each per-kind summary cell
const summaryLines = 4

// footerHeight covers the separator, key help and bottom border
const footerHeight = 3

var (
	kindStyles = map[report.Kind]lipgloss.Style{
		report.KindDS: lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		report.KindMB: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		report.KindFB: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	}
	incompleteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func padToWidth(s string, width int) string {
	current := runewidth.StringWidth(s)
	if current >= width {
		return runewidth.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-current)
}

func separatorLine(width int) string {
	if width < 2 {
		return strings.Repeat("─", width)
	}
	return "├" + strings.Repeat("─", width-2) + "┤"
}

func formatInfoLine(text string, width int) string {
	if width < 2 {
		return padToWidth(text, width)
	}
	return "│" + padToWidth(text, width-2) + "│"
}

// RunInfo describes the run the report came from
type RunInfo struct {
	LogPath    string
	OutputPath string
	Files      int
}

// Model holds the TUI state
type Model struct {
	info    RunInfo
	lines   []report.Line
	summary []report.Summary
	offset  int
	width   int
	height  int
}

// NewModel creates a viewer model over a built report
func NewModel(info RunInfo, lines []report.Line) Model {
	return Model{
		info:    info,
		lines:   lines,
		summary: report.Summarize(lines),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// pageSize is the number of table rows that fit on screen
func (m Model) pageSize() int {
	n := m.height - headerHeight - footerHeight
	if n < 1 {
		return 1
	}
	return n
}

func (m Model) maxOffset() int {
	n := len(m.lines) - m.pageSize()
	if n < 0 {
		return 0
	}
	return n
}

func (m Model) scroll(delta int) Model {
	m.offset += delta
	if m.offset > m.maxOffset() {
		m.offset = m.maxOffset()
	}
	if m.offset < 0 {
		m.offset = 0
	}
	return m
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.scroll(0), nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			return m.scroll(-1), nil
		case "down", "j":
			return m.scroll(1), nil
		case "pgup", "b":
			return m.scroll(-m.pageSize()), nil
		case "pgdown", "f", " ":
			return m.scroll(m.pageSize()), nil
		case "home", "g":
			return m.scroll(-len(m.lines)), nil
		case "end", "G":
			return m.scroll(len(m.lines)), nil
		}
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.width < 40 || m.height < headerHeight+footerHeight+1 {
		return "Window too small"
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), m.renderRows())
}

// renderHeader renders the run info and one summary column per row kind
func (m Model) renderHeader() string {
	cols := len(m.summary)
	colWidth := (m.width - cols - 1) / cols
	if colWidth < 1 {
		colWidth = 1
	}
	lastWidth := m.width - cols - 1 - colWidth*(cols-1)

	width := func(i int) int {
		if i == cols-1 {
			return lastWidth
		}
		return colWidth
	}

	cells := make([][]string, cols)
	for i, s := range m.summary {
		cells[i] = []string{
			fmt.Sprintf(" %s: %d rows", s.Kind, s.Rows),
			fmt.Sprintf(" incomplete: %d", s.Incomplete),
			fmt.Sprintf(" min %dms  max %dms", s.Min, s.Max),
			fmt.Sprintf(" mean %dms  median %dms", s.Mean, s.Median),
		}
	}

	top := make([]string, cols)
	mid := make([]string, cols)
	for i := range top {
		top[i] = strings.Repeat("─", width(i))
		mid[i] = strings.Repeat("─", width(i))
	}

	var rows []string
	rows = append(rows, "┌"+strings.Repeat("─", m.width-2)+"┐")
	rows = append(rows, formatInfoLine(fmt.Sprintf(" %s -> %s (%d files)", m.info.LogPath, m.info.OutputPath, m.info.Files), m.width))
	rows = append(rows, "├"+strings.Join(top, "┬")+"┤")
	for line := 0; line < summaryLines; line++ {
		parts := make([]string, cols)
		for i := range cells {
			parts[i] = padToWidth(cells[i][line], width(i))
		}
		rows = append(rows, "│"+strings.Join(parts, "│")+"│")
	}
	rows = append(rows, "├"+strings.Join(mid, "┴")+"┤")
	return strings.Join(rows, "\n")
}

// renderRows renders the visible slice of the report table
func (m Model) renderRows() string {
	page := m.pageSize()
	end := m.offset + page
	if end > len(m.lines) {
		end = len(m.lines)
	}

	var rows []string
	for i := m.offset; i < end; i++ {
		rows = append(rows, m.formatRow(m.lines[i]))
	}
	for len(rows) < page {
		rows = append(rows, formatInfoLine("", m.width))
	}

	footer := fmt.Sprintf(" rows %d-%d of %d  ↑/↓ scroll  pgup/pgdn page  q quit", min(m.offset+1, len(m.lines)), end, len(m.lines))
	bottomBorder := "└" + strings.Repeat("─", m.width-2) + "┘"
	return strings.Join(rows, "\n") + "\n" + separatorLine(m.width) + "\n" + formatInfoLine(footer, m.width) + "\n" + bottomBorder
}

func (m Model) formatRow(l report.Line) string {
	span := "-"
	if l.Complete {
		span = fmt.Sprintf("%dms", l.Span)
	}
	text := fmt.Sprintf(" %-8s %10d  %-14s %-14s %10s", l.Kind, l.BlockNumber, l.StartTime, l.EndTime, span)
	text = padToWidth(text, m.width-2)

	style := kindStyles[l.Kind]
	if !l.Complete {
		style = incompleteStyle
	}
	return "│" + style.Render(text) + "│"
}

// Run starts the TUI program and blocks until the user quits
func Run(info RunInfo, lines []report.Line) error {
	p := tea.NewProgram(NewModel(info, lines), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
