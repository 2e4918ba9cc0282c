package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	tickInterval = 120 * time.Millisecond
	toolWidth    = 24
	statusWidth  = 10
	versionWidth = 12
	detailWidth  = 40
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type tickMsg time.Time

type row struct {
	key     string
	status  string
	version string
	detail  string
}

// ProgressModel draws one row per requested tool while installs run.
type ProgressModel struct {
	styles   Styles
	rows     []row
	rowIndex map[string]int
	done     bool
	aborted  bool
	err      error
	tick     int
}

// NewProgressModel creates a model with a pending row for each requirement,
// in the order given.
func NewProgressModel(styles Styles, requirements []string) ProgressModel {
	m := ProgressModel{
		styles:   styles,
		rowIndex: make(map[string]int, len(requirements)),
	}
	for _, req := range requirements {
		if _, dup := m.rowIndex[req]; dup {
			continue
		}
		m.rowIndex[req] = len(m.rows)
		m.rows = append(m.rows, row{key: req, status: "pending"})
	}
	return m
}

func scheduleTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init satisfies the tea.Model interface.
func (m ProgressModel) Init() tea.Cmd {
	return scheduleTick()
}

// Update satisfies the tea.Model interface.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.tick++
		if m.done {
			return m, nil
		}
		return m, scheduleTick()

	case RowUpdateMsg:
		m.apply(msg)
		return m, nil

	case WorkDoneMsg:
		m.done = true
		return m, tea.Quit

	case ErrorMsg:
		m.err = msg.Err
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.aborted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *ProgressModel) apply(msg RowUpdateMsg) {
	idx, ok := m.rowIndex[msg.Key]
	if !ok {
		return
	}
	r := &m.rows[idx]
	if msg.Status != "" {
		r.status = msg.Status
	}
	if msg.Version != "" {
		r.version = msg.Version
	}
	if msg.Detail != "" {
		r.detail = msg.Detail
	}
}

// View satisfies the tea.Model interface.
func (m ProgressModel) View() string {
	if m.done && m.err != nil {
		return fmt.Sprintf("error: %v\n", m.err)
	}

	var b strings.Builder
	header := []string{
		m.styles.Header.Render(pad("TOOL", toolWidth)),
		m.styles.Header.Render(pad("STATUS", statusWidth)),
		m.styles.Header.Render(pad("VERSION", versionWidth)),
		m.styles.Header.Render("DETAIL"),
	}
	b.WriteString(strings.Join(header, "  "))
	b.WriteByte('\n')

	for _, r := range m.rows {
		status := pad(r.status, statusWidth)
		fields := []string{
			pad(TruncateWithEllipsis(r.key, toolWidth), toolWidth),
			m.styles.Status(r.status).Render(status),
			pad(TruncateWithEllipsis(NonEmptyOrDash(r.version), versionWidth), versionWidth),
			TruncateWithEllipsis(r.detail, detailWidth),
		}
		b.WriteString(strings.TrimRight(strings.Join(fields, "  "), " "))
		b.WriteByte('\n')
	}

	if !m.done {
		finished, total := m.progressCounts()
		spinner := spinnerFrames[m.tick%len(spinnerFrames)]
		b.WriteByte('\n')
		b.WriteString(m.styles.Faint.Render(fmt.Sprintf("%s Installing %d/%d...", spinner, finished, total)))
		b.WriteByte('\n')
	}
	return b.String()
}

// progressCounts returns how many rows reached a terminal status.
func (m ProgressModel) progressCounts() (int, int) {
	finished := 0
	for _, r := range m.rows {
		if r.status == "installed" || r.status == "failed" {
			finished++
		}
	}
	return finished, len(m.rows)
}

// Done reports whether the program has finished.
func (m ProgressModel) Done() bool {
	return m.done
}

// Aborted reports whether the user quit before the work finished.
func (m ProgressModel) Aborted() bool {
	return m.aborted
}

// Err returns the error that aborted the display, if any.
func (m ProgressModel) Err() error {
	return m.err
}

// pad right-fills s with spaces to width terminal cells.
func pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// NonEmptyOrDash returns "-" for blank values.
func NonEmptyOrDash(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}
	return value
}

// TruncateWithEllipsis shortens value to max terminal cells, ending in "..."
// when cut. Runes are never split.
func TruncateWithEllipsis(value string, max int) string {
	if max <= 0 {
		return ""
	}
	value = strings.TrimSpace(value)
	if lipgloss.Width(value) <= max {
		return value
	}
	tail := "..."
	if max <= len(tail) {
		tail = ""
	}
	limit := max - len(tail)

	var b strings.Builder
	width := 0
	for _, r := range value {
		w := lipgloss.Width(string(r))
		if width+w > limit {
			break
		}
		b.WriteRune(r)
		width += w
	}
	return b.String() + tail
}
