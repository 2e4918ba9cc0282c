package tui

import (
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"toolenv/internal/installer"
)

// ProgramReporter forwards install stages to a running ProgressModel.
type ProgramReporter struct {
	send func(tea.Msg)
}

// NewProgramReporter wraps a tea send function.
func NewProgramReporter(send func(tea.Msg)) *ProgramReporter {
	return &ProgramReporter{send: send}
}

// Stage implements installer.Reporter.
func (r *ProgramReporter) Stage(requirement string, stage installer.Stage, detail string) {
	msg := RowUpdateMsg{Key: requirement, Status: string(stage)}
	switch stage {
	case installer.StageLinking, installer.StageInstalled:
		msg.Version = detail
	case installer.StageFailed:
		msg.Detail = detail
	}
	r.send(msg)
}

// LineReporter prints one line per finished install. Intermediate stages
// are dropped so redirected output stays short.
type LineReporter struct {
	mu     sync.Mutex
	w      io.Writer
	styles Styles
}

// NewLineReporter writes to w.
func NewLineReporter(w io.Writer, styles Styles) *LineReporter {
	return &LineReporter{w: w, styles: styles}
}

// Stage implements installer.Reporter.
func (r *LineReporter) Stage(requirement string, stage installer.Stage, detail string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch stage {
	case installer.StageInstalled:
		fmt.Fprintf(r.w, "%s %s v%s\n", r.styles.Status("installed").Render("installed"), requirement, detail)
	case installer.StageFailed:
		fmt.Fprintf(r.w, "%s %s: %s\n", r.styles.Status("failed").Render("failed"), requirement, detail)
	}
}
