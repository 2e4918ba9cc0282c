package tui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"toolenv/internal/installer"
)

func newTestModel(reqs ...string) ProgressModel {
	return NewProgressModel(NewStyles(&bytes.Buffer{}), reqs)
}

func TestRowUpdateMsg(t *testing.T) {
	m := newTestModel("black", "ruff==0.3.4")

	updated, _ := m.Update(RowUpdateMsg{Key: "black", Status: "installed", Version: "24.2.0"})
	m = updated.(ProgressModel)

	if m.rows[0].status != "installed" || m.rows[0].version != "24.2.0" {
		t.Errorf("unexpected first row %+v", m.rows[0])
	}
	if m.rows[1].status != "pending" {
		t.Errorf("expected second row pending, got %q", m.rows[1].status)
	}
}

func TestRowUpdateKeepsEarlierFields(t *testing.T) {
	m := newTestModel("black")
	updated, _ := m.Update(RowUpdateMsg{Key: "black", Status: "linking", Version: "24.2.0"})
	updated, _ = updated.(ProgressModel).Update(RowUpdateMsg{Key: "black", Status: "installed"})
	m = updated.(ProgressModel)

	if m.rows[0].version != "24.2.0" {
		t.Errorf("version lost on later update: %+v", m.rows[0])
	}
}

func TestRowUpdateUnknownKey(t *testing.T) {
	m := newTestModel("black")
	updated, _ := m.Update(RowUpdateMsg{Key: "ruff", Status: "installed"})
	m = updated.(ProgressModel)

	if m.rows[0].status != "pending" {
		t.Errorf("expected status unchanged, got %q", m.rows[0].status)
	}
}

func TestDuplicateRequirementsShareRow(t *testing.T) {
	m := newTestModel("black", "black")
	if len(m.rows) != 1 {
		t.Fatalf("expected one row, got %d", len(m.rows))
	}
}

func TestWorkDoneMsg(t *testing.T) {
	m := newTestModel("black")
	updated, cmd := m.Update(WorkDoneMsg{})
	m = updated.(ProgressModel)

	if !m.Done() {
		t.Error("expected done after WorkDoneMsg")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestErrorMsg(t *testing.T) {
	m := newTestModel("black")
	updated, _ := m.Update(ErrorMsg{Err: errors.New("boom")})
	m = updated.(ProgressModel)

	if !m.Done() || m.Err() == nil {
		t.Fatal("expected done with error")
	}
	if got := m.View(); got != "error: boom\n" {
		t.Errorf("unexpected error view %q", got)
	}
}

func TestView(t *testing.T) {
	m := newTestModel("black", "nonexistent-tool")
	updated, _ := m.Update(RowUpdateMsg{Key: "black", Status: "installed", Version: "24.2.0"})
	updated, _ = updated.(ProgressModel).Update(RowUpdateMsg{Key: "nonexistent-tool", Status: "failed", Detail: "no matching distribution"})
	m = updated.(ProgressModel)

	view := m.View()
	for _, want := range []string{"TOOL", "STATUS", "VERSION", "DETAIL", "24.2.0", "no matching distribution", "Installing 2/2"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestViewHidesSpinnerWhenDone(t *testing.T) {
	m := newTestModel("black")
	updated, _ := m.Update(WorkDoneMsg{})
	view := updated.(ProgressModel).View()
	if strings.Contains(view, "Installing") {
		t.Errorf("spinner footer shown after completion:\n%s", view)
	}
	if !strings.Contains(view, "pending") {
		t.Errorf("expected pending row:\n%s", view)
	}
}

func TestTickStopsAfterDone(t *testing.T) {
	m := newTestModel("black")
	updated, cmd := m.Update(tickMsg{})
	if cmd == nil {
		t.Fatal("expected another tick while running")
	}
	updated, _ = updated.(ProgressModel).Update(WorkDoneMsg{})
	if _, cmd = updated.(ProgressModel).Update(tickMsg{}); cmd != nil {
		t.Error("expected ticking to stop once done")
	}
}

func TestCtrlC(t *testing.T) {
	m := newTestModel("black")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !updated.(ProgressModel).Done() || cmd == nil {
		t.Error("expected ctrl+c to quit")
	}
	if !updated.(ProgressModel).Aborted() {
		t.Error("expected ctrl+c to mark the display aborted")
	}

	finished, _ := m.Update(WorkDoneMsg{})
	if finished.(ProgressModel).Aborted() {
		t.Error("finished work must not count as aborted")
	}
}

func TestNonEmptyOrDash(t *testing.T) {
	if NonEmptyOrDash("  ") != "-" || NonEmptyOrDash("1.0") != "1.0" {
		t.Fatal("unexpected NonEmptyOrDash result")
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, ""},
		{"ünïcödé-tööl", 8, "ünïcö..."},
		{"日本語ツール", 7, "日本..."},
		{"日本語", 3, "日"},
	}
	for _, tt := range tests {
		if got := TruncateWithEllipsis(tt.in, tt.max); got != tt.want {
			t.Errorf("TruncateWithEllipsis(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestPadCountsCells(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"ab", 4, "ab  "},
		{"ü", 3, "ü  "},
		{"日", 4, "日  "},
		{"toolong", 3, "toolong"},
	}
	for _, tt := range tests {
		if got := pad(tt.in, tt.width); got != tt.want {
			t.Errorf("pad(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestViewAlignsNonASCIIRows(t *testing.T) {
	m := newTestModel("black", "ünïcödé")
	updated, _ := m.Update(RowUpdateMsg{Key: "black", Status: "installed", Version: "24.2.0"})
	updated, _ = updated.Update(RowUpdateMsg{Key: "ünïcödé", Status: "installed", Version: "1.0"})
	updated, _ = updated.Update(WorkDoneMsg{})

	lines := strings.Split(strings.TrimRight(updated.(ProgressModel).View(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %q", lines)
	}
	col := toolWidth + 2
	for _, line := range lines[1:] {
		runes := []rune(line)
		if len(runes) < col || string(runes[col:col+len("installed")]) != "installed" {
			t.Fatalf("status column misaligned in %q", line)
		}
	}
}

func TestProgramReporter(t *testing.T) {
	var sent []tea.Msg
	r := NewProgramReporter(func(msg tea.Msg) { sent = append(sent, msg) })
	r.Stage("black", installer.StageLinking, "24.2.0")
	r.Stage("ruff", installer.StageFailed, "boom")

	first := sent[0].(RowUpdateMsg)
	if first.Status != "linking" || first.Version != "24.2.0" {
		t.Errorf("unexpected linking message %+v", first)
	}
	second := sent[1].(RowUpdateMsg)
	if second.Status != "failed" || second.Detail != "boom" || second.Version != "" {
		t.Errorf("unexpected failure message %+v", second)
	}
}

func TestLineReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewLineReporter(&buf, NewStyles(&buf))
	r.Stage("black", installer.StageCreating, "")
	r.Stage("black", installer.StageInstalled, "24.2.0")
	r.Stage("nonexistent-tool", installer.StageFailed, "no matching distribution")

	want := "installed black v24.2.0\nfailed nonexistent-tool: no matching distribution\n"
	if buf.String() != want {
		t.Errorf("unexpected output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestDetectMode(t *testing.T) {
	getenv := func(string) string { return "xterm" }
	if got := DetectMode(&bytes.Buffer{}, true, getenv); got != ModeJSON {
		t.Errorf("expected ModeJSON, got %v", got)
	}
	if got := DetectMode(&bytes.Buffer{}, false, getenv); got != ModePlain {
		t.Errorf("expected ModePlain for buffer, got %v", got)
	}
}
