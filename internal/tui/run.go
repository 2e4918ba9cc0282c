package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrInterrupted is returned when the user quits the display before the work
// has finished.
var ErrInterrupted = errors.New("install interrupted")

// startDelay gives the event loop a moment to draw the pending rows.
const startDelay = 50 * time.Millisecond

type program interface {
	Run() (tea.Model, error)
	Send(msg tea.Msg)
}

// RunWithWork starts a bubbletea program on out, runs workFn in the
// background and blocks until both have finished. workFn sends row updates
// through send; WorkDoneMsg is sent for it when it returns. Quitting early
// cancels the ctx handed to workFn, waits for it to return and reports
// ErrInterrupted.
func RunWithWork(ctx context.Context, out io.Writer, model ProgressModel, workFn func(ctx context.Context, send func(tea.Msg))) error {
	return runWithWork(ctx, tea.NewProgram(model, tea.WithOutput(out)), workFn)
}

func runWithWork(ctx context.Context, p program, workFn func(ctx context.Context, send func(tea.Msg))) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				p.Send(ErrorMsg{Err: fmt.Errorf("install worker panicked: %v", r)})
			}
		}()

		select {
		case <-ctx.Done():
			p.Send(ErrorMsg{Err: ctx.Err()})
			return
		case <-time.After(startDelay):
		}
		workFn(ctx, p.Send)
		p.Send(WorkDoneMsg{})
	}()

	final, err := p.Run()
	cancel()
	<-done
	if err != nil {
		return err
	}
	m, ok := final.(ProgressModel)
	if !ok {
		return nil
	}
	if m.Aborted() {
		return ErrInterrupted
	}
	return m.Err()
}
