package tui

// RowUpdateMsg moves one install row to a new status. Empty Version or
// Detail leave the previous value in place.
type RowUpdateMsg struct {
	Key     string
	Status  string
	Version string
	Detail  string
}

// WorkDoneMsg signals that every queued install has finished.
type WorkDoneMsg struct{}

// ErrorMsg aborts the display, for instance when the worker panics.
type ErrorMsg struct {
	Err error
}
