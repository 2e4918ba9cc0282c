package listing

import "fmt"

// Kind classifies why an environment was left out of the listing.
type Kind string

const (
	MissingReceipt    Kind = "missing_receipt"
	MalformedReceipt  Kind = "malformed_receipt"
	BrokenInterpreter Kind = "broken_interpreter"
)

// Diagnostic describes one excluded environment.
type Diagnostic struct {
	Kind Kind
	Tool string
	// Path is the interpreter location that was checked; set for
	// BrokenInterpreter only.
	Path string
	Err  error
}

// Message renders the user-facing line for the diagnostic.
func (d Diagnostic) Message() string {
	switch d.Kind {
	case MissingReceipt:
		return fmt.Sprintf("ignoring malformed tool `%s`: missing receipt", d.Tool)
	case MalformedReceipt:
		return fmt.Sprintf("ignoring malformed tool `%s`: invalid receipt", d.Tool)
	case BrokenInterpreter:
		return fmt.Sprintf("python interpreter not found at `%s`", d.Path)
	default:
		return fmt.Sprintf("ignoring tool `%s`", d.Tool)
	}
}

// IsReceiptProblem reports whether the entry was rejected for its receipt,
// which is rendered as a warning about a malformed tool.
func (d Diagnostic) IsReceiptProblem() bool {
	return d.Kind == MissingReceipt || d.Kind == MalformedReceipt
}
