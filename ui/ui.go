// Package ui is the only place safeops commands print from. TerminalUI
// writes to a terminal, RecordingUI captures calls for tests.
package ui

// UI is what commands print and prompt through.
type UI interface {
	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)

	// Section prints a titled separator, e.g. "===== Owners =====".
	Section(title string)

	// KeyValue prints label/value pairs with the values aligned.
	KeyValue(rows [][2]string)

	// Table prints a bordered table. headers may be empty.
	Table(headers []string, rows [][]string)

	// JSON prints v indented, without colors.
	JSON(v any) error

	// Spinner shows msg until the returned func is called. It only animates
	// on a terminal.
	Spinner(msg string) func()

	// Confirm asks a yes/no question. An empty answer picks the default.
	Confirm(prompt string, defaultYes bool) bool

	// Indent returns a UI printing one level deeper.
	Indent() UI
}
