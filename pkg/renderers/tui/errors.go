package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrInvalid is returned when the filled form still fails validation.
	ErrInvalid = errors.New("tui: form is invalid")
	// ErrUnknownFormat is returned for an unsupported output format.
	ErrUnknownFormat = errors.New("tui: unknown output format")
)
