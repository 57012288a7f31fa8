package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrTooManyAttempts is returned when widget data stays invalid after
	// the configured number of edit rounds.
	ErrTooManyAttempts = errors.New("prompt: too many invalid attempts")
)
