package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoActions is returned by Interact when the field offers nothing to
	// choose from (read-only, or creation is not permitted).
	ErrNoActions = errors.New("tui: field offers no actions")
	// ErrCreateRequired is returned when a create or replace is chosen but no
	// CreateFunc was supplied.
	ErrCreateRequired = errors.New("tui: create function is required")
)
