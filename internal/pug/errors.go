// Package pug - errors.go
// Centralized, comparable error values used across the queue logic.
package pug

// pugerr is a lightweight comparable error type.
// Using constants of this type allows errors.Is to work as expected.
type pugerr string

func (e pugerr) Error() string { return string(e) }

var (
	// ErrAlreadyQueued is returned when a player tries to join while
	// already waiting in either team.
	ErrAlreadyQueued = pugerr("player is already queued")
	// ErrNotQueued is returned for a leave of a player who isn't queued.
	ErrNotQueued = pugerr("player is not in the queue")
	// ErrQueueFull is returned when both teams are at capacity.
	ErrQueueFull = pugerr("queue is full")
	// ErrNoPreviousRoster is returned when scrambling without a stored
	// roster from an earlier full queue.
	ErrNoPreviousRoster = pugerr("no previous roster to scramble")
	// ErrEmptyTeam is returned by StartPug if either team ended up empty.
	// Should be unreachable as long as the capacity bookkeeping holds.
	ErrEmptyTeam = pugerr("team was empty")
)
