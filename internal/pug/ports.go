// Package pug - ports.go
// Interfaces for the external collaborators the queue core calls out to.
// Implemented by internal/adapters/discord for production use, and by
// in-memory fakes in the tests.
package pug

import (
	"context"
	"time"
)

// Event is one entry of the external event log (in practice, one chat
// message in the PUG channel).
type Event struct {
	Author       Player
	Body         string
	Timestamp    time.Time
	IsBot        bool     // authored by a bot (system marker messages)
	Mentions     []Player // users mentioned in the body
	RoleMentions []string // names of server roles mentioned in the body
}

// EventLogReader reads the event log in chronological (oldest first)
// order, bounded to entries newer than since.
type EventLogReader interface {
	ReadEvents(ctx context.Context, since time.Time) ([]Event, error)
}

// Notifier delivers a message to the queue's channel.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// RoleNotifier additionally resolves a server role's mention text, for
// broadcasts that ping a wider audience than the queued players.
type RoleNotifier interface {
	Notifier
	// RoleMention returns the mention string for the named role, or
	// ok=false if the role does not exist on the server.
	RoleMention(name string) (mention string, ok bool)
}

// Clock abstracts time.Now for cooldown and idle-window computations.
type Clock interface {
	Now() time.Time
}

// SystemClock is the Clock used outside tests.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
