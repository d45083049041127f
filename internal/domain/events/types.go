// Package events - types.go
package events

// RosterChanged is emitted whenever a guild's queue membership changes
// through a join, leave or clear.
type RosterChanged struct {
	GuildID     string
	NumQueued   int
	NumExpected int
}

// PugReady is emitted when a full queue's match announcement went out.
type PugReady struct {
	GuildID    string
	ChannelID  string
	NumPlayers int
}

// QueueCleared is emitted on an explicit admin clear.
type QueueCleared struct {
	GuildID string
	By      string // display name of whoever cleared it
}

// RolePinged is emitted after a successful pugger role broadcast.
type RolePinged struct {
	GuildID string
}
