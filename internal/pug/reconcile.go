// Package pug - reconcile.go
// Rebuilds queue membership by replaying the channel's recent command
// traffic. Used both for restoring puggers after a restart and for
// dropping idle players: replaying only events newer than the idle
// threshold makes anyone without recent activity simply fall outside
// the window.
package pug

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Marker fragments of the bot's own public confirmations. Replay leans
// on these because slash command invocations never show up in channel
// history, only the bot's responses to them do.
const (
	JoinMarker        = "has joined the PUG queue"
	LeaveMarker       = "has left the PUG queue"
	resetMarkerSuffix = "has reset the PUG queue"
)

// joinedPlayer returns the player a join event refers to: the author of
// a legacy prefix command, or the first mention of a bot confirmation.
func (ps *PugStatus) joinedPlayer(ev Event) (Player, bool) {
	if !ev.IsBot && ev.Body == ps.opts.CommandPrefix+"pug" {
		return ev.Author, true
	}
	if ev.IsBot && strings.Contains(ev.Body, JoinMarker) && len(ev.Mentions) > 0 {
		return ev.Mentions[0], true
	}
	return Player{}, false
}

func (ps *PugStatus) leftPlayer(ev Event) (Player, bool) {
	if !ev.IsBot && ev.Body == ps.opts.CommandPrefix+"unpug" {
		return ev.Author, true
	}
	if ev.IsBot && strings.Contains(ev.Body, LeaveMarker) && len(ev.Mentions) > 0 {
		return ev.Mentions[0], true
	}
	return Player{}, false
}

// isResetMarker matches the bot-authored messages that signal the queue
// was emptied: either an explicit clear, or a PUG start announcement.
func isResetMarker(ev Event) bool {
	return ev.IsBot &&
		(strings.HasSuffix(ev.Body, resetMarkerSuffix) ||
			strings.HasPrefix(ev.Body, PugReadyTitle))
}

// ReloadPuggers replays the event log from since onwards to figure out
// who should be queued. The current rosters are backed up first; if the
// log read fails transiently the backup is restored in full, so a
// partial replay is never left in place, and the error is re-signaled
// for the periodic task to retry on its next tick.
func (ps *PugStatus) ReloadPuggers(ctx context.Context, reader EventLogReader, since time.Time) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	backup1 := append([]Player(nil), ps.team1...)
	backup2 := append([]Player(nil), ps.team2...)
	backupPrev := append([]Player(nil), ps.prevPuggers...)

	events, err := reader.ReadEvents(ctx, since)
	if err != nil {
		ps.team1 = backup1
		ps.team2 = backup2
		ps.prevPuggers = backupPrev
		return err
	}

	ps.resetLocked()
	for _, ev := range events {
		if isResetMarker(ev) {
			ps.resetLocked()
			continue
		}
		if p, ok := ps.joinedPlayer(ev); ok {
			// Duplicate joins and joins past capacity are expected in
			// raw history; replay just skips them.
			_ = ps.joinLocked(p, NoPreference)
			continue
		}
		if p, ok := ps.leftPlayer(ev); ok {
			_ = ps.leaveLocked(p)
		}
	}

	logrus.WithFields(logrus.Fields{
		"guild":  ps.guildID,
		"since":  since,
		"events": len(events),
		"queued": len(ps.team1) + len(ps.team2),
	}).Debug("reloaded puggers from event log")
	return nil
}
