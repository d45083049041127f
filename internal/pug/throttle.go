// Package pug - throttle.go
// Rate limiting for the "come join the queue" role broadcast.
package pug

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// PingRole pings the configured pugger role if it's currently allowed:
// only while players are still needed, only once the queue has crossed
// the configured fill ratio, and at most once per cooldown window. The
// cooldown is measured from the most recent role mention found in the
// event log, with an in-memory fallback when the log read fails, so a
// flaky history fetch can only delay a ping, never duplicate one.
// Returns whether a broadcast actually went out.
func (ps *PugStatus) PingRole(ctx context.Context, reader EventLogReader, notifier RoleNotifier) (bool, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	needed := ps.numMoreNeededLocked()
	if needed == 0 {
		return false, nil
	}
	queued := len(ps.team1) + len(ps.team2)
	ratio := float64(queued) / float64(ps.opts.PlayersRequired)
	if ratio < ps.opts.PingThreshold {
		return false, nil
	}
	if ps.opts.RoleName == "" || ps.opts.PingMinInterval <= 0 {
		return false, nil
	}

	now := ps.opts.Clock.Now()
	since := now.Add(-ps.opts.PingMinInterval)
	if !ps.lastRolePing.IsZero() && ps.lastRolePing.After(since) {
		return false, nil
	}

	events, err := reader.ReadEvents(ctx, since)
	if err != nil {
		// The chat backend 5xx's often enough that this is routine: err
		// on the side of caution and treat it as a recent ping, the
		// next poll tick will try again.
		logrus.WithField("guild", ps.guildID).WithError(err).
			Warn("could not check role ping history, skipping ping")
		return false, nil
	}
	for _, ev := range events {
		if mentionsRole(ev, ps.opts.RoleName) {
			return false, nil
		}
	}

	mention, ok := notifier.RoleMention(ps.opts.RoleName)
	if !ok {
		return false, nil
	}
	msg := fmt.Sprintf("%s Need **%d more puggers** for a game!\n"+
		"_(This is an automatic ping to all puggers, because the PUG "+
		"queue is %.0f%% full.\nRest assured, I will only ping you once "+
		"per %s hours, at most.\nIf you don't want any of these "+
		"notifications, please consider temporarily muting this bot or "+
		"leaving the %s server role._)",
		mention, needed, ps.opts.PingThreshold*100,
		fmtHours(ps.opts.PingMinInterval), mention)
	if err := notifier.Send(ctx, msg); err != nil {
		return false, err
	}
	ps.lastRolePing = now
	return true, nil
}

func mentionsRole(ev Event, role string) bool {
	for _, r := range ev.RoleMentions {
		if r == role {
			return true
		}
	}
	return false
}

// fmtHours renders a duration as a short hour count: "8", "1.5", "0.2".
func fmtHours(d time.Duration) string {
	s := fmt.Sprintf("%.1f", d.Hours())
	s = strings.TrimSuffix(s, ".0")
	return s
}
