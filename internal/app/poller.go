package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Rainyan/discord-bot-ntpug/internal/domain/events"
	"github.com/Rainyan/discord-bot-ntpug/internal/pug"
)

// reloaded tracks guilds whose queue has already been rebuilt from
// channel history since this process started.
var reloaded sync.Map

// RunQueuePoll drives the main queue loop: reconcile state on first
// sight of a guild, start the PUG once the queue fills, and otherwise
// keep presence fresh and fire the pugger role ping when warranted.
func (b *Bot) RunQueuePoll(ctx context.Context) {
	ticker := time.NewTicker(b.Cfg.PollingInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.pollGuilds(ctx)
		}
	}
}

func (b *Bot) pollGuilds(ctx context.Context) {
	for _, g := range b.Sess.State.Guilds {
		channelID, ok := b.pugChannel(g.ID)
		if !ok {
			continue
		}
		b.pollGuild(ctx, g.ID, channelID)
	}
}

func (b *Bot) pollGuild(ctx context.Context, guildID, channelID string) {
	st := b.Reg.Get(guildID)
	log := logrus.WithField("guild", guildID)

	if _, seen := reloaded.Load(guildID); !seen {
		since := time.Now().Add(-b.Cfg.IdleThreshold())
		if err := st.ReloadPuggers(ctx, b.history(guildID, channelID), since); err != nil {
			log.WithError(err).Warn("queue reload failed, retrying next poll")
			return
		}
		reloaded.Store(guildID, struct{}{})
		log.WithField("queued", st.NumQueued()).Info("queue rebuilt from channel history")
		events.Publish(events.RosterChanged{
			GuildID:     guildID,
			NumQueued:   st.NumQueued(),
			NumExpected: st.NumExpected(),
		})
	}

	if st.IsFull() {
		b.startPug(ctx, st, guildID, channelID)
		return
	}

	b.Presence.Update(st.NumMoreNeeded())

	pinged, err := st.PingRole(ctx, b.history(guildID, channelID), b.notifier(guildID, channelID))
	if err != nil {
		log.WithError(err).Warn("role ping failed")
	} else if pinged {
		events.Publish(events.RolePinged{GuildID: guildID})
	}
}

func (b *Bot) startPug(ctx context.Context, st *pug.PugStatus, guildID, channelID string) {
	log := logrus.WithField("guild", guildID)

	msg, err := st.StartPug()
	if err != nil {
		log.WithError(err).Error("refusing to start PUG")
		return
	}
	numPlayers := st.NumQueued()

	// Announce first; the announcement doubles as the reset marker the
	// history replay keys off, so only clear once it actually landed.
	if err := b.notifier(guildID, channelID).Send(ctx, msg); err != nil {
		log.WithError(err).Error("PUG announcement failed, keeping queue")
		return
	}
	st.Reset()
	b.Presence.Force(st.NumMoreNeeded())

	events.Publish(events.PugReady{GuildID: guildID, ChannelID: channelID, NumPlayers: numPlayers})
	events.Publish(events.RosterChanged{
		GuildID:     guildID,
		NumQueued:   st.NumQueued(),
		NumExpected: st.NumExpected(),
	})
}

// RunIdleSweep periodically re-runs the history reconciliation so that
// players who queued and then went silent for the idle threshold get
// dropped even while the process stays up.
func (b *Bot) RunIdleSweep(ctx context.Context) {
	ticker := time.NewTicker(b.Cfg.IdleThreshold() / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.sweepGuilds(ctx)
		}
	}
}

func (b *Bot) sweepGuilds(ctx context.Context) {
	for _, guildID := range b.Reg.GuildIDs() {
		st, ok := b.Reg.Lookup(guildID)
		if !ok || st.IsFull() {
			// A full queue is about to start; do not yank players now.
			continue
		}
		channelID, ok := b.pugChannel(guildID)
		if !ok {
			continue
		}
		before := st.NumQueued()
		since := time.Now().Add(-b.Cfg.IdleThreshold())
		if err := st.ReloadPuggers(ctx, b.history(guildID, channelID), since); err != nil {
			logrus.WithError(err).WithField("guild", guildID).Warn("idle sweep reload failed")
			continue
		}
		if dropped := before - st.NumQueued(); dropped > 0 {
			b.say(channelID, fmt.Sprintf(
				"Removed %d inactive pugger(s) from the queue (%d / %d)",
				dropped, st.NumQueued(), st.NumExpected()))
			events.Publish(events.RosterChanged{
				GuildID:     guildID,
				NumQueued:   st.NumQueued(),
				NumExpected: st.NumExpected(),
			})
		}
	}
}
