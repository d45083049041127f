// internal/app/router.go
// Slash command handlers. All queue semantics live in internal/pug;
// this layer only translates interactions into operations and outcomes
// into channel text.
package app

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	d "github.com/Rainyan/discord-bot-ntpug/internal/adapters/discord"
	"github.com/Rainyan/discord-bot-ntpug/internal/domain/events"
	"github.com/Rainyan/discord-bot-ntpug/internal/pug"
)

// pingPuggersAt tracks the per-user /ping_puggers cooldown.
var pingPuggersAt sync.Map // userID -> time.Time

func (b *Bot) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	u := d.UserOf(i)
	name := i.ApplicationCommandData().Name
	logrus.WithFields(logrus.Fields{
		"command": name,
		"guild":   i.GuildID,
		"user":    d.SafeName(u),
	}).Debug("slash command")

	switch name {
	case "ping":
		_ = d.SendEphemeral(s, i, "pong")
	case "pug":
		b.handlePug(s, i)
	case "unpug":
		b.handleUnpug(s, i)
	case "puggers":
		b.handlePuggers(s, i)
	case "clearpuggers":
		b.handleClearPuggers(s, i)
	case "scramble":
		b.handleScramble(s, i)
	case "ping_puggers":
		b.handlePingPuggers(s, i)
	}
}

// requirePugChannel gates a command to the configured PUG channel.
func (b *Bot) requirePugChannel(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if i.GuildID == "" || !b.isPugChannel(i.GuildID, i.ChannelID) {
		_ = d.SendEphemeral(s, i, fmt.Sprintf(
			"Sorry, this command can only be used on the channel: _%s_",
			b.Cfg.PugChannel))
		return false
	}
	return true
}

func playerOf(u *discordgo.User) pug.Player {
	return pug.Player{ID: u.ID, Name: u.Username}
}

func (b *Bot) handlePug(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.requirePugChannel(s, i) {
		return
	}
	u := d.UserOf(i)
	if u == nil {
		_ = d.SendEphemeral(s, i, "Could not identify you.")
		return
	}
	st := b.Reg.Get(i.GuildID)

	err := st.PlayerJoin(playerOf(u), pug.NoPreference)
	switch {
	case errors.Is(err, pug.ErrAlreadyQueued):
		_ = d.SendEphemeral(s, i, fmt.Sprintf(
			"%s You are already queued! If you wanted to un-PUG, please use `/unpug` instead.",
			u.Mention()))
		return
	case errors.Is(err, pug.ErrQueueFull):
		_ = d.SendEphemeral(s, i, fmt.Sprintf(
			"%s Sorry, this PUG is currently full!", u.Mention()))
		return
	case err != nil:
		_ = d.SendEphemeral(s, i, "Something went wrong, please try again.")
		logrus.WithError(err).Error("pug join failed")
		return
	}

	// Public on purpose: the join confirmation doubles as the replayable
	// event the history reconciliation rebuilds the queue from.
	_ = d.SendResponse(s, i, fmt.Sprintf("%s %s (%d / %d)",
		u.Mention(), pug.JoinMarker, st.NumQueued(), st.NumExpected()))
	events.Publish(events.RosterChanged{
		GuildID:     i.GuildID,
		NumQueued:   st.NumQueued(),
		NumExpected: st.NumExpected(),
	})
}

func (b *Bot) handleUnpug(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.requirePugChannel(s, i) {
		return
	}
	u := d.UserOf(i)
	if u == nil {
		_ = d.SendEphemeral(s, i, "Could not identify you.")
		return
	}
	st := b.Reg.Get(i.GuildID)

	if err := st.PlayerLeave(playerOf(u)); err != nil {
		if errors.Is(err, pug.ErrNotQueued) {
			_ = d.SendEphemeral(s, i, fmt.Sprintf(
				"%s You are not currently in the PUG queue", u.Mention()))
			return
		}
		_ = d.SendEphemeral(s, i, "Something went wrong, please try again.")
		logrus.WithError(err).Error("pug leave failed")
		return
	}

	// Public for the same replay reason as the join confirmation.
	_ = d.SendResponse(s, i, fmt.Sprintf("%s %s (%d / %d)",
		u.Mention(), pug.LeaveMarker, st.NumQueued(), st.NumExpected()))
	events.Publish(events.RosterChanged{
		GuildID:     i.GuildID,
		NumQueued:   st.NumQueued(),
		NumExpected: st.NumExpected(),
	})
}

func (b *Bot) handlePuggers(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		_ = d.SendEphemeral(s, i, "This command only works on a server.")
		return
	}
	st := b.Reg.Get(i.GuildID)

	msg := fmt.Sprintf("%d / %d player(s) currently queued",
		st.NumQueued(), st.NumExpected())
	if queued := st.Queued(); len(queued) > 0 {
		names := make([]string, len(queued))
		for idx, p := range queued {
			names[idx] = p.Name
		}
		msg += ": " + strings.Join(names, ", ")
	}
	// Respond ephemerally outside the PUG channel to avoid spamming
	// unrelated channels with roster listings.
	ephemeral := !b.isPugChannel(i.GuildID, i.ChannelID) || b.Cfg.EphemeralMessages
	_ = d.Respond(s, i, msg, ephemeral)
}

func (b *Bot) handleClearPuggers(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.requirePugChannel(s, i) {
		return
	}
	u := d.UserOf(i)

	// If zero admin roles are configured, anyone may clear the queue.
	allowed := len(b.Cfg.PugAdminRoles) == 0 ||
		d.MemberHasAnyRole(s, i.GuildID, i.Member, b.Cfg.PugAdminRoles)
	if !allowed {
		_ = d.SendEphemeral(s, i, fmt.Sprintf(
			"%s The PUG queue can only be reset by users with role(s): _%s_",
			u.Mention(), strings.Join(b.Cfg.PugAdminRoles, ", ")))
		return
	}

	st := b.Reg.Get(i.GuildID)
	st.Reset()
	// The exact wording is the reset marker the history replay detects.
	_ = d.SendResponse(s, i, fmt.Sprintf("%s has reset the PUG queue", d.SafeName(u)))
	events.Publish(events.QueueCleared{GuildID: i.GuildID, By: d.SafeName(u)})
	events.Publish(events.RosterChanged{
		GuildID:     i.GuildID,
		NumQueued:   0,
		NumExpected: st.NumExpected(),
	})
}

func (b *Bot) handleScramble(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.requirePugChannel(s, i) {
		return
	}
	u := d.UserOf(i)
	st := b.Reg.Get(i.GuildID)

	msg, err := st.Scramble(d.SafeName(u))
	if err != nil {
		if errors.Is(err, pug.ErrNoPreviousRoster) {
			_ = d.SendEphemeral(s, i, fmt.Sprintf(
				"%s Sorry, no previous PUG found to scramble", u.Mention()))
			return
		}
		_ = d.SendEphemeral(s, i, "Something went wrong, please try again.")
		logrus.WithError(err).Error("scramble failed")
		return
	}
	_ = d.SendResponse(s, i, msg)
}

func (b *Bot) handlePingPuggers(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.requirePugChannel(s, i) {
		return
	}
	u := d.UserOf(i)
	if u == nil {
		_ = d.SendEphemeral(s, i, "Could not identify you.")
		return
	}
	st := b.Reg.Get(i.GuildID)

	isAdmin := d.MemberHasAnyRole(s, i.GuildID, i.Member, b.Cfg.PugAdminRoles)

	// Only admins and queued players themselves may ping the queue.
	if !isAdmin && !st.IsQueued(playerOf(u)) {
		if st.NumQueued() == 0 {
			_ = d.SendEphemeral(s, i, fmt.Sprintf(
				"%s PUG queue is currently empty.", u.Mention()))
		} else {
			_ = d.SendEphemeral(s, i, fmt.Sprintf(
				"%s Sorry, to be able to ping the PUG queue, you have to be "+
					"queued yourself, or have the role(s): _%s_",
				u.Mention(), strings.Join(b.Cfg.PugAdminRoles, ", ")))
		}
		return
	}

	// Pinging others makes no sense if you're the only one queued.
	if st.NumQueued() <= 1 {
		_ = d.SendEphemeral(s, i, fmt.Sprintf(
			"%s There are no other players in the queue to ping!", u.Mention()))
		return
	}

	// Admin pings bypass the per-user cooldown.
	if !isAdmin {
		if wait, ok := pingPuggersCooldownLeft(u.ID, b.Cfg.PingPuggersCooldown()); ok {
			_ = d.SendEphemeral(s, i, fmt.Sprintf(
				"%s You're doing it too much! Please wait %s before trying again.",
				u.Mention(), wait.Round(time.Second)))
			return
		}
	}

	var mentions []string
	for _, p := range st.Queued() {
		if p.ID != u.ID {
			mentions = append(mentions, p.Mention())
		}
	}
	text := optionValue(i, "message")
	text = strings.ReplaceAll(text, "`", "")
	msg := fmt.Sprintf("%s User %s is pinging the PUG queue with message:\n```%s```",
		strings.Join(mentions, ", "), u.Mention(), text)
	_ = d.SendResponse(s, i, msg)

	if !isAdmin {
		pingPuggersAt.Store(u.ID, time.Now())
	}
}

// pingPuggersCooldownLeft reports the remaining cooldown, if any.
func pingPuggersCooldownLeft(userID string, cooldown time.Duration) (time.Duration, bool) {
	if cooldown <= 0 {
		return 0, false
	}
	if v, ok := pingPuggersAt.Load(userID); ok {
		if since := time.Since(v.(time.Time)); since < cooldown {
			return cooldown - since, true
		}
	}
	return 0, false
}

func optionValue(i *discordgo.InteractionCreate, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}
