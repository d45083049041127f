// internal/app/handlers.go
// Legacy prefix command support. The queue commands still work with the
// "!" prefix so old muscle memory (and old channel history) stays
// meaningful; everything else nudges users toward the slash commands.
package app

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"github.com/Rainyan/discord-bot-ntpug/internal/domain/events"
	"github.com/Rainyan/discord-bot-ntpug/internal/pug"
)

const commandPrefix = "!"

func (b *Bot) HandleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Testing the prefix first lets us drop most chat traffic without
	// touching any other code path.
	if m.Author == nil || m.Author.Bot || !strings.HasPrefix(m.Content, commandPrefix) {
		return
	}
	if m.GuildID == "" || !b.isPugChannel(m.GuildID, m.ChannelID) {
		return
	}

	switch m.Content {
	case commandPrefix + "ping":
		b.say(m.ChannelID, fmt.Sprintf("%s pong", m.Author.Mention()))
	case commandPrefix + "pug":
		b.prefixJoin(m)
	case commandPrefix + "unpug":
		b.prefixLeave(m)
	case commandPrefix + "puggers", commandPrefix + "clearpuggers",
		commandPrefix + "scramble", commandPrefix + "ping_puggers",
		commandPrefix + "help":
		b.say(m.ChannelID, fmt.Sprintf(
			"%s I am migrating to the Discord slash command syntax; "+
				"please use the new `/%s` command, instead!",
			m.Author.Mention(), strings.TrimPrefix(m.Content, commandPrefix)))
	}
}

func (b *Bot) prefixJoin(m *discordgo.MessageCreate) {
	st := b.Reg.Get(m.GuildID)
	p := pug.Player{ID: m.Author.ID, Name: m.Author.Username}

	switch err := st.PlayerJoin(p, pug.NoPreference); err {
	case nil:
		b.say(m.ChannelID, fmt.Sprintf("%s %s (%d / %d)",
			m.Author.Mention(), pug.JoinMarker, st.NumQueued(), st.NumExpected()))
		events.Publish(events.RosterChanged{
			GuildID:     m.GuildID,
			NumQueued:   st.NumQueued(),
			NumExpected: st.NumExpected(),
		})
	case pug.ErrAlreadyQueued:
		b.say(m.ChannelID, fmt.Sprintf(
			"%s You are already queued! If you wanted to un-PUG, please use `!unpug` instead.",
			m.Author.Mention()))
	case pug.ErrQueueFull:
		b.say(m.ChannelID, fmt.Sprintf("%s Sorry, this PUG is currently full!",
			m.Author.Mention()))
	default:
		logrus.WithError(err).Error("prefix join failed")
	}
}

func (b *Bot) prefixLeave(m *discordgo.MessageCreate) {
	st := b.Reg.Get(m.GuildID)
	p := pug.Player{ID: m.Author.ID, Name: m.Author.Username}

	switch err := st.PlayerLeave(p); err {
	case nil:
		b.say(m.ChannelID, fmt.Sprintf("%s %s (%d / %d)",
			m.Author.Mention(), pug.LeaveMarker, st.NumQueued(), st.NumExpected()))
		events.Publish(events.RosterChanged{
			GuildID:     m.GuildID,
			NumQueued:   st.NumQueued(),
			NumExpected: st.NumExpected(),
		})
	case pug.ErrNotQueued:
		b.say(m.ChannelID, fmt.Sprintf("%s You are not currently in the PUG queue",
			m.Author.Mention()))
	default:
		logrus.WithError(err).Error("prefix leave failed")
	}
}

func (b *Bot) say(channelID, msg string) {
	if _, err := b.Sess.ChannelMessageSend(channelID, msg); err != nil {
		logrus.WithError(err).Error("channel send failed")
	}
}
