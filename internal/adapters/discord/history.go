// Package discord - history.go
// ChannelHistory adapts a guild channel's message history into the
// queue core's event log. The replay window can span thousands of
// messages on a busy channel, so reads paginate; that's acceptable
// because this only runs on startup and on the idle-sweep ticks.
package discord

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Rainyan/discord-bot-ntpug/internal/pug"
)

// discordEpochMS is the Discord snowflake epoch (first second of 2015).
const discordEpochMS = 1420070400000

const historyPageSize = 100

// ChannelHistory reads one guild channel as an ordered event log.
type ChannelHistory struct {
	sess      *discordgo.Session
	guildID   string
	channelID string
}

func NewChannelHistory(s *discordgo.Session, guildID, channelID string) *ChannelHistory {
	return &ChannelHistory{sess: s, guildID: guildID, channelID: channelID}
}

// ReadEvents returns every message newer than since, oldest first.
func (h *ChannelHistory) ReadEvents(ctx context.Context, since time.Time) ([]pug.Event, error) {
	roles, err := h.roleNames()
	if err != nil {
		return nil, err
	}

	var out []pug.Event
	afterID := timeToSnowflake(since)
	for {
		msgs, err := h.sess.ChannelMessages(h.channelID, historyPageSize,
			"", afterID, "", discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("channel history read: %w", err)
		}
		if len(msgs) == 0 {
			break
		}
		maxID := uint64(0)
		for _, m := range msgs {
			out = append(out, messageToEvent(m, roles))
			if id, err := strconv.ParseUint(m.ID, 10, 64); err == nil && id > maxID {
				maxID = id
			}
		}
		if len(msgs) < historyPageSize || maxID == 0 {
			break
		}
		afterID = strconv.FormatUint(maxID, 10)
	}

	// Page ordering differs between the before/after message endpoints;
	// normalize to chronological here.
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func messageToEvent(m *discordgo.Message, roles map[string]string) pug.Event {
	ev := pug.Event{
		Body:      m.Content,
		Timestamp: m.Timestamp,
	}
	if m.Author != nil {
		ev.Author = pug.Player{ID: m.Author.ID, Name: m.Author.Username}
		ev.IsBot = m.Author.Bot
	}
	for _, u := range m.Mentions {
		ev.Mentions = append(ev.Mentions, pug.Player{ID: u.ID, Name: u.Username})
	}
	for _, roleID := range m.MentionRoles {
		if name, ok := roles[roleID]; ok {
			ev.RoleMentions = append(ev.RoleMentions, name)
		}
	}
	return ev
}

// roleNames maps role id -> role name for the guild, preferring the
// session state cache over a REST round trip.
func (h *ChannelHistory) roleNames() (map[string]string, error) {
	guild, err := h.sess.State.Guild(h.guildID)
	if err != nil {
		guild, err = h.sess.Guild(h.guildID)
		if err != nil {
			return nil, fmt.Errorf("resolve guild %s: %w", h.guildID, err)
		}
	}
	names := make(map[string]string, len(guild.Roles))
	for _, r := range guild.Roles {
		names[r.ID] = r.Name
	}
	return names, nil
}

// timeToSnowflake converts a timestamp into a synthetic message id
// usable as an "after" pagination cursor.
func timeToSnowflake(t time.Time) string {
	ms := t.UnixMilli() - discordEpochMS
	if ms < 0 {
		ms = 0
	}
	return strconv.FormatUint(uint64(ms)<<22, 10)
}
