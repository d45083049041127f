// Package discord - helpers.go
// Small interaction-response helpers shared by the command handlers.
package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"
)

// SendResponse posts a normal (public) message as the interaction response.
func SendResponse(s *discordgo.Session, i *discordgo.InteractionCreate, msg string) error {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: msg},
	})
	if err != nil {
		logrus.WithError(err).Error("SendResponse failed")
	}
	return err
}

// SendEphemeral posts a message only visible to the user who interacted.
func SendEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, msg string) error {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logrus.WithError(err).Error("SendEphemeral failed")
	}
	return err
}

// Respond picks between SendResponse and SendEphemeral.
func Respond(s *discordgo.Session, i *discordgo.InteractionCreate, msg string, ephemeral bool) error {
	if ephemeral {
		return SendEphemeral(s, i, msg)
	}
	return SendResponse(s, i, msg)
}

// UserOf extracts the effective user from an interaction (guild or DM).
func UserOf(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// SafeName never returns an empty display name.
func SafeName(u *discordgo.User) string {
	if u == nil {
		return "unknown"
	}
	return u.Username
}

// MemberHasAnyRole reports whether the member holds any of the named
// guild roles. An empty allowlist matches nobody; callers decide what
// that means.
func MemberHasAnyRole(s *discordgo.Session, guildID string, m *discordgo.Member, names []string) bool {
	if m == nil || len(names) == 0 {
		return false
	}
	guild, err := s.State.Guild(guildID)
	if err != nil {
		guild, err = s.Guild(guildID)
		if err != nil {
			return false
		}
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	byID := make(map[string]string, len(guild.Roles))
	for _, r := range guild.Roles {
		byID[r.ID] = r.Name
	}
	for _, id := range m.Roles {
		if wanted[byID[id]] {
			return true
		}
	}
	return false
}
