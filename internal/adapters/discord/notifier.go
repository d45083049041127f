// Package discord - notifier.go
package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// ChannelNotifier sends queue broadcasts to one guild channel and
// resolves server roles for mention text. It implements
// pug.RoleNotifier.
type ChannelNotifier struct {
	sess      *discordgo.Session
	guildID   string
	channelID string
}

func NewChannelNotifier(s *discordgo.Session, guildID, channelID string) *ChannelNotifier {
	return &ChannelNotifier{sess: s, guildID: guildID, channelID: channelID}
}

func (n *ChannelNotifier) Send(ctx context.Context, text string) error {
	_, err := n.sess.ChannelMessageSend(n.channelID, text, discordgo.WithContext(ctx))
	return err
}

// RoleMention returns the mention string for the named guild role.
func (n *ChannelNotifier) RoleMention(name string) (string, bool) {
	guild, err := n.sess.State.Guild(n.guildID)
	if err != nil {
		guild, err = n.sess.Guild(n.guildID)
		if err != nil {
			return "", false
		}
	}
	for _, r := range guild.Roles {
		if r.Name == name {
			return r.Mention(), true
		}
	}
	return "", false
}
