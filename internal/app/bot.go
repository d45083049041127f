package app

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	disc "github.com/Rainyan/discord-bot-ntpug/internal/adapters/discord"
	"github.com/Rainyan/discord-bot-ntpug/internal/pug"
	"github.com/Rainyan/discord-bot-ntpug/pkg/config"
)

// Bot ties the gateway session to the per-guild queue state and the
// presence updater. One Bot instance serves every guild the session
// is a member of.
type Bot struct {
	Sess     *discordgo.Session
	Cfg      *config.Config
	Reg      *pug.Registry
	Presence *disc.Presence

	cancelBus func()
}

func NewBot(s *discordgo.Session, cfg *config.Config) (*Bot, error) {
	reg, err := pug.NewRegistry(pug.Options{
		PlayersRequired: cfg.PlayersRequiredTotal,
		AllowRequeue:    cfg.DebugAllowRequeue,
		RoleName:        cfg.PuggerRole,
		PingThreshold:   cfg.PingThreshold,
		PingMinInterval: cfg.PingMinInterval(),
		FirstTeamName:   cfg.FirstTeamName,
		SecondTeamName:  cfg.SecondTeamName,
	})
	if err != nil {
		return nil, fmt.Errorf("queue options: %w", err)
	}
	return &Bot{
		Sess:     s,
		Cfg:      cfg,
		Reg:      reg,
		Presence: disc.NewPresence(s, cfg.PresenceInterval()),
	}, nil
}

func (b *Bot) RegisterHandlers() {
	b.Sess.AddHandler(b.HandleInteraction)
	b.Sess.AddHandler(b.HandleMessageCreate)
	b.cancelBus = b.StartEventSubscribers()
}

func (b *Bot) Stop() {
	if b.cancelBus != nil {
		b.cancelBus()
	}
}

// isPugChannel reports whether the given channel is the guild's
// designated PUG channel, matched by name from the session state.
func (b *Bot) isPugChannel(guildID, channelID string) bool {
	ch, ok := b.pugChannel(guildID)
	return ok && ch == channelID
}

// pugChannel returns the ID of the guild's PUG text channel, if any.
func (b *Bot) pugChannel(guildID string) (string, bool) {
	g, err := b.Sess.State.Guild(guildID)
	if err != nil {
		return "", false
	}
	for _, ch := range g.Channels {
		if ch.Type == discordgo.ChannelTypeGuildText && ch.Name == b.Cfg.PugChannel {
			return ch.ID, true
		}
	}
	return "", false
}

func (b *Bot) history(guildID, channelID string) *disc.ChannelHistory {
	return disc.NewChannelHistory(b.Sess, guildID, channelID)
}

func (b *Bot) notifier(guildID, channelID string) *disc.ChannelNotifier {
	return disc.NewChannelNotifier(b.Sess, guildID, channelID)
}
