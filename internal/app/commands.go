// internal/app/commands.go
package app

import "github.com/bwmarrin/discordgo"

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "ping",
		Description: "Test if the bot is active",
		Type:        discordgo.ChatApplicationCommand,
	},
	{
		Name:        "pug",
		Description: "Join the PUG queue",
		Type:        discordgo.ChatApplicationCommand,
	},
	{
		Name:        "unpug",
		Description: "Leave the PUG queue",
		Type:        discordgo.ChatApplicationCommand,
	},
	{
		Name:        "puggers",
		Description: "List players currently queueing for PUG",
		Type:        discordgo.ChatApplicationCommand,
	},
	{
		Name:        "clearpuggers",
		Description: "Empty the server's PUG queue",
		Type:        discordgo.ChatApplicationCommand,
	},
	{
		Name:        "scramble",
		Description: "Get a new random teams suggestion for the latest PUG",
		Type:        discordgo.ChatApplicationCommand,
	},
	{
		Name:        "ping_puggers",
		Description: "Ping all players currently queueing for PUG",
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "message",
				Description: "Message to the other players in the queue",
				Required:    true,
			},
		},
	},
}

// RegisterCommands creates (or updates) the global application commands.
func RegisterCommands(s *discordgo.Session, appID string) error {
	for _, c := range commands {
		if _, err := s.ApplicationCommandCreate(appID, "", c); err != nil {
			return err
		}
	}
	return nil
}
