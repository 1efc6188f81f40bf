// Package discord binds the bot core to the Discord platform: slash
// commands and buttons in, formatted move lists out.
package discord

import "github.com/bwmarrin/discordgo"

// MessageLimit is Discord's hard per-message character budget.
const MessageLimit = 2000

// Config contains configuration variables for the Discord adapter.
type Config struct {
	// Token is the Discord bot token used for authentication.
	Token string

	// GuildID scopes slash command registration to one guild. Empty
	// registers the commands globally.
	GuildID string

	// ChannelID is the channel announcements are posted to.
	ChannelID string

	// Intents declares the Gateway Intents the bot requires.
	Intents discordgo.Intent

	// QueueSize bounds the serialized interaction queue.
	QueueSize int
}

// NewConfig returns a Config with default settings. Token must be set
// before use.
func NewConfig() Config {
	return Config{
		Intents:   discordgo.IntentsGuilds | discordgo.IntentsGuildMessages,
		QueueSize: 64,
	}
}
