// Package config defines bot configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load() layers defaults, an optional YAML file and env vars.
// - External errors must be wrapped via this package's error helpers.
package config

import "github.com/okian/clanmove/internal/domain/model"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MetricsAddr configures the /metrics and /healthz listen address.
	MetricsAddr string `koanf:"metrics_addr"`

	// DiscordToken authenticates the bot session.
	DiscordToken string `koanf:"discord_token"`

	// GuildID restricts slash command registration to one guild.
	GuildID string `koanf:"guild_id"`

	// ChannelID is the channel move lists are announced in.
	ChannelID string `koanf:"channel_id"`

	// SpreadsheetID identifies the roster spreadsheet.
	SpreadsheetID string `koanf:"spreadsheet_id"`

	// CredentialsFile points at the service-account key for Sheets.
	CredentialsFile string `koanf:"credentials_file"`

	// RosterRange is the working roster range, header row first.
	RosterRange string `koanf:"roster_range"`

	// SourceRange is the per-season source copied over RosterRange.
	SourceRange string `koanf:"source_range"`

	// StateCell holds the persisted bot state blob.
	StateCell string `koanf:"state_cell"`

	// ClanCapacity is the per-clan headcount limit.
	ClanCapacity int `koanf:"clan_capacity"`

	// DefaultMetric is the ranking column used when a distribute
	// request names none.
	DefaultMetric string `koanf:"default_metric"`

	// EventQueueSize bounds the serialized interaction queue.
	EventQueueSize int `koanf:"event_queue_size"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		MetricsAddr:    ":9090",
		RosterRange:    "Roster!A1:H60",
		SourceRange:    "Season!A1:H60",
		StateCell:      "State!A1",
		ClanCapacity:   model.DefaultCapacity,
		DefaultMetric:  "Trophies",
		EventQueueSize: 64,
	}
}
