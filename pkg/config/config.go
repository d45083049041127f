// Package config reads the bot's preferences from environment
// variables (with .env support during development). The NTBOT_* naming
// is kept stable so existing deployments keep working.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

type Config struct {
	SecretToken string `env:"NTBOT_SECRET_TOKEN"`

	// PugChannel is the name of the channel the bot operates in, per
	// guild. Queue commands anywhere else are rejected.
	PugChannel string `env:"NTBOT_PUG_CHANNEL" envDefault:"pug"`

	// PlayersRequiredTotal is the full queue size. Must be even, >= 2.
	PlayersRequiredTotal int `env:"NTBOT_PLAYERS_REQUIRED_TOTAL" envDefault:"10"`

	// DebugAllowRequeue lets the same user queue repeatedly. Only for
	// manual testing, never production.
	DebugAllowRequeue bool `env:"NTBOT_DEBUG_ALLOW_REQUEUE" envDefault:"false"`

	PollingIntervalSecs  int `env:"NTBOT_POLLING_INTERVAL_SECS" envDefault:"30"`
	PresenceIntervalSecs int `env:"NTBOT_PRESENCE_INTERVAL_SECS" envDefault:"30"`

	// PuggerRole is pinged when the queue crosses PingThreshold, at
	// most once per PingMinIntervalHours.
	PuggerRole           string  `env:"NTBOT_PUGGER_ROLE" envDefault:"Puggers"`
	PingThreshold        float64 `env:"NTBOT_PUGGER_ROLE_PING_THRESHOLD" envDefault:"0.5"`
	PingMinIntervalHours float64 `env:"NTBOT_PUGGER_ROLE_PING_MIN_INTERVAL_HOURS" envDefault:"8"`

	// PugAdminRoles may clear the queue. Empty list means anyone can.
	PugAdminRoles []string `env:"NTBOT_PUG_ADMIN_ROLES" envSeparator:","`

	// IdleThresholdHours bounds the history replay window; players with
	// no qualifying activity inside it are dropped from the queue.
	IdleThresholdHours float64 `env:"NTBOT_IDLE_THRESHOLD_HOURS" envDefault:"8"`

	PingPuggersCooldownSecs float64 `env:"NTBOT_PING_PUGGERS_COOLDOWN_SECS" envDefault:"60"`

	FirstTeamName  string `env:"NTBOT_FIRST_TEAM_NAME" envDefault:"Jinrai"`
	SecondTeamName string `env:"NTBOT_SECOND_TEAM_NAME" envDefault:"NSF"`

	// EphemeralMessages makes command responses visible only to their
	// author where the contract allows it.
	EphemeralMessages bool `env:"NTBOT_EPHEMERAL_MESSAGES" envDefault:"false"`

	// MetricsAddr enables the Prometheus listener when non-empty,
	// e.g. ":2112".
	MetricsAddr string `env:"NTBOT_METRICS_ADDR"`

	LogLevel string `env:"NTBOT_LOG_LEVEL" envDefault:"info"`
}

// Load reads .env (if present), parses the environment and validates
// the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SecretToken == "" {
		return errors.New("config: missing NTBOT_SECRET_TOKEN")
	}
	if c.PugChannel == "" {
		return errors.New("config: missing NTBOT_PUG_CHANNEL")
	}
	if c.PlayersRequiredTotal < 2 || c.PlayersRequiredTotal%2 != 0 {
		return fmt.Errorf("config: NTBOT_PLAYERS_REQUIRED_TOTAL must be even and >= 2, got %d",
			c.PlayersRequiredTotal)
	}
	if c.PingThreshold < 0 || c.PingThreshold > 1 {
		return fmt.Errorf("config: NTBOT_PUGGER_ROLE_PING_THRESHOLD must be within [0, 1], got %v",
			c.PingThreshold)
	}
	if c.PuggerRole == "" {
		return errors.New("config: missing NTBOT_PUGGER_ROLE")
	}
	if c.PollingIntervalSecs <= 0 {
		return fmt.Errorf("config: NTBOT_POLLING_INTERVAL_SECS must be positive, got %d",
			c.PollingIntervalSecs)
	}
	if c.IdleThresholdHours <= 0 {
		return fmt.Errorf("config: NTBOT_IDLE_THRESHOLD_HOURS must be positive, got %v",
			c.IdleThresholdHours)
	}
	return nil
}

func (c *Config) PollingInterval() time.Duration {
	return time.Duration(c.PollingIntervalSecs) * time.Second
}

func (c *Config) PresenceInterval() time.Duration {
	return time.Duration(c.PresenceIntervalSecs) * time.Second
}

func (c *Config) PingMinInterval() time.Duration {
	return time.Duration(c.PingMinIntervalHours * float64(time.Hour))
}

func (c *Config) IdleThreshold() time.Duration {
	return time.Duration(c.IdleThresholdHours * float64(time.Hour))
}

func (c *Config) PingPuggersCooldown() time.Duration {
	return time.Duration(c.PingPuggersCooldownSecs * float64(time.Second))
}

// Redacted is a loggable summary that never includes the token.
func (c *Config) Redacted() string {
	tok := "[set]"
	if c.SecretToken == "" {
		tok = "[empty]"
	}
	return fmt.Sprintf(
		"pugChannel=%q playersRequired=%d puggerRole=%q pingThreshold=%.2f idleThresholdHours=%.1f token=%s",
		c.PugChannel, c.PlayersRequiredTotal, c.PuggerRole, c.PingThreshold,
		c.IdleThresholdHours, tok,
	)
}
