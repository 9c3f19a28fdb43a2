package config

import (
	"fmt"
	"time"
)

// Config structures for the server. Loading happens in viper_config.go.

// ServerConfig is the root configuration.
type ServerConfig struct {
	Server ServerSettings `yaml:"server"`
	Game   GameSettings   `yaml:"game"`
}

// ServerSettings contains server-wide settings.
type ServerSettings struct {
	MaxPlayersPerRoom int           `yaml:"maxPlayersPerRoom"`
	RoomCodeLength    int           `yaml:"roomCodeLength"`
	RoomTimeout       time.Duration `yaml:"roomTimeout"`

	Port            string        `yaml:"port"`
	Host            string        `yaml:"host"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"` // 0 for SSE support
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	RequestTimeout  time.Duration `yaml:"requestTimeout"`

	// Rate limiting (golang.org/x/time/rate).
	RateLimit      float64 `yaml:"rateLimit"`
	RateLimitBurst int     `yaml:"rateLimitBurst"`

	MaxRequestSize int64 `yaml:"maxRequestSize"`
}

// GameSettings carries the default phase durations for new rooms, seconds.
// Rooms clamp them to [10,300] on use.
type GameSettings struct {
	NightSeconds int `yaml:"nightSeconds"`
	DaySeconds   int `yaml:"daySeconds"`
	VoteSeconds  int `yaml:"voteSeconds"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			MaxPlayersPerRoom: 12,
			RoomCodeLength:    5,
			RoomTimeout:       24 * time.Hour,

			Port:            "", // Must be set via env
			Host:            "", // Must be set via env
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     0, // 0 for SSE support
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  60 * time.Second,

			RateLimit:      10,
			RateLimitBurst: 20,

			MaxRequestSize: 1048576, // 1MB
		},
		Game: GameSettings{
			NightSeconds: 60,
			DaySeconds:   120,
			VoteSeconds:  60,
		},
	}
}

// Validate checks if the configuration is valid.
func (c *ServerConfig) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT environment variable must be set")
	}
	if c.Server.Host == "" {
		return fmt.Errorf("HOST environment variable must be set")
	}

	if c.Server.MaxPlayersPerRoom < 4 {
		return fmt.Errorf("maxPlayersPerRoom must be at least 4")
	}
	if c.Server.RoomCodeLength < 3 {
		return fmt.Errorf("roomCodeLength must be at least 3")
	}

	for name, v := range map[string]int{
		"nightSeconds": c.Game.NightSeconds,
		"daySeconds":   c.Game.DaySeconds,
		"voteSeconds":  c.Game.VoteSeconds,
	} {
		if v <= 0 {
			return fmt.Errorf("game.%s must be positive", name)
		}
	}

	return nil
}
