package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration using Viper.
// Priority order: Environment variables > Config file > Defaults
func LoadConfig(configPath string) (*ServerConfig, error) {
	v := viper.New()

	v.SetConfigName("server")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/mafia")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// These allow both MAFIA_SERVER_PORT and PORT to work.
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.host", "HOST")
	v.BindEnv("server.ratelimit", "RATE_LIMIT")
	v.BindEnv("server.ratelimitburst", "RATE_LIMIT_BURST")
	v.BindEnv("server.maxrequestsize", "MAX_REQUEST_SIZE")

	v.SetDefault("server.maxplayersperroom", 12)
	v.SetDefault("server.roomcodelength", 5)
	v.SetDefault("server.roomtimeout", "24h")

	v.SetDefault("server.readtimeout", "0s")
	v.SetDefault("server.writetimeout", "0s") // 0 so SSE streams are not cut off
	v.SetDefault("server.idletimeout", "0s") // 0 for SSE support
	v.SetDefault("server.shutdowntimeout", "30s")
	v.SetDefault("server.requesttimeout", "60s")

	v.SetDefault("server.ratelimit", 10.0)
	v.SetDefault("server.ratelimitburst", 20)
	v.SetDefault("server.maxrequestsize", 1048576) // 1MB

	v.SetDefault("game.nightseconds", 60)
	v.SetDefault("game.dayseconds", 120)
	v.SetDefault("game.voteseconds", 60)

	// The config file is optional; env vars and defaults are enough.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !strings.Contains(err.Error(), "no such file or directory") {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	cfg := &ServerConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if v.GetString("server.port") == "" {
		return nil, fmt.Errorf("PORT environment variable must be set")
	}
	if v.GetString("server.host") == "" {
		return nil, fmt.Errorf("HOST environment variable must be set")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
