package server

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/NVIDIA/ssm-inventory/pkg/defaults"
)

// DefaultConfig returns the default configuration with PORT and LOG_LEVEL
// environment overrides applied.
func DefaultConfig() *Config {
	cfg := &Config{
		Address:         "",
		Port:            defaults.ServerPort,
		RateLimit:       defaults.ServerRateLimit, // each request hits the parameter store
		RateLimitBurst:  defaults.ServerRateLimitBurst,
		RequestTimeout:  defaults.ServerRequestTimeout,
		ReadTimeout:     defaults.ServerReadTimeout,
		WriteTimeout:    defaults.ServerWriteTimeout,
		IdleTimeout:     defaults.ServerIdleTimeout,
		ShutdownTimeout: defaults.ServerShutdownTimeout,
		LogLevel:        slog.LevelInfo.String(),
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port >= 0 {
			cfg.Port = port
		} else {
			slog.Warn("ignoring invalid PORT", slog.String("value", portStr))
		}
	}

	if logLevelStr := os.Getenv("LOG_LEVEL"); logLevelStr != "" {
		cfg.LogLevel = logLevelStr
	}

	return cfg
}
