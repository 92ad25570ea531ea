// Package config loads the server settings from flags with environment
// fallbacks.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

// ErrInvalidConfig indicates a setting that cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Addr                string
	AllowedOrigins      string
	BotDelay            time.Duration
	MatchmakingInterval time.Duration
	LogLevel            log.Level
}

func Default() Config {
	return Config{
		Addr:                ":3000",
		AllowedOrigins:      "http://localhost:5173",
		BotDelay:            300 * time.Millisecond,
		MatchmakingInterval: time.Second,
		LogLevel:            log.LevelInfo,
	}
}

// Load parses args (without the program name). Each flag falls back to its
// CHECKERS_* environment variable, then to the default.
func Load(args []string, getenv func(string) string) (Config, error) {
	cfg := Default()

	env := func(key, fallback string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return fallback
	}

	fs := flag.NewFlagSet("checkers-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	addr := fs.String("addr", env("CHECKERS_ADDR", cfg.Addr), "listen address")
	origins := fs.String("origins", env("CHECKERS_ALLOWED_ORIGINS", cfg.AllowedOrigins), "comma separated CORS origins")
	botDelay := fs.String("bot-delay", env("CHECKERS_BOT_DELAY", cfg.BotDelay.String()), "pause before the bot moves")
	interval := fs.String("matchmaking-interval", env("CHECKERS_MATCHMAKING_INTERVAL", cfg.MatchmakingInterval.String()), "how often queued players are paired")
	level := fs.String("log-level", env("CHECKERS_LOG_LEVEL", "info"), "trace, debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg.Addr = *addr
	cfg.AllowedOrigins = *origins

	var err error
	if cfg.BotDelay, err = time.ParseDuration(*botDelay); err != nil || cfg.BotDelay < 0 {
		return Config{}, fmt.Errorf("%w: bot delay %q", ErrInvalidConfig, *botDelay)
	}
	if cfg.MatchmakingInterval, err = time.ParseDuration(*interval); err != nil || cfg.MatchmakingInterval <= 0 {
		return Config{}, fmt.Errorf("%w: matchmaking interval %q", ErrInvalidConfig, *interval)
	}
	if cfg.LogLevel, err = parseLevel(*level); err != nil {
		return Config{}, err
	}
	if cfg.Addr == "" {
		return Config{}, fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	}
	return cfg, nil
}

// Origins splits AllowedOrigins into its entries.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func parseLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return 0, fmt.Errorf("%w: log level %q", ErrInvalidConfig, s)
}
