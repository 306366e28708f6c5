package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr         string
	AllowOrigins string
	AIDelay      time.Duration
	AITick       time.Duration
	AISeed       int64
	LogLevel     string
}

// Load reads flags from args, falling back to CHESS_* environment variables
// and then to defaults.
func Load(args []string) (Config, error) {
	return load(args, os.Getenv)
}

func load(args []string, getenv func(string) string) (Config, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	var cfg Config
	fs.StringVar(&cfg.Addr, "addr", envString(getenv, "CHESS_ADDR", ":3000"), "listen address")
	fs.StringVar(&cfg.AllowOrigins, "allow-origins", envString(getenv, "CHESS_ALLOW_ORIGINS", "http://localhost:5173"), "comma-separated CORS origins of the board UI")
	fs.StringVar(&cfg.LogLevel, "log-level", envString(getenv, "CHESS_LOG_LEVEL", "info"), "log level (debug, info, warn, error)")

	delay, err := envDuration(getenv, "CHESS_AI_DELAY", 600*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	tick, err := envDuration(getenv, "CHESS_AI_TICK", 100*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	seed, err := envInt64(getenv, "CHESS_AI_SEED", 0)
	if err != nil {
		return Config{}, err
	}
	fs.DurationVar(&cfg.AIDelay, "ai-delay", delay, "pause before the computer moves")
	fs.DurationVar(&cfg.AITick, "ai-tick", tick, "how often pending computer turns are checked")
	fs.Int64Var(&cfg.AISeed, "ai-seed", seed, "fixed seed for the computer player (0 = random)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("listen address is required")
	}
	if c.AIDelay < 0 {
		return fmt.Errorf("ai delay must not be negative, got %s", c.AIDelay)
	}
	if c.AITick <= 0 {
		return fmt.Errorf("ai tick must be positive, got %s", c.AITick)
	}
	return nil
}

func envString(getenv func(string) string, key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func envInt64(getenv func(string) string, key string, def int64) (int64, error) {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
