package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/emailchess-backend/internal/transport"
)

const envPrefix = "EMAILCHESS_"

type Config struct {
	Addr          string
	AllowOrigins  string
	DataDir       string // empty keeps snapshots in memory
	Compression   transport.Compression
	LogLevel      log.Level
	MatchInterval time.Duration
}

func Default() Config {
	return Config{
		Addr:          ":3000",
		AllowOrigins:  "http://localhost:5173",
		Compression:   transport.Brotli,
		LogLevel:      log.LevelInfo,
		MatchInterval: time.Second,
	}
}

// Load reads EMAILCHESS_* variables over the defaults.
func Load() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	get := func(name string) (string, bool) {
		v, ok := lookup(envPrefix + name)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}

	if v, ok := get("ADDR"); ok {
		cfg.Addr = v
	}
	if v, ok := get("ALLOW_ORIGINS"); ok {
		cfg.AllowOrigins = v
	}
	if v, ok := get("DATA_DIR"); ok {
		cfg.DataDir = v
	}
	if v, ok := get("COMPRESSION"); ok {
		c, err := transport.ParseCompression(v)
		if err != nil {
			return cfg, fmt.Errorf("%sCOMPRESSION: %w", envPrefix, err)
		}
		cfg.Compression = c
	}
	if v, ok := get("LOG_LEVEL"); ok {
		level, err := parseLevel(v)
		if err != nil {
			return cfg, fmt.Errorf("%sLOG_LEVEL: %w", envPrefix, err)
		}
		cfg.LogLevel = level
	}
	if v, ok := get("MATCH_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("%sMATCH_INTERVAL: %w", envPrefix, err)
		}
		if d <= 0 {
			return cfg, fmt.Errorf("%sMATCH_INTERVAL: must be positive, got %s", envPrefix, d)
		}
		cfg.MatchInterval = d
	}
	return cfg, nil
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
	return 0, fmt.Errorf("unknown log level %q", s)
}
