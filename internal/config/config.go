// Package config loads the server's tunables from the environment,
// mirroring the original source's env-var configuration (SERVER_ADDR/
// PORT, LOG_LEVEL) without pulling in a parsing/validation library.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds every environment-derived setting the composition root
// needs to wire up the server.
type Config struct {
	// Addr is the HTTP/WebSocket listen address, e.g. ":8080".
	Addr string
	// LogLevel is informational only; the server logs through the
	// standard library logger regardless of its value.
	LogLevel string

	// AuthSecret is the shared HMAC secret used to verify connection
	// tokens. Empty disables verification (local/dev mode only).
	AuthSecret string

	// MinPlayers/MaxPlayers/MaxQueueWait tune match formation. Countdown
	// is read from the environment but not passed to any match; every
	// match counts down for match.DefaultCountdownSecs.
	MinPlayers  int
	MaxPlayers  int
	MaxQueueWait time.Duration
	Countdown   time.Duration

	// InputRatePerSec/InputBurst tune the per-player input token bucket.
	InputRatePerSec float64
	InputBurst      int

	// UpgradeRatePerSec/UpgradeBurst tune the per-IP connection-upgrade
	// limiter.
	UpgradeRatePerSec float64
	UpgradeBurst      int
}

// FromEnv loads configuration from the environment, applying the
// documented defaults for anything unset.
func FromEnv() Config {
	cfg := Config{
		Addr:     envOr("SERVER_ADDR", ":8080"),
		LogLevel: envOr("LOG_LEVEL", "info"),

		AuthSecret: os.Getenv("AUTH_SHARED_SECRET"),

		MinPlayers:   envInt("MATCH_MIN_PLAYERS", 2),
		MaxPlayers:   envInt("MATCH_MAX_PLAYERS", 20),
		MaxQueueWait: envSeconds("MATCH_MAX_QUEUE_WAIT_SECS", 5),
		Countdown:    envSeconds("MATCH_COUNTDOWN_SECS", 5),

		InputRatePerSec: envFloat("INPUT_RATE_PER_SEC", 30),
		InputBurst:      envInt("INPUT_BURST", 30),

		UpgradeRatePerSec: envFloat("UPGRADE_RATE_PER_SEC", 5),
		UpgradeBurst:      envInt("UPGRADE_BURST", 10),
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}

	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func envSeconds(key string, defSecs int) time.Duration {
	return time.Duration(envInt(key, defSecs)) * time.Second
}
