// Package server provides configuration helpers that define runtime defaults,
// validation, and optional limits for the relay.
package server

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAddr            = "127.0.0.1:5000"
	defaultShutdownTimeout = 10 * time.Second
)

// Config holds the relay settings. The zero value of every limit means
// "no limit", which is how the relay behaves out of the box.
type Config struct {
	Addr            string
	AllowedOrigins  []string
	MaxMessageSize  int64
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func defaultConfig() Config {
	return Config{
		Addr:            defaultAddr,
		ShutdownTimeout: defaultShutdownTimeout,
	}
}

// NewConfig creates a Config instance populated with default values for all settings.
func NewConfig() *Config {
	cfg := defaultConfig()
	return &cfg
}

// NewConfigFromEnv creates a Config instance from environment variables.
// Falls back to default values if environment variables are not set or
// cannot be parsed.
func NewConfigFromEnv() *Config {
	cfg := defaultConfig()

	if addr := os.Getenv("GOSPLAN_URL"); addr != "" {
		cfg.Addr = strings.TrimSpace(addr)
	}

	if origins := os.Getenv("GOSPLAN_ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = parseOrigins(origins)
	}

	if maxSize := os.Getenv("GOSPLAN_MAX_MESSAGE_SIZE"); maxSize != "" {
		cfg.MaxMessageSize = parseMaxMessageSize(maxSize, cfg.MaxMessageSize)
	}

	if timeout := os.Getenv("GOSPLAN_WRITE_TIMEOUT"); timeout != "" {
		cfg.WriteTimeout = parseSeconds(timeout, cfg.WriteTimeout)
	}

	if timeout := os.Getenv("GOSPLAN_SHUTDOWN_TIMEOUT"); timeout != "" {
		cfg.ShutdownTimeout = parseSeconds(timeout, cfg.ShutdownTimeout)
	}

	return &cfg
}

// Validate reports whether the bind address is usable. The listener itself
// still has the final word (e.g. address already in use).
func (c *Config) Validate() error {
	host, port, err := net.SplitHostPort(c.Addr)
	if err != nil {
		return fmt.Errorf("invalid bind address %q: %w", c.Addr, err)
	}
	if host != "" && net.ParseIP(host) == nil {
		return fmt.Errorf("invalid bind address %q: host must be an IP literal", c.Addr)
	}
	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return fmt.Errorf("invalid bind address %q: bad port: %w", c.Addr, err)
	}
	return nil
}

func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseMaxMessageSize(value string, defaultValue int64) int64 {
	if size, err := strconv.ParseInt(value, 10, 64); err == nil && size >= 0 {
		return size
	}
	return defaultValue
}

func parseSeconds(value string, defaultValue time.Duration) time.Duration {
	if seconds, err := strconv.Atoi(value); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
