package server

import (
	"testing"
	"time"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.Addr != "127.0.0.1:5000" {
		t.Errorf("Expected default address 127.0.0.1:5000, got %q", cfg.Addr)
	}
	if cfg.MaxMessageSize != 0 {
		t.Errorf("Expected no message size limit by default, got %d", cfg.MaxMessageSize)
	}
	if cfg.WriteTimeout != 0 {
		t.Errorf("Expected no write timeout by default, got %s", cfg.WriteTimeout)
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Errorf("Expected no origin restrictions by default, got %v", cfg.AllowedOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("GOSPLAN_URL", "0.0.0.0:9000")
	t.Setenv("GOSPLAN_ALLOWED_ORIGINS", "http://a.example, ,https://b.example")
	t.Setenv("GOSPLAN_MAX_MESSAGE_SIZE", "4096")
	t.Setenv("GOSPLAN_WRITE_TIMEOUT", "3")
	t.Setenv("GOSPLAN_SHUTDOWN_TIMEOUT", "1")

	cfg := NewConfigFromEnv()

	if cfg.Addr != "0.0.0.0:9000" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != "http://a.example" || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.MaxMessageSize != 4096 {
		t.Errorf("MaxMessageSize = %d", cfg.MaxMessageSize)
	}
	if cfg.WriteTimeout != 3*time.Second {
		t.Errorf("WriteTimeout = %s", cfg.WriteTimeout)
	}
	if cfg.ShutdownTimeout != time.Second {
		t.Errorf("ShutdownTimeout = %s", cfg.ShutdownTimeout)
	}
}

func TestNewConfigFromEnvFallsBackOnBadValues(t *testing.T) {
	t.Setenv("GOSPLAN_MAX_MESSAGE_SIZE", "huge")
	t.Setenv("GOSPLAN_WRITE_TIMEOUT", "-5")
	t.Setenv("GOSPLAN_SHUTDOWN_TIMEOUT", "soon")

	cfg := NewConfigFromEnv()

	if cfg.MaxMessageSize != 0 {
		t.Errorf("MaxMessageSize = %d, want default", cfg.MaxMessageSize)
	}
	if cfg.WriteTimeout != 0 {
		t.Errorf("WriteTimeout = %s, want default", cfg.WriteTimeout)
	}
	if cfg.ShutdownTimeout != defaultShutdownTimeout {
		t.Errorf("ShutdownTimeout = %s, want default", cfg.ShutdownTimeout)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		addr    string
		wantErr bool
	}{
		{"127.0.0.1:5000", false},
		{"0.0.0.0:0", false},
		{":8080", false},
		{"[::1]:5000", false},
		{"127.0.0.1", true},
		{"localhost:5000", true},
		{"127.0.0.1:http", true},
		{"127.0.0.1:70000", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			cfg := Config{Addr: tt.addr}
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%q) error = %v, wantErr %v", tt.addr, err, tt.wantErr)
			}
		})
	}
}
