// Package server exposes HTTP handlers: the WebSocket relay endpoint and a
// plain-text health check.
package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// Relay binds the registry and configuration shared by every session.
type Relay struct {
	registry *Registry
	cfg      Config
	upgrader websocket.Upgrader
}

// NewRelay creates a Relay serving connections into registry.
func NewRelay(registry *Registry, cfg Config) *Relay {
	policy := newOriginPolicy(cfg.AllowedOrigins)
	return &Relay{
		registry: registry,
		cfg:      cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     policy.checkOrigin,
		},
	}
}

// Registry returns the registry sessions are admitted into.
func (rl *Relay) Registry() *Registry {
	return rl.registry
}

// WebSocketHandler upgrades the request and runs the session on the
// handler's goroutine until the connection ends. A failed upgrade has
// already been answered by the upgrader.
func (rl *Relay) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := rl.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	NewSession(conn, rl.registry, r.RemoteAddr, rl.cfg).Run()
}

// HealthHandler reports that the relay is up and how many clients it holds.
func (rl *Relay) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "Gosplan relay is running! Clients: %d", rl.registry.Len())
}
