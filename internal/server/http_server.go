// Package server constructs, starts and stops the relay's HTTP service.
package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"
)

// CreateServer creates an HTTP server for handler. Read and write timeouts
// are left unset: they would also apply to hijacked WebSocket connections,
// which live until the client leaves.
func CreateServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Listen binds the server's address. Bind errors are returned immediately so
// the caller can abort startup.
func Listen(server *http.Server) (net.Listener, error) {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", server.Addr, err)
	}
	return ln, nil
}

// StartServer serves on ln until the server is shut down. It returns nil
// after a graceful shutdown.
func StartServer(server *http.Server, ln net.Listener) error {
	log.Printf("Server listening on %s", ln.Addr())
	if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// ShutdownServer stops accepting connections, closes every relay session and
// waits for in-flight HTTP requests until timeout.
func ShutdownServer(server *http.Server, registry *Registry, timeout time.Duration) error {
	log.Println("Shutting down HTTP server...")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Hijacked connections are not tracked by http.Server.
	server.RegisterOnShutdown(func() {
		registry.CloseAll()
	})

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		return err
	}

	log.Println("HTTP server shutdown completed")
	return nil
}
