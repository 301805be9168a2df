package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Tyrowin/gosplan/internal/server"
)

func main() {
	log.Println("Starting Gosplan relay...")

	config := server.NewConfigFromEnv()
	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if limit, err := server.RaiseOpenFileLimit(); err != nil {
		log.Printf("Could not raise open file limit: %v", err)
	} else {
		log.Printf("Open file limit: %d", limit)
	}

	registry := server.NewRegistry()
	relay := server.NewRelay(registry, *config)
	httpServer := server.CreateServer(config.Addr, server.SetupRoutes(relay))

	ln, err := server.Listen(httpServer)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.StartServer(httpServer, ln)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-sigCh:
		log.Printf("Received %s, shutting down", sig)
		if err := server.ShutdownServer(httpServer, registry, config.ShutdownTimeout); err != nil {
			os.Exit(1)
		}
	}
}
