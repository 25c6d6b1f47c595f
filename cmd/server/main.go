package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/termflow/termflow/backend/internal/infrastructure/config"
	"github.com/termflow/termflow/backend/internal/infrastructure/server"
)

func main() {
	port := flag.String("port", "", "Server port (overrides env)")
	storage := flag.String("storage", "", "Snapshot storage directory (overrides env)")
	dev := flag.Bool("dev", false, "Development mode (colored logs, debug level)")
	flag.Parse()

	cfg := config.LoadOrDefault()
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *storage != "" {
		cfg.Storage.Path = *storage
	}
	if *dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		if err := srv.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	}
}
