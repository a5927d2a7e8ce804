package main

import (
	"fmt"
	"os"

	"github.com/libstack-dev/libstack/internal/config"
	"github.com/libstack-dev/libstack/internal/logger"
	"github.com/libstack-dev/libstack/internal/webapp"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.GetLogger()

	srv, err := webapp.New(cfg, log, version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	log.Info().Str("version", version).Str("backend", cfg.Backend.URL).Msg("Starting LibStack webapp...")

	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}
