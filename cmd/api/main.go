package main

import (
	"os"

	"github.com/happysmilecode/yumenosite/internal/pkg/logger"
	"github.com/happysmilecode/yumenosite/internal/server"
)

// @title Yumenosite API
// @version 1.0
// @description Course, assessment and submission service

// @host localhost:8080
// @BasePath /
// @schemes http

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
