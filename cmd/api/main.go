package main

import (
	"context"
	"os"

	"github.com/yigit/learncircle/internal/pkg/logger"
	"github.com/yigit/learncircle/internal/server"
)

// @title LearnCircle API
// @version 1.0
// @description Community learning backend: circles, shared resources, tasks, chat and gamification.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT access token, as "Bearer <token>"

func main() {
	srv, err := server.NewServer(context.Background())
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
