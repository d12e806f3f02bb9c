package main

import (
	"flag"
	"os"

	"github.com/yigit/headta/internal/bootstrap"
	"github.com/yigit/headta/internal/pkg/logger"
	"github.com/yigit/headta/internal/server"
)

// @title Head TA Directory API
// @version 1.0
// @description Directory of university head teaching assistants, their invitation tree and course history

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	configPath := flag.String("config", bootstrap.DefaultConfigPath, "path to the YAML configuration file")
	flag.Parse()

	srv, err := server.NewServer(*configPath)
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
