package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"cyberbrief/internal/app"
	"cyberbrief/internal/config"
	"cyberbrief/internal/logger"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config")
	flag.Parse()

	// Secrets may live in a local .env during development; absence is
	// fine, the scheduler injects real env vars.
	_ = godotenv.Load()

	logger.Init()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(app.ExitConfigError)
	}

	os.Exit(app.Run(context.Background(), cfg))
}
