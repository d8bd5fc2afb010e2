package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/coralhq/atrium/internal/app/bootstrap"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	// Best effort: a missing .env file is fine.
	_ = godotenv.Load()

	cfg, err := bootstrap.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var logger *zap.Logger
	if cfg.Log.Env == "prod" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := bootstrap.Run(cfg, logger); err != nil {
		logger.Fatal("startup failed", zap.Error(err))
	}
}
