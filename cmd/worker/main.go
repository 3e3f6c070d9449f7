package main

import (
	"os"

	"go-hrpay/internal/app"
	"go-hrpay/internal/config"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := app.NewLogger(cfg.Env, "worker")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := app.RunWorker(cfg); err != nil {
		logger.Error("outbox worker exited", zap.Error(err))
		os.Exit(1)
	}
}
