package main

import (
	"os"

	"go-hrpay/internal/app"
	"go-hrpay/internal/audit"
	"go-hrpay/internal/bootstrap"
	"go-hrpay/internal/config"
	"go-hrpay/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := app.NewLogger(cfg.Env, "api")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("api exited", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	apperror.Init()
	r := gin.Default()

	db, err := app.BuildApp(r, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return bootstrap.StartHTTPServer(r, bootstrap.ServerConfig{
		Port:            cfg.Port,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		IdleTimeout:     cfg.IdleTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, audit.NewLogSink(logger))
}
