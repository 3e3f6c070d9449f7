package app

import (
	"database/sql"

	"go-hrpay/internal/config"
	"go-hrpay/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the infrastructure and mounts every module on router.
// The returned *sql.DB is owned by the caller.
func BuildApp(router *gin.Engine, cfg *config.Config) (*sql.DB, error) {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	redisClient, err := connection.ConnectRedisWithRetry(cfg.Redis)
	if err != nil {
		return nil, err
	}
	if redisClient != nil {
		logger.Info("redis connection established")
	}

	if err := registerModules(router, cfg, sqlDB, gormDB, redisClient, logger); err != nil {
		return nil, err
	}
	return sqlDB, nil
}
