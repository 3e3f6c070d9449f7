package app

import (
	"database/sql"
	"fmt"

	"go-hrpay/internal/audit"
	"go-hrpay/internal/config"
	"go-hrpay/internal/expense"
	"go-hrpay/internal/leave"
	"go-hrpay/internal/messaging/kafka"
	"go-hrpay/internal/middleware"
	"go-hrpay/internal/rbac"
	"go-hrpay/internal/rbac/infra"
	"go-hrpay/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	auditRepo := audit.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	balanceRepo := leave.NewBalanceRepository(gormDB)
	expenseRepo := expense.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer("")
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)

	// --- Services ---
	auditSink, err := newAuditSink(cfg, outboxRepo, auditRepo, logger)
	if err != nil {
		return err
	}
	mutator := leave.NewBalanceMutator(balanceRepo, leaveMutatorConfig(cfg.Leave), logger)
	leaveService := leave.NewService(leaveRepo, balanceRepo, mutator, leave.ServiceOptions{
		Redis:           rdb,
		CacheTTL:        cfg.Leave.BalanceCacheTTL,
		Counter:         counterRepo,
		Audit:           auditSink,
		Events:          leave.NewOutboxEventPublisher(outboxRepo),
		ReleaseOnReject: cfg.Leave.ReleaseOnReject,
	}, logger)
	expenseService := expense.NewService(expenseRepo, expense.ServiceOptions{
		Counter: counterRepo,
		Audit:   auditSink,
	}, logger)
	auditService := audit.NewService(auditRepo, logger)

	// --- Handlers ---
	leaveHandler := leave.NewHandler(leaveService, logger)
	expenseHandler := expense.NewHandler(expenseService, logger)
	auditHandler := audit.NewHandler(auditService, logger)

	approvalLimit := middleware.RateLimitByUser(rate.Limit(cfg.Approval.RatePerSecond), cfg.Approval.Burst)

	// --- Routes Registration ---
	router.Use(
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.RateLimitByIP(rate.Limit(cfg.PerIP.RatePerSecond), cfg.PerIP.Burst),
	)
	api := router.Group("/api/v1")
	api.Use(
		middleware.AuthMiddleware(cfg.JWTSecret),
		middleware.ExtractUserID(),
		middleware.ContextLogger(logger),
		middleware.Idempotency(rdb, logger),
	)
	{
		leave.RegisterRoutes(api, leaveHandler, rbacService, approvalLimit)
		expense.RegisterRoutes(api, expenseHandler, rbacService, approvalLimit)
		audit.RegisterRoutes(api, auditHandler, rbacService)
	}

	return nil
}

func newAuditSink(cfg *config.Config, outbox kafka.OutboxRepository, repo audit.Repository, logger *zap.Logger) (audit.Sink, error) {
	switch cfg.AuditSink {
	case config.AuditSinkOutbox:
		return audit.NewOutboxSink(outbox, cfg.Kafka.AuditTopic), nil
	case config.AuditSinkDirect:
		return audit.NewRepositorySink(repo), nil
	case config.AuditSinkLog:
		return audit.NewLogSink(logger), nil
	default:
		return nil, fmt.Errorf("unknown AUDIT_SINK %q", cfg.AuditSink)
	}
}

func leaveMutatorConfig(cfg config.LeaveConfig) leave.MutatorConfig {
	mc := leave.DefaultMutatorConfig()
	if cfg.CommitMaxRetries > 0 {
		mc.CommitRetry = leave.RetryPolicy{MaxAttempts: cfg.CommitMaxRetries, BaseDelay: cfg.CommitRetryDelay}
	}
	if cfg.ReservationMaxAttempts > 0 {
		mc.ReservationRetry = leave.RetryPolicy{MaxAttempts: cfg.ReservationMaxAttempts}
	}
	return mc
}
