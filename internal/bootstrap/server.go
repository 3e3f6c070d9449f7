package bootstrap

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-hrpay/internal/audit"

	"go.uber.org/zap"
)

const defaultShutdownTimeout = 10 * time.Second

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// StartHTTPServer serves handler until SIGINT or SIGTERM arrives.
func StartHTTPServer(handler http.Handler, cfg ServerConfig, sink audit.Sink) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return err
	}
	return Serve(ctx, ln, handler, cfg, sink, zap.L().Named("http.server"))
}

// Serve runs an http.Server on ln until ctx is cancelled, records a
// server.shutdown audit entry and then drains in-flight requests.
func Serve(
	ctx context.Context,
	ln net.Listener,
	handler http.Handler,
	cfg ServerConfig,
	sink audit.Sink,
	logger *zap.Logger,
) error {
	server := &http.Server{
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", ln.Addr().String()))
		serveErr <- server.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	cause := context.Cause(ctx).Error()
	logger.Info("shutdown requested", zap.String("cause", cause))

	hostname, _ := os.Hostname()
	if err := sink.Record(context.Background(), audit.Entry{
		Action:     audit.ActionServerShutdown,
		EntityType: audit.EntityServer,
		EntityID:   hostname,
		Metadata:   map[string]any{"cause": cause, "addr": ln.Addr().String()},
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		logger.Warn("record shutdown audit failed", zap.Error(err))
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
		return err
	}
	logger.Info("http server stopped")
	return nil
}
