package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"room-scheduler-api/internal/config"
	"room-scheduler-api/internal/handler"
	"room-scheduler-api/internal/health"
	"room-scheduler-api/internal/logging"
	"room-scheduler-api/internal/middleware"
	"room-scheduler-api/internal/schema"
	"room-scheduler-api/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer log.Sync()
	log.Info("starting", zap.Stringer("config", cfg))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// schema first; a failure here is logged and startup continues
	schema.NewManager(cfg, log).Run(ctx)

	// database
	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer st.Close()
	checker := health.NewChecker(st, log)
	// SERVING only once the store answers; /healthz keeps it current
	if err := checker.Check(ctx); err != nil {
		log.Warn("db ping failed, requests will fail until it is reachable", zap.Error(err))
	}

	var rl *middleware.RateLimiter
	if cfg.RateLimit.RPS > 0 {
		rl = middleware.NewRateLimiter(ctx, cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	gin.SetMode(cfg.HTTP.GinMode)
	h := handler.New(st, log)
	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: handler.NewRouter(h, handler.RouterOptions{Health: checker, RateLimiter: rl}),
	}

	// grpc health
	grpcSrv := checker.NewGRPCServer()
	go func() {
		if err := checker.Serve(grpcSrv, cfg.GRPC.Addr); err != nil {
			log.Error("grpc", zap.Error(err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info("http listening", zap.String("addr", cfg.HTTP.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		log.Error("http", zap.Error(err))
	}

	// graceful shutdown
	log.Info("shutting down")
	checker.Shutdown()
	sctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(sctx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	grpcSrv.GracefulStop()
	return nil
}
