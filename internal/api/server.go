package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/huangsam/ahp/internal/contract"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Serve runs the API listener, and the metrics listener when one is
// configured, until ctx is canceled. Both servers are shut down gracefully.
func Serve(ctx context.Context, cfg *contract.Config, stores contract.StoreManager, pub contract.Publisher, logger *slog.Logger) error {
	if cfg.Listen == "" {
		return errors.New("--listen is required")
	}

	metrics := NewMetrics()
	h := NewHandler(cfg, stores, pub, metrics, logger)
	servers := []*http.Server{{
		Addr: cfg.Listen,
		Handler: NewRouter(h, Options{
			RateLimit:     cfg.RateLimit,
			Burst:         max(int(cfg.RateLimit), 1),
			ServeMetrics:  cfg.MetricsListen == "",
			RequestLogger: logger,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}}
	if cfg.MetricsListen != "" {
		servers = append(servers, &http.Server{
			Addr:              cfg.MetricsListen,
			Handler:           NewMetricsRouter(metrics),
			ReadHeaderTimeout: 5 * time.Second,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			logger.Info("server starting", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server on %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		var errs []error
		for _, srv := range servers {
			errs = append(errs, srv.Shutdown(shutdownCtx))
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
