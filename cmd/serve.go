package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmehdipour/eventhub-gateway/internal/broker"
	"github.com/jmehdipour/eventhub-gateway/internal/config"
	httpSrv "github.com/jmehdipour/eventhub-gateway/internal/http"
	"github.com/jmehdipour/eventhub-gateway/internal/logger"
	"github.com/jmehdipour/eventhub-gateway/internal/metrics"
	"github.com/jmehdipour/eventhub-gateway/internal/service/ingest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		log := logger.Init(cfg.Log.Level, cfg.Log.Encoding)
		defer func() { _ = log.Sync() }()

		metrics.MustRegister(prometheus.DefaultRegisterer)

		log.Info("starting",
			zap.String("driver", cfg.Broker.Driver),
			zap.String("event_hub", cfg.EventHub.Name),
			zap.Bool("connection_string_set", cfg.EventHub.ConnectionString != ""),
		)

		pub, err := broker.New(cfg, log)
		if err != nil {
			return fmt.Errorf("broker: %w", err)
		}
		defer func() {
			if err := pub.Close(); err != nil {
				log.Warn("broker close", zap.Error(err))
			}
		}()

		svc := ingest.New(pub, log, cfg.Broker.MaxMessageBytes, cfg.Broker.PublishTimeout)
		server := httpSrv.NewServer(cfg, svc, log)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start(cfg.HTTP.Addr)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			log.Info("signal received, shutting down", zap.String("signal", sig.String()))
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Warn("http shutdown", zap.Error(err))
		}

		return nil
	},
}
