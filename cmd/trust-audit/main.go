// Command trust-audit consumes change events published by the trust server
// and keeps a bounded audit trail next to the application data.
package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"trust/internal/cli"
	applog "trust/internal/log"
	"trust/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel).WithComponent(applog.ComponentWorker)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the audit worker")
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	backend := cli.OpenBackend(ctx, logger, cfg)
	defer func() {
		if err := backend.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", applog.FieldError, err.Error())
		}
	}()
	if backend.Publisher == nil {
		logger.Error("Broker unreachable, nothing to consume")
		os.Exit(1)
	}

	audit := worker.NewAuditWorker(backend.Slot, cfg.StorageKey+"_audit", worker.DefaultAuditLimit, logger)
	if err := audit.StartupCheck(ctx); err != nil {
		logger.Warn("Audit trail startup check failed", applog.FieldError, err.Error())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting trust-audit", "queue", cfg.AMQPQueue)
		return backend.Publisher.ConsumeDataChanged(gctx, audit.HandleDataChanged)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Audit worker stopped")
}
