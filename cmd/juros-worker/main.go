package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"juros/internal/amqp"
	"juros/internal/cli"
	"juros/internal/config"
	applog "juros/internal/log"
	"juros/internal/worker"
)

var errAMQPRequired = errors.New("AMQP_URL is required by the worker")

func main() {
	cfg, logger := cli.Bootstrap(applog.ComponentWorker)
	logger.Info("Starting juros-worker", applog.FieldOperation, applog.OpStartup)

	ctx, stop := cli.SignalContext(logger)
	err := run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("Worker stopped with error", applog.FieldError, err.Error())
		os.Exit(1)
	}
}

// run returns only after the AMQP client is closed.
func run(ctx context.Context, cfg *config.Config, logger *applog.Logger) error {
	if !cfg.AMQPEnabled() {
		return errAMQPRequired
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		return fmt.Errorf("initialize AMQP client: %w", err)
	}
	defer client.Close()

	audit := worker.NewAuditWorker(logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := client.ConsumeProjectionComputed(gctx, audit.Handle)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error { return audit.RunReports(gctx, cfg.AuditReportInterval) })

	if err := g.Wait(); err != nil {
		return err
	}

	r := audit.Report()
	logger.Info("Worker stopped gracefully",
		applog.FieldOperation, applog.OpShutdown,
		"events", r.Count,
		"duplicates", r.Duplicates)
	return nil
}
