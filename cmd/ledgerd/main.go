package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"ledgerd/internal/amqp"
	"ledgerd/internal/backend"
	"ledgerd/internal/cli"
	apphttp "ledgerd/internal/http"
	"ledgerd/internal/rpc"
	"ledgerd/internal/services"
	"ledgerd/internal/transport"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	result, err := backend.Open(cfg, logger)
	if err != nil {
		logger.Error("Failed to open storage backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Storage cleanup failed", "error", err)
			}
		}
	}()

	// Optional AMQP publisher; an empty URL disables the sync pipeline.
	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	svc := services.NewLedgerService(result.Store, publisher)
	dispatcher := rpc.NewDispatcher(svc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Stdio transport: the process lives as long as stdin does.
	g.Go(func() error {
		defer stop()
		return transport.ServeLines(ctx, os.Stdin, os.Stdout, dispatcher)
	})

	if cfg.HTTPEnabled {
		srv := apphttp.NewServer(":"+cfg.Port, dispatcher, cfg.APIToken)
		srv.ReadTimeout = 10 * time.Second
		srv.WriteTimeout = 10 * time.Second
		srv.IdleTimeout = 60 * time.Second
		srv.MaxHeaderBytes = 1 << 16 // 64KB

		g.Go(func() error {
			logger.Info("Starting HTTP server", "port", cfg.Port)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Server shutdown error", "error", err)
			}
			return nil
		})
	}

	logger.Info("Ledger service started",
		"backend", cfg.DataBackend,
		"http_enabled", cfg.HTTPEnabled,
		"amqp_enabled", publisher != nil)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Service error", "error", err)
		os.Exit(1)
	}
	logger.Info("Service stopped gracefully")
}
