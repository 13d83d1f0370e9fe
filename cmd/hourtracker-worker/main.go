package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hourtracker/internal/amqp"
	"hourtracker/internal/api"
	"hourtracker/internal/cli"
	applog "hourtracker/internal/log"
	"hourtracker/internal/timesheet"
	tsgoogle "hourtracker/internal/timesheet/google"
	"hourtracker/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)
	logger.Info("Starting hourtracker-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	// SQLite repository to read pending entries
	sqliteRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer sqliteRepo.Close()

	// Remote tracking service client (optional)
	var remote worker.RemoteEntries
	if cfg.APIBaseURL != "" {
		client, err := api.NewClient(cfg.APIBaseURL, nil)
		if err != nil {
			logger.Error("Failed to initialize API client", "error", err)
			os.Exit(1)
		}
		remote = client
		logger.Info("API client initialized", "base_url", cfg.APIBaseURL)
	} else {
		logger.Info("Remote sync disabled - no API_BASE_URL provided")
	}

	// Timesheet export target (optional)
	var sheet timesheet.RowWriter
	if cfg.SheetsSpreadsheetID != "" {
		client, err := tsgoogle.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		sheet = client
		logger.Info("Timesheet export enabled", "spreadsheet_id", cfg.SheetsSpreadsheetID)
	} else {
		logger.Info("Timesheet export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	// AMQP client for consuming messages
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	syncWorker := worker.NewSyncWorker(sqliteRepo, remote, sheet, cfg.SyncBatchSize)

	// On startup, process any pending entries that might have been missed
	logger.Info("Performing startup sync check...")
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Failed startup sync check", "error", err)
		// Don't exit - continue with normal operation
	}

	go func() {
		err := amqpClient.ConsumeEntrySync(ctx, func(msg *amqp.EntrySyncMessage) error {
			return syncWorker.HandleSyncMessage(ctx, msg)
		})
		if err != nil && err != context.Canceled {
			logger.Error("Message consumption failed", "error", err)
		}
		cancel()
	}()

	// Periodic sweep for any missed messages
	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := syncWorker.ProcessPendingEntries(ctx); err != nil {
					logger.Error("Periodic sync failed", "error", err)
				}
			}
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()

	// Give the worker time to finish current operations
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
