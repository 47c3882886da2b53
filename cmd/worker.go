package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rachmanhakim/hr-management/internal/core/events"
	"github.com/rachmanhakim/hr-management/internal/notification"
	"github.com/rachmanhakim/hr-management/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start worker pools for various services",
	Long:  `Start and manage worker pools for background delivery like email notifications.`,
}

// Mail worker command
var mailWorkerCmd = &cobra.Command{
	Use:   "mail",
	Short: "Start notification mail worker pool",
	Long:  `Start the SMTP worker pool and subscribe it to domain events`,
	Run: func(cmd *cobra.Command, args []string) {
		startMailWorker()
	},
}

// Event Bus worker command
var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start event bus worker",
	Long:  `Start the event bus `,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

var (
	maxWorkers   int
	jobQueueSize int
)

func startMailWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logger.LoggerWrapper()

	// Use command line flags if provided, otherwise use config values
	mailerConfig := notification.MailerConfig{
		MaxWorkers: getIntFlag(maxWorkers, config.SMTP.MaxWorkers),
		QueueSize:  getIntFlag(jobQueueSize, config.SMTP.QueueSize),
	}

	logger.Info("starting mail worker",
		"max_workers", mailerConfig.MaxWorkers,
		"queue_size", mailerConfig.QueueSize,
		"smtp_host", config.SMTP.Host)

	sender := notification.NewSMTPSender(notification.SMTPConfig{
		Host:        config.SMTP.Host,
		Port:        config.SMTP.Port,
		Username:    config.SMTP.Username,
		Password:    config.SMTP.Password,
		FromAddress: config.SMTP.FromAddress,
		FromName:    config.SMTP.FromName,
	})
	mailer := notification.NewMailer(sender, mailerConfig, logger)

	bus := events.NewEventBus(logger)
	notification.NewSubscriber(mailer, config.Server.BaseURL, logger).Register(bus)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("mail worker is running. Press Ctrl+C to stop.")

	// wait for shutdown signal
	sig := <-sigChan
	logger.Info("received signal, shutting down mail worker", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shutdownDone := make(chan struct{})
	go func() {
		mailer.Shutdown()
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		logger.Info("mail worker pool shutdown complete")
	case <-ctx.Done():
		logger.Warn("shutdown timeout reached, forcing exit")
	}
}

func startEventWorker() {
	_, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logger.LoggerWrapper()

	eventBus := events.NewEventBus(logger)

	eventBus.Subscribe("test.event", func(ctx context.Context, event events.Event) error {
		logger.Info("received test event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	})

	logger.Info("event bus worker started. Waiting for events...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("event bus is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	logger.Info("received signal, shutting down event bus", "signal", sig)
	logger.Info("event bus shutdown complete")
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	mailWorkerCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Maximum number of workers (overrides config)")
	mailWorkerCmd.Flags().IntVar(&jobQueueSize, "job-queue-size", 0, "Job queue buffer size (overrides config)")

	workerCmd.AddCommand(mailWorkerCmd)
	workerCmd.AddCommand(eventWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
