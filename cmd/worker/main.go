package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"alx_travel_app/internal/adapter/persistence/repository"
	"alx_travel_app/internal/adapter/queue"
	"alx_travel_app/internal/infrastructure/broker/kafka"
	"alx_travel_app/internal/infrastructure/config"
	"alx_travel_app/internal/infrastructure/database"
	"alx_travel_app/internal/infrastructure/notification"
	"alx_travel_app/internal/infrastructure/obs"
	"alx_travel_app/internal/infrastructure/payments"
	"alx_travel_app/internal/infrastructure/worker"
	"alx_travel_app/internal/usecase"

	_ "github.com/joho/godotenv/autoload"
)

// The worker delivers queued e-mails (queue mode only) and sweeps pending
// payments whose gateway callback was lost.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger("dev").Error("config load failed", "error", err)
		os.Exit(1)
	}
	logger := obs.Install(cfg.Env)

	ddb, err := database.ConnectDynamoDB(ctx, database.Settings{
		Region:          cfg.AWSRegion,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		Endpoint:        cfg.DynamoDBEndpoint,
	})
	if err != nil {
		logger.Error("dynamodb init failed", "error", err)
		os.Exit(1)
	}

	gateway, err := payments.NewGateway(cfg)
	if err != nil {
		logger.Error("payment gateway init failed", "error", err, "gateway", cfg.PaymentGateway)
		os.Exit(1)
	}

	notifier, closeNotifier, err := notification.NewNotifier(cfg)
	if err != nil {
		logger.Error("notifier init failed", "error", err, "mode", cfg.NotificationMode)
		os.Exit(1)
	}
	releaseNotifier := func() {
		if err := closeNotifier(); err != nil {
			logger.Warn("notifier close failed", "error", err)
		}
	}
	defer releaseNotifier()
	exit := exitAfter(releaseNotifier)

	listingRepo := repository.NewListingDynamoRepository(ddb)
	bookingRepo := repository.NewBookingDynamoRepository(ddb)
	paymentRepo := repository.NewPaymentDynamoRepository(ddb)
	paymentUseCase := usecase.NewPaymentUseCase(paymentRepo, bookingRepo, listingRepo, gateway, notifier, usecase.PaymentSettings{
		PublicBaseURL: cfg.PublicBaseURL,
		FromEmail:     cfg.DefaultFromEmail,
	})

	var wg sync.WaitGroup

	reconciler := &worker.Reconciler{
		Payments:  paymentUseCase,
		Interval:  cfg.ReconcileInterval,
		OlderThan: cfg.ReconcileAfter,
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("reconciler starting", "interval", cfg.ReconcileInterval, "older_than", cfg.ReconcileAfter)
		if err := reconciler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("reconciler stopped", "error", err)
			stop()
		}
	}()

	if cfg.NotificationMode == config.NotificationQueue {
		handler := queue.NewEmailHandler(notification.NewMailer(notification.SMTPSettingsFrom(cfg)))
		consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, nil, handler)
		if err != nil {
			logger.Error("kafka consumer init failed", "error", err)
			stop()
			wg.Wait()
			exit()
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("email consumer starting", "topic", cfg.KafkaEmailTopic, "group", cfg.KafkaGroupID)
			if err := consumer.Run(ctx, []string{cfg.KafkaEmailTopic}); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("email consumer stopped", "error", err)
				stop()
			}
		}()
		go func() {
			<-ctx.Done()
			if err := consumer.Close(); err != nil {
				logger.Warn("kafka consumer close failed", "error", err)
			}
		}()
	} else {
		logger.Info("notifications are inline, email consumer disabled")
	}

	wg.Wait()
	logger.Info("worker stopped")
}

var osExit = os.Exit

// exitAfter returns a fatal exit that runs release first, since os.Exit skips
// deferred calls.
func exitAfter(release func()) func() {
	return func() {
		release()
		osExit(1)
	}
}
