package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alx_travel_app/internal/adapter/http/handlers"
	"alx_travel_app/internal/adapter/http/routes"
	"alx_travel_app/internal/adapter/persistence/repository"
	"alx_travel_app/internal/infrastructure/config"
	"alx_travel_app/internal/infrastructure/database"
	"alx_travel_app/internal/infrastructure/notification"
	"alx_travel_app/internal/infrastructure/obs"
	"alx_travel_app/internal/infrastructure/payments"
	"alx_travel_app/internal/infrastructure/storage/s3"
	"alx_travel_app/internal/usecase"
	"alx_travel_app/internal/usecase/interfaces"

	_ "github.com/joho/godotenv/autoload"
)

// @title           ALX Travel API
// @version         1.0
// @description     Listings, bookings and booking payments backed by DynamoDB.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

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

	listingRepo := repository.NewListingDynamoRepository(ddb)
	bookingRepo := repository.NewBookingDynamoRepository(ddb)
	paymentRepo := repository.NewPaymentDynamoRepository(ddb)

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

	var images interfaces.IImageStorage
	if cfg.S3Endpoint != "" {
		uploader, err := s3.NewUploader(s3.Settings{
			Endpoint:       cfg.S3Endpoint,
			PublicEndpoint: cfg.S3PublicEndpoint,
			AccessKey:      cfg.S3AccessKey,
			SecretKey:      cfg.S3SecretKey,
			Bucket:         cfg.S3Bucket,
			UseSSL:         cfg.S3UseSSL,
		})
		if err != nil {
			logger.Error("s3 uploader init failed", "error", err)
			exit()
		}
		images = uploader
	} else {
		logger.Warn("S3_ENDPOINT not set, listing image upload disabled")
	}

	listingUseCase := usecase.NewListingUseCase(listingRepo, images, cfg.PaymentCurrency)
	bookingUseCase := usecase.NewBookingUseCase(bookingRepo, listingRepo)
	paymentUseCase := usecase.NewPaymentUseCase(paymentRepo, bookingRepo, listingRepo, gateway, notifier, usecase.PaymentSettings{
		PublicBaseURL: cfg.PublicBaseURL,
		FromEmail:     cfg.DefaultFromEmail,
	})

	server := routes.NewServer(cfg, routes.Handlers{
		Listing: handlers.NewListingHandler(listingUseCase),
		Booking: handlers.NewBookingHandler(bookingUseCase),
		Payment: handlers.NewPaymentHandler(paymentUseCase),
	})

	go func() {
		<-ctx.Done()
		logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("api starting", "addr", cfg.HTTPAddr, "env", cfg.Env, "gateway", gateway.Name(), "notifications", cfg.NotificationMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		exit()
	}
	logger.Info("api stopped")
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
