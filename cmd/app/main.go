package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"tpts/cmd"
	api "tpts/internal/adapters/in/http"
	"tpts/internal/adapters/out/filestore"
	"tpts/internal/adapters/out/kafka"
	"tpts/internal/adapters/out/postgres"
	"tpts/internal/adapters/out/redisstore"
	"tpts/internal/adapters/out/system"
	"tpts/internal/jobs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"go.uber.org/zap"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	policy, err := cmd.LoadPolicy(configs.PolicyFile)
	if err != nil {
		log.Fatalf("Error loading policy: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gormDB := mustConnectDB(configs)

	producer := kafka.NewProducer(configs.KafkaBrokers)
	defer func() {
		if closeErr := producer.Close(); closeErr != nil {
			logger.Warn("kafka producer not closed", zap.Error(closeErr))
		}
	}()

	redisClient, err := redisstore.NewClient(ctx, configs.RedisAddr, configs.RedisPassword, configs.RedisDB)
	if err != nil {
		log.Fatalf("Error connecting to redis: %v", err)
	}
	defer redisClient.Close()

	documents, err := filestore.New(configs.DocumentsDir, configs.DocumentsBaseURL, configs.MaxProofSize)
	if err != nil {
		log.Fatalf("Error preparing document storage: %v", err)
	}

	app := cmd.NewCompositionRoot(gormDB, policy.Commands(), cmd.Gateways{
		Notifier:  kafka.NewNotifier(producer, system.Clock{}),
		Payments:  kafka.NewPaymentGateway(producer),
		Documents: documents,
	}, logger)

	jobManager := jobs.NewJobManager(app.JobHandlers(), policy.Schedules(), redisstore.NewLocker(redisClient), logger)
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	server := api.NewServer(
		app.HTTPHandlers(),
		redisstore.NewOtpLimiter(redisClient, configs.OtpAttempts, configs.OtpWindow),
		configs.MaxProofSize,
		logger.Named("http"),
	)
	e, err := api.NewEcho(server)
	if err != nil {
		log.Fatalf("Error building http server: %v", err)
	}
	startWebServer(ctx, e, configs, logger)
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	gormDB, err := gorm.Open(pgdriver.Open(configs.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err = postgres.Migrate(gormDB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
	return gormDB
}

// startWebServer serves until ctx is cancelled, then drains in-flight requests.
func startWebServer(ctx context.Context, e *echo.Echo, configs cmd.Config, logger *zap.Logger) {
	e.Static("/documents", configs.DocumentsDir)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", zap.Error(err))
	}
}
