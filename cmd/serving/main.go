package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"autosync/serving/internal/alerting"
	"autosync/serving/internal/booking"
	"autosync/serving/internal/catalog"
	"autosync/serving/internal/config"
	"autosync/serving/internal/engine"
	"autosync/serving/internal/pipeline"
	"autosync/serving/internal/ports"
	"autosync/serving/internal/retrieval"
	"autosync/serving/internal/safety"
	"autosync/serving/internal/store"
	"autosync/serving/internal/telemetry"
	transporthttp "autosync/serving/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	logger, err := initLogger(cfg)
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	source, err := telemetry.Load(cfg.DataPath)
	if err != nil {
		logger.Fatal("Failed to load telemetry dataset", zap.Error(err))
	}
	logger.Info("telemetry dataset loaded", zap.Int("readings", source.Len()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var redisStore *store.RedisStore
	if cfg.RedisAddr != "" {
		redisStore, err = store.NewRedisStore(ctx, cfg)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer redisStore.Close()
	}

	var pgStore *store.PostgresStore
	if cfg.DBHost != "" {
		pgStore, err = store.NewPostgresStore(ctx, cfg)
		if err != nil {
			logger.Fatal("Failed to connect to postgres", zap.Error(err))
		}
		defer pgStore.Close()
	}

	var booker ports.SlotBooker
	if redisStore != nil {
		booker = booking.NewRedisCalendar(redisStore.Client())
		logger.Info("using redis slot calendar")
	} else {
		booker = booking.NewMemoryCalendar()
		logger.Info("using in-memory slot calendar")
	}

	var alerter ports.Alerter
	if cfg.AlertWebhookURL != "" {
		alerter = alerting.NewWebhook(cfg.AlertWebhookURL)
		logger.Info("using webhook alerter", zap.String("url", cfg.AlertWebhookURL))
	} else {
		alerter = alerting.NewVoiceStub(logger)
		logger.Info("using voice stub alerter")
	}

	var recorder *pipeline.Recorder
	if redisStore != nil || pgStore != nil {
		recorder = pipeline.NewRecorder(
			redisStore,
			pgStore,
			cfg.StateChannelSize,
			cfg.ArchiveChannelSize,
			cfg.EscalationChannelSize,
			cfg.ArchiveBatchSize,
			cfg.ArchiveFlushIntervalMS,
			logger,
		)
		go recorder.Run(ctx)
	}

	replay := engine.NewReplay(
		source,
		catalog.New(),
		booker,
		alerter,
		recorder,
		cfg.VehicleReg,
		time.Duration(cfg.TickIntervalMS)*time.Millisecond,
		logger,
	)
	agent := engine.NewAgent(
		retrieval.NewManualStub(),
		safety.NewGuard(),
		booker,
		alerter,
		logger,
	)

	server := transporthttp.NewServer(
		":"+cfg.HTTPPort,
		replay,
		agent,
		booker,
		alerter,
		cfg.VehicleReg,
		logger,
	)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErrChan:
		logger.Fatal("Server error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Server shutdown error", zap.Error(err))
	}
	cancel()

	logger.Info("Serving stopped")
}

func initLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.LogFormat == "json" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
