package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cypherlabdev/bracket-predictor-service/internal/bracket"
	"github.com/cypherlabdev/bracket-predictor-service/internal/config"
	"github.com/cypherlabdev/bracket-predictor-service/internal/frc"
	httpHandler "github.com/cypherlabdev/bracket-predictor-service/internal/handler/http"
	"github.com/cypherlabdev/bracket-predictor-service/internal/messaging"
	"github.com/cypherlabdev/bracket-predictor-service/internal/metrics"
	"github.com/cypherlabdev/bracket-predictor-service/internal/rating"
	"github.com/cypherlabdev/bracket-predictor-service/internal/replay"
	"github.com/cypherlabdev/bracket-predictor-service/internal/store"
	"github.com/cypherlabdev/bracket-predictor-service/internal/tracker"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig(os.Getenv("BRACKET_PREDICTOR_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Setup logger
	logger := setupLogger(cfg.Logging)
	logger.Info().Int("year", cfg.Tracker.Year).Msg("starting bracket-predictor-service")

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New(prometheus.DefaultRegisterer)

	// Create Redis store
	redisStore := store.NewRedisStore(
		store.RedisStoreConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		logger,
	)
	defer redisStore.Close()

	// Test Redis connection
	if err := redisStore.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	logger.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")

	// Create data source client
	client := frc.NewClient(
		frc.ClientConfig{
			BaseURL: cfg.TBA.BaseURL,
			AuthKey: cfg.TBA.AuthKey,
			Timeout: cfg.TBA.Timeout,
		},
		m,
		logger,
	)

	// Create rating engine and bootstrap from prior seasons
	engine := rating.NewEngine(cfg.Rating.ToRatingParams(), logger)
	replayer := replay.NewReplayer(client, redisStore, engine, cfg.ToReplayConfig(), logger)
	if err := replayer.Bootstrap(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to bootstrap rating engine")
	}
	logger.Info().Int("competitors", engine.Size()).Msg("rating engine ready")

	// Create bracket simulator
	sim := bracket.NewSimulator(engine, cfg.Simulator.ToSimulatorConfig(), logger)

	// Create snapshot publisher
	var publisher tracker.Publisher
	if cfg.Kafka.Enabled {
		kafkaPublisher := messaging.NewKafkaPublisher(
			messaging.KafkaPublisherConfig{
				Brokers: cfg.Kafka.Brokers,
				Topic:   cfg.Kafka.Topic,
			},
			logger,
		)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	// Create poller and register the season's tracked events
	poller := tracker.NewPoller(cfg.Tracker.PollInterval, publisher, m, logger)
	if err := registerTrackers(ctx, poller, client, redisStore, engine, sim, cfg, m, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to register event trackers")
	}

	// Start background poller
	go poller.Run(ctx)

	// Initialize HTTP handler over published snapshots
	eventsHandler := httpHandler.NewEventsHandler(poller, logger)

	// Setup HTTP server routes
	mux := http.NewServeMux()

	// Health and monitoring endpoints
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		readyHandler(w, r, redisStore)
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Register API routes
	eventsHandler.RegisterRoutes(mux)
	logger.Info().Msg("API routes registered")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start HTTP server in goroutine
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("shutting down gracefully...")

	// Cancel context to stop the poller
	cancel()

	// Shutdown HTTP server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	logger.Info().Msg("shutdown complete")
}

// registerTrackers builds one tracker per configured event. An empty event
// list tracks every event in the configured year.
func registerTrackers(
	ctx context.Context,
	poller *tracker.Poller,
	client *frc.Client,
	redisStore *store.RedisStore,
	engine *rating.Engine,
	sim *bracket.Simulator,
	cfg *config.Config,
	m *metrics.Metrics,
	logger zerolog.Logger,
) error {
	events, err := client.YearEvents(ctx, cfg.Tracker.Year)
	if err != nil {
		return fmt.Errorf("failed to list events for %d: %w", cfg.Tracker.Year, err)
	}

	wanted := make(map[string]bool, len(cfg.Tracker.Events))
	for _, code := range cfg.Tracker.Events {
		wanted[code] = true
	}

	opts := tracker.Options{PollInterval: cfg.Tracker.PollInterval}
	registered := 0
	for _, info := range events {
		if len(wanted) > 0 && !wanted[info.Code] {
			continue
		}
		poller.Track(tracker.New(info, client, redisStore, engine, sim, opts, m, logger))
		registered++
	}

	if registered == 0 {
		return fmt.Errorf("no trackable events for %d (configured: %v)", cfg.Tracker.Year, cfg.Tracker.Events)
	}
	logger.Info().Int("events", registered).Msg("registered event trackers")
	return nil
}

// setupLogger configures the logger based on config
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Set format
	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return log.Logger.With().Str("service", "bracket-predictor").Logger()
}

// healthHandler returns 200 if service is running
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// readyHandler returns 200 if service is ready to accept traffic
func readyHandler(w http.ResponseWriter, r *http.Request, s *store.RedisStore) {
	// Check Redis connection
	if err := s.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("Redis unavailable"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("READY"))
}
