package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Skufu/OTCAdvisor/internal/artifacts"
	"github.com/Skufu/OTCAdvisor/internal/audit"
	"github.com/Skufu/OTCAdvisor/internal/config"
	"github.com/Skufu/OTCAdvisor/internal/form"
	"github.com/Skufu/OTCAdvisor/internal/inference"
	"github.com/Skufu/OTCAdvisor/internal/logging"
	"github.com/Skufu/OTCAdvisor/internal/recommend"
	"github.com/Skufu/OTCAdvisor/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}
	logger := logging.Init(cfg.OTEL.ServiceName, cfg.Log.Env, cfg.Log.Level)
	gin.SetMode(cfg.Server.GinMode)

	ctx := context.Background()

	if cfg.OTEL.Enabled {
		shutdown, err := telemetry.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Fatal().Err(err).Msg("telemetry setup failed")
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn().Err(err).Msg("telemetry shutdown failed")
			}
		}()
	}
	metrics, err := telemetry.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("metrics setup failed")
	}

	catalog, err := form.Default()
	if err != nil {
		logger.Fatal().Err(err).Msg("form catalog invalid")
	}

	loader := artifacts.NewLoader(&http.Client{Timeout: cfg.Artifacts.FetchTimeout}, logger)
	bundle, err := loader.Load(ctx, artifacts.Sources{
		PreprocessorPath: cfg.Artifacts.PreprocessorPath,
		PainModelPath:    cfg.Artifacts.PainModelPath,
		WeeksModelPath:   cfg.Artifacts.WeeksModelPath,
		ClassifierURL:    cfg.Artifacts.ClassifierURL,
		DatasetPath:      cfg.Artifacts.DatasetPath,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("artifact load failed")
	}

	opts := []recommend.Option{recommend.WithLogger(logger), recommend.WithMetrics(metrics)}
	var (
		db       audit.HealthChecker
		outcomes OutcomeCounter
	)
	if cfg.Database.Enabled {
		rec, err := audit.Connect(ctx, cfg.Database.URL)
		if err != nil {
			logger.Fatal().Err(err).Msg("database connection failed")
		}
		defer rec.Close()
		db = rec
		outcomes = rec
		opts = append(opts, recommend.WithRecorder(rec))
	}

	svc := recommend.NewService(inference.New(bundle), opts...)
	router := setupRouter(app{
		service:   svc,
		catalog:   catalog,
		reference: bundle.Reference,
		db:        db,
		outcomes:  outcomes,
	}, cfg.Server.MaxBodyBytes)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	logger.Info().Str("port", cfg.Server.Port).Msg("server listening")
	waitForShutdown(server, logger)
}

func waitForShutdown(server *http.Server, logger zerolog.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
