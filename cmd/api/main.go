package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/acidni/intake-service/internal/api/http"
	"github.com/acidni/intake-service/internal/api/http/handlers"
	"github.com/acidni/intake-service/internal/botcheck"
	"github.com/acidni/intake-service/internal/config"
	"github.com/acidni/intake-service/internal/events"
	"github.com/acidni/intake-service/internal/intake"
	"github.com/acidni/intake-service/internal/observability"
	"github.com/acidni/intake-service/internal/ratelimit"
	"github.com/acidni/intake-service/internal/sink"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()

	limiter := ratelimit.New(cfg.Redis, cfg.RateLimit, logger)
	defer limiter.Close()

	dispatcher := events.NewInMemoryDispatcher(logger)
	intake.NewAuditSubscriber(logger).Register(dispatcher)

	pipeline := intake.NewPipeline(cfg, intake.Dependencies{
		Verifier:   botcheck.NewVerifier(cfg.BotCheck, logger),
		Tracker:    sink.NewTrackerClient(cfg.Tracker, logger),
		Email:      sink.NewEmailClient(cfg.Email, logger),
		Formatter:  intake.NewFormatter(cfg.Site, cfg.Email, cfg.Tracker),
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg, limiter)
	intakeHandler := handlers.NewIntakeHandler(pipeline)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  healthHandler,
		Intake:  intakeHandler,
		Limiter: limiter,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
