package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"

	"github.com/neomorfeo/coursebridge/internal/adapter/eventbus"
	"github.com/neomorfeo/coursebridge/internal/adapter/fsm"
	tracing "github.com/neomorfeo/coursebridge/internal/adapter/otel"
	queue "github.com/neomorfeo/coursebridge/internal/adapter/river"
	"github.com/neomorfeo/coursebridge/internal/adapter/sqlite"
	"github.com/neomorfeo/coursebridge/internal/app"
	"github.com/neomorfeo/coursebridge/internal/domain/learning"
	"github.com/neomorfeo/coursebridge/internal/domain/records"
	"github.com/neomorfeo/coursebridge/internal/domain/tenant"

	handler "github.com/neomorfeo/coursebridge/internal/adapter/http"
)

const (
	serviceName    = "coursebridge"
	serviceVersion = "0.1.0"
)

func main() {
	if err := run(); err != nil {
		slog.Error("coursebridge stopped", "error", err)
		os.Exit(1)
	}
}

// config is read from the environment.
type config struct {
	Port         string
	DatabasePath string
	LogLevel     slog.Level
	RiverWorkers int
	OTel         tracing.Config
}

func loadConfig() (config, error) {
	cfg := config{
		Port:         envOrDefault("PORT", "8080"),
		DatabasePath: envOrDefault("DATABASE_PATH", "coursebridge.db"),
		OTel:         tracing.ConfigFromEnv(),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(envOrDefault("LOG_LEVEL", "info"))); err != nil {
		return config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	workers, err := strconv.Atoi(envOrDefault("RIVER_MAX_WORKERS", "2"))
	if err != nil || workers < 1 {
		return config{}, fmt.Errorf("RIVER_MAX_WORKERS must be a positive integer, got %q", os.Getenv("RIVER_MAX_WORKERS"))
	}
	cfg.RiverWorkers = workers

	return cfg, nil
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Telemetry ---
	providers, err := tracing.Setup(ctx, cfg.OTel)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			slog.Error("telemetry shutdown failed", "error", err)
		}
	}()

	// --- Adapters (out) ---
	db, err := tracing.OpenDB(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	store, err := sqlite.NewFromDB(db)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	riverClient, err := queue.Setup(ctx, db, cfg.RiverWorkers)
	if err != nil {
		return fmt.Errorf("river: %w", err)
	}
	// River gets its own context so in-flight jobs finish during Stop.
	if err := riverClient.Start(context.Background()); err != nil {
		return fmt.Errorf("starting river: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := riverClient.Stop(stopCtx); err != nil {
			slog.Error("river shutdown failed", "error", err)
		}
	}()

	// --- Application ---
	services, err := buildServices(store, queue.NewForwarder(riverClient).Handle)
	if err != nil {
		return err
	}

	// --- Adapters (in) ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("coursebridge listening", "port", cfg.Port, "docs", "http://localhost:"+cfg.Port+"/docs")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	}
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("stopped")
	return nil
}

// buildServices wires repositories, the event bus and its consumers. The
// synchronous listeners are subscribed before forward, so a failed
// in-process consumer keeps the event out of the job queue.
func buildServices(store *sqlite.Store, forward eventbus.Handler) (handler.Services, error) {
	tenants := tracing.NewTracingTenantRepository(store.Tenants())
	students := tracing.NewTracingStudentRepository(store.Students())
	learningCourses := tracing.NewTracingLearningCourseRepository(store.LearningCourses())
	recordsCourses := tracing.NewTracingRecordsCourseRepository(store.RecordsCourses())

	recordsSvc := app.NewRecordsService(recordsCourses, fsm.New(records.EnrollmentTransitions))

	bus := eventbus.New()
	eventbus.Subscribe(bus, app.TenantCreatedListener{}.OnTenantCreated)
	eventbus.Subscribe(bus, app.NewEnrollmentListener(recordsSvc).OnStudentEnrolled)
	if forward != nil {
		bus.SubscribeName(tenant.CreatedEventName, forward)
		bus.SubscribeName(learning.StudentEnrolledEventName, forward)
	}

	tracedBus, err := tracing.NewTracingBus(bus)
	if err != nil {
		return handler.Services{}, fmt.Errorf("event bus metrics: %w", err)
	}

	return handler.Services{
		Tenants:  app.NewTenantService(tenants, tracedBus, fsm.New(tenant.Transitions)),
		Learning: app.NewLearningService(students, learningCourses, tracedBus),
		Records:  recordsSvc,
	}, nil
}

func newRouter(services handler.Services) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(router)))
	router.Use(middleware.Logger)

	api := humachi.New(router, huma.DefaultConfig(serviceName, serviceVersion))
	handler.Register(api, services)
	return router
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
