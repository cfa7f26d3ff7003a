package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-booking/internal/appointments"
	"clinic-booking/internal/auth"
	"clinic-booking/internal/clinics"
	"clinic-booking/internal/configs"
	"clinic-booking/internal/dashboard"
	"clinic-booking/internal/database"
	"clinic-booking/internal/doctors"
	"clinic-booking/internal/integrity"
	"clinic-booking/internal/logging"
	"clinic-booking/internal/metrics"
	"clinic-booking/internal/patients"
	"clinic-booking/internal/scheduler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var configPath = flag.String("config", "", "Config file path")

// loadConfigurations loads system configurations based on the given config file. The server signs
// tokens, so the private key is required.
func loadConfigurations() configs.Config {
	if *configPath == "" {
		zlog.Fatal().Msg("no config file path was given")
	}
	config, err := configs.Load(*configPath, configs.WithRequiredPrivateKey())
	if err != nil {
		zlog.Fatal().Err(err).Msg("could not load the configuration")
	}
	return config
}

// createDBConnection creates a new database connection based on the given configuration.
func createDBConnection(config configs.Config) database.Connection {
	dbConn, err := database.NewConnection(config)
	if err != nil {
		zlog.Fatal().Err(err).Msg("could not connect to the database")
	}
	return dbConn
}

// startScheduler schedules the integrity check when a cron expression is configured.
func startScheduler(config configs.Config, dbConn database.Connection, logger zerolog.Logger) *scheduler.Service {
	if config.IntegrityCheckCron() == "" {
		return nil
	}
	service, err := scheduler.New(logger)
	if err != nil {
		zlog.Fatal().Err(err).Msg("could not create the scheduler")
	}
	if err = integrity.Schedule(service, integrity.NewChecker(dbConn), config.IntegrityCheckCron(), logger); err != nil {
		zlog.Fatal().Err(err).Msg("could not schedule the integrity check")
	}
	service.Start()
	return service
}

func main() {
	// Load dependencies
	flag.Parse()
	config := loadConfigurations()
	logger := logging.New(os.Stdout, config.LogLevel(), config.LogPretty())
	zlog.Logger = logger
	dbConn := createDBConnection(config)

	// Init Authorizer service
	authorizer := auth.NewService(config, dbConn)

	// Setup the HTTP router
	router := chi.NewRouter()
	router.Use(middleware.Heartbeat("/health"))
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(metrics.PrometheusMiddleware)
	router.Method(http.MethodGet, "/metrics", metrics.Handler())

	router.Group(func(api chi.Router) {
		api.Use(middleware.SetHeader("Content-type", "application/json"))

		// Setup Auth routes
		auth.Setup(api, logger, config, dbConn)

		// Setup Clinic routes, the clinic service scopes every other context
		locator := clinics.Setup(api, logger, authorizer, dbConn)

		doctors.Setup(api, logger, authorizer, locator, dbConn)
		patients.Setup(api, logger, authorizer, locator, config, dbConn)
		if err := appointments.Setup(api, logger, authorizer, locator, config, dbConn); err != nil {
			zlog.Fatal().Err(err).Msg("could not setup the appointment routes")
		}
		dashboard.Setup(api, logger, authorizer, locator, dbConn)
	})

	jobs := startScheduler(config, dbConn, logger)

	// Creates the HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.ServerPort()),
		Handler:      router,
		ErrorLog:     log.New(logger, "", 0),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	// Context cancelled by OS signalling in order to gracefully shutdown the HTTP server and other resources
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Int32("port", config.ServerPort()).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Warn().Msg("server stopping")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if jobs != nil {
			if err := jobs.Stop(); err != nil {
				logger.Error().Err(err).Msg("an error occurred while the scheduler was shutting down")
			}
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("an error occurred while server is shutting down: %w", err)
		}
		return nil
	})

	err := g.Wait()
	dbConn.Close()
	if err != nil {
		logger.Error().Err(err).Msg("server terminated with error")
		os.Exit(1)
	}
	logger.Info().Msg("server shutdown successfully")
}
