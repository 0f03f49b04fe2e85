package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mindtrack/mindtrack/internal/config"
	"github.com/mindtrack/mindtrack/internal/domain/audit"
	"github.com/mindtrack/mindtrack/internal/domain/dailylog"
	"github.com/mindtrack/mindtrack/internal/domain/medication"
	"github.com/mindtrack/mindtrack/internal/domain/provider"
	"github.com/mindtrack/mindtrack/internal/domain/report"
	"github.com/mindtrack/mindtrack/internal/domain/user"
	"github.com/mindtrack/mindtrack/internal/platform/apperr"
	"github.com/mindtrack/mindtrack/internal/platform/auth"
	"github.com/mindtrack/mindtrack/internal/platform/db"
	"github.com/mindtrack/mindtrack/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mindtrack-server",
		Short: "Medication adherence and mood tracking API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				state := "pending"
				appliedAt := ""
				if s.Applied {
					state = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format(time.RFC3339)
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, state, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsProduction() {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg)
	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	issuer := auth.NewTokenIssuer([]byte(cfg.JWTSecret))
	recorder := audit.NewRecorder(audit.NewRepoPG(pool), logger)

	userRepo := user.NewRepoPG(pool)
	medicationRepo := medication.NewRepoPG(pool)
	dailyLogRepo := dailylog.NewRepoPG(pool)
	reportRepo := report.NewRepoPG(pool)
	providerRepo := provider.NewRepoPG(pool)

	userHandler := user.NewHandler(user.NewService(userRepo, issuer, recorder))
	medicationHandler := medication.NewHandler(medication.NewService(medicationRepo, recorder))
	dailyLogHandler := dailylog.NewHandler(dailylog.NewService(dailyLogRepo, recorder))
	reportHandler := report.NewHandler(report.NewService(
		reportRepo, dailyLogRepo, medicationRepo, recorder, logger, cfg.AppURL))
	providerHandler := provider.NewHandler(provider.NewService(
		providerRepo, userRepo, dailyLogRepo, medicationRepo, recorder))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(logger, cfg.IsDev())

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Max:    cfg.RateLimitMax,
		Window: time.Duration(cfg.RateLimitWindowMinutes) * time.Minute,
	}))

	e.GET("/health", db.HealthHandler(pool))

	api := e.Group("/api", audit.CaptureRequestInfo())
	authed := api.Group("", auth.Authenticate(issuer))

	userHandler.RegisterRoutes(api)
	medicationHandler.RegisterRoutes(authed)
	dailyLogHandler.RegisterRoutes(authed)
	reportHandler.RegisterRoutes(api, authed)
	providerHandler.RegisterRoutes(authed)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
