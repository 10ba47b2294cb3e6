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

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"hospital-management-server/internal/bootstrap"
	"hospital-management-server/internal/config"
	"hospital-management-server/internal/logging"
	"hospital-management-server/internal/models"
	"hospital-management-server/internal/routes"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hospital",
		Short: "Hospital front-desk management server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Prepare the database and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the tables and load the demo data into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, db, err := setup()
			if err != nil {
				return err
			}
			opts := bootstrapOptions(cfg)
			opts.Seed = true
			res := bootstrap.Run(cmd.Context(), db, opts, logger)
			if !res.Migrated {
				return errors.New("database is not reachable")
			}

			out := cmd.OutOrStdout()
			if !res.Seeded {
				fmt.Fprintln(out, "Database already contains data. Skipping initialization.")
				return nil
			}
			fmt.Fprintln(out, "Database initialized successfully!")
			fmt.Fprintln(out, "Default login credentials:")
			for _, cred := range bootstrap.DefaultCredentials {
				fmt.Fprintf(out, "  %-13s %s / %s\n", cred.Role+":", cred.Username, cred.Password)
			}
			return nil
		},
	}
}

// setup loads the configuration and opens the database.
func setup() (*config.Config, zerolog.Logger, *gorm.DB, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, zerolog.Nop(), nil, fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, zerolog.Nop(), nil, fmt.Errorf("load config: %w", err)
	}
	logger := logging.Default(cfg.LogLevel, cfg.IsDevelopment())
	models.BcryptCost = cfg.BcryptCost

	db, err := models.Open(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		logger.Error().Err(err).Msg("failed to open database")
		return nil, logger, nil, err
	}
	return cfg, logger, db, nil
}

func bootstrapOptions(cfg *config.Config) bootstrap.Options {
	return bootstrap.Options{
		Retries:    cfg.Bootstrap.Retries,
		RetryDelay: cfg.Bootstrap.RetryDelay,
		Seed:       cfg.Bootstrap.SeedOnStart,
	}
}

func runServer() error {
	cfg, logger, db, err := setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A database that never comes up leaves the server running; requests
	// fail until it does.
	bootstrap.Run(ctx, db, bootstrapOptions(cfg), logger)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.NewRouter(db, cfg, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Str("hospital", cfg.HospitalName).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
