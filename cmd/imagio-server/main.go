package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/imagio/imagio/internal/config"
	"github.com/imagio/imagio/internal/logging"
	"github.com/imagio/imagio/internal/middleware"
	"github.com/imagio/imagio/internal/rest"
	"github.com/imagio/imagio/media/application"
	"github.com/imagio/imagio/media/persistence"
	"github.com/imagio/imagio/media/storage"
	"github.com/imagio/imagio/shared/db/sqlite"
)

const shutdownTimeout = 5 * time.Second

func main() {
	logging.Setup()

	root := &cobra.Command{
		Use:   "imagio-server",
		Short: "Media asset service with an on-demand variant cache",
	}

	root.AddCommand(serveCmd(), initCmd(), refreshCmd())

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: cfg.DBPath})
			if err := database.Connect(); err != nil {
				return err
			}
			defer database.Close()

			originals, err := storage.New(cfg.Originals.ToStorage())
			if err != nil {
				return err
			}
			derivatives, err := storage.New(cfg.Derivatives.ToStorage())
			if err != nil {
				return err
			}

			repo := persistence.NewImageRepository(database.DB())
			variants := application.NewVariantService(originals, derivatives)
			resolver := application.NewDedupVariantService(variants)
			images := application.NewImageService(repo, originals, variants)

			engine := gin.New()
			engine.Use(middleware.RequestLogger())
			engine.Use(gin.CustomRecovery(middleware.HandlePanics()))
			rest.NewApi(engine, rest.NewImageHandler(images, resolver))

			srv := &http.Server{
				Addr:    cfg.Address,
				Handler: engine,
			}

			go func() {
				log.Info().Str("config", cfg.String()).Msg("Starting server on " + cfg.Address)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("Failed to start server")
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt)
			<-quit

			log.Info().Msg("Shutting down server...")
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				return err
			}

			log.Info().Msg("Server stopped")
			return nil
		},
	}
}

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the metadata database and run migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if force {
				if err := os.Remove(cfg.DBPath); err != nil && !os.IsNotExist(err) {
					return err
				}
			}

			database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: cfg.DBPath})
			if err := database.Connect(); err != nil {
				return err
			}
			defer database.Close()

			log.Info().Str("path", cfg.DBPath).Msg("Database initialized")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "recreate the database from scratch")
	return cmd
}

func refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Rebuild metadata records from the filesystem originals root",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if storage.Backend(cfg.Originals.Backend) != storage.BackendFilesystem {
				return errors.New("refresh requires a filesystem originals backend")
			}

			database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: cfg.DBPath})
			if err := database.Connect(); err != nil {
				return err
			}
			defer database.Close()

			originals, err := storage.New(cfg.Originals.ToStorage())
			if err != nil {
				return err
			}
			derivatives, err := storage.New(cfg.Derivatives.ToStorage())
			if err != nil {
				return err
			}

			repo := persistence.NewImageRepository(database.DB())
			variants := application.NewVariantService(originals, derivatives)
			images := application.NewImageService(repo, originals, variants)

			return images.Refresh(cmd.Context(), cfg.Originals.Root)
		},
	}
}
