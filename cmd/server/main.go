package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/diewo77/go-crm/internal/config"
	"github.com/diewo77/go-crm/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "go-crm",
	Short: "Clients, articles and commercial documents (quotes, work orders, invoices)",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		log, err = logger.New(logger.Config{
			Level:       cfg.Log.Level,
			Format:      cfg.Log.Format,
			Output:      cfg.Log.Output,
			Development: cfg.App.Dev,
		})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run DB migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runMigrate(cfg.Database, log); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		log.Info("migrations completed successfully")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the demo articles and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := runSeed(cmd.Context(), cfg.Database, log)
		if err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
		log.Info("seeding completed successfully", zap.Int("articles_created", n))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app,
		ReadTimeout:  config.Seconds(cfg.Server.ReadTimeout),
		WriteTimeout: config.Seconds(cfg.Server.WriteTimeout),
		IdleTimeout:  config.Seconds(cfg.Server.IdleTimeout),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("storage", cfg.Database.Driver),
			zap.Bool("dev", cfg.App.Dev))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Seconds(cfg.Server.ShutdownTimeout))
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		log.Info("server stopped gracefully")
		return nil
	})
	return g.Wait()
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
