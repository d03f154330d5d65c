// cmd/api/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	app "btc-retire/internal"
	"btc-retire/internal/config"
	"btc-retire/internal/domain"
)

type options struct {
	ConfigPath string `short:"c" long:"config" env:"CONFIG_PATH" default:"configs/config.yaml" description:"Path to the YAML configuration file"`
	EnvFile    string `long:"env-file" description:"Load environment variables from this .env file before reading the configuration"`
	Reset      bool   `long:"reset" description:"Delete all wallets, transactions and prices, reseed the wallets and exit"`
	Round      string `long:"round" choice:"monthly" choice:"weekly" description:"Run one withdrawal round for the given frequency and exit"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
	}

	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create and initialize the application
	application := app.NewApplication()
	if err := application.Initialize(ctx, cfg); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = application.Shutdown(shutdownCtx)
	}()

	switch {
	case opts.Reset:
		return application.ResetLedger(ctx)
	case opts.Round != "":
		return runOnce(ctx, application, opts.Round)
	}
	return serve(ctx, application)
}

// runOnce executes one withdrawal round and prints its report.
func runOnce(ctx context.Context, application *app.Application, frequency string) error {
	f, err := domain.ParseFrequency(frequency)
	if err != nil {
		return err
	}
	report, err := application.RoundService.RunRound(ctx, f)
	if report != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(report); encErr != nil {
			application.Logger.Error("Failed to print round report", "error", encErr)
		}
	}
	return err
}

// serve runs the HTTP server and the scheduler until ctx is cancelled.
func serve(ctx context.Context, application *app.Application) error {
	cfg := application.Config
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      application.HTTPHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		application.Logger.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if !cfg.Schedule.Disabled {
		g.Go(func() error {
			application.Scheduler.RefreshPriceNow()
			application.Scheduler.Start()
			<-gctx.Done()
			application.Scheduler.Stop()
			return nil
		})
	} else {
		application.Logger.Info("Scheduler disabled; rounds run only on demand")
	}

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		application.Logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	application.Logger.Info("Application gracefully stopped.")
	return nil
}
