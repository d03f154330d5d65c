// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	router "btc-retire/internal/api"
	"btc-retire/internal/api/handler"
	"btc-retire/internal/collector"
	"btc-retire/internal/config"
	"btc-retire/internal/repository"
	"btc-retire/internal/repository/sqlstore"
	"btc-retire/internal/scheduler"
	"btc-retire/internal/service"
	"btc-retire/internal/util"
	"btc-retire/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB
	Redis  *redis.Client // nil when no cache is configured

	// Repositories
	WalletRepository      repository.WalletRepository
	TransactionRepository repository.TransactionRepository
	PriceRepository       repository.PriceRepository
	SimulationRepository  repository.SimulationRepository

	// Services
	SimulationService service.SimulationService
	WithdrawalService service.WithdrawalService
	WalletService     service.WalletService
	RoundService      service.RoundService
	Collector         *collector.Collector
	Scheduler         *scheduler.Scheduler

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components from cfg.
// ctx bounds the lifetime of scheduled jobs.
func (app *Application) Initialize(ctx context.Context, cfg *config.AppConfig) error {
	// 1. Validate Configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(cfg.Log.Level, cfg.Log.Format)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.", "db_driver", cfg.DB.Driver)

	// 3. Connect to Database and migrate
	database, err := db.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	if err := db.Migrate(ctx, app.DB); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	app.Logger.Info("Database connection established.")

	// 4. Initialize Repositories
	app.WalletRepository = sqlstore.NewWalletRepository()
	app.TransactionRepository = sqlstore.NewTransactionRepository()
	app.PriceRepository = sqlstore.NewPriceRepository()
	app.SimulationRepository = sqlstore.NewSimulationRepository()
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize the price collector
	fetcher, err := app.newFetcher()
	if err != nil {
		return err
	}
	var cache collector.Cache = collector.NoopCache{}
	if cfg.Redis.Addr != "" {
		app.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := app.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		cache = collector.NewRedisCache(app.Redis)
		app.Logger.Info("Redis price cache enabled.", "addr", cfg.Redis.Addr)
	}
	app.Collector = collector.NewCollector(fetcher, app.PriceRepository, app.DB, cache, cfg.Price.MaxAge, app.Logger)

	// 6. Initialize Services
	// Pass the concrete db.BeginTx, db.CommitTx, db.RollbackTx functions from pkg/db
	startDate, _ := cfg.StartDate() // validated above
	app.SimulationService = service.NewSimulationService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.SimulationRepository,
		app.WalletRepository,
		startDate,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		app.Logger,
	)
	app.WithdrawalService = service.NewWithdrawalService(
		app.DB,
		app.DB,
		app.WalletRepository,
		app.TransactionRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		app.Logger,
	)
	app.WalletService = service.NewWalletService(
		app.DB,
		app.DB,
		app.WalletRepository,
		app.TransactionRepository,
		app.PriceRepository,
		app.SimulationRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		app.Logger,
	)
	app.RoundService = service.NewRoundService(app.SimulationService, app.WithdrawalService, app.Collector, app.Logger)
	app.Logger.Info("Services initialized.")

	// 7. Seed the ledger on first start
	created, err := app.WalletService.SeedWallets(ctx, cfg.Simulation.Wallets, startDate)
	if err != nil {
		return fmt.Errorf("failed to seed wallets: %w", err)
	}
	if created > 0 {
		app.Logger.Info("Seed wallets created.", "count", created)
	}

	// 8. Initialize the scheduler (started by the caller)
	loc, _ := cfg.Location() // validated above
	app.Scheduler = scheduler.NewScheduler(ctx, loc, app.RoundService, app.Collector, app.Logger)
	if err := app.Scheduler.RegisterAll(cfg.Schedule.MonthlyCron, cfg.Schedule.WeeklyCron, cfg.Schedule.PriceCron); err != nil {
		return fmt.Errorf("failed to register scheduled jobs: %w", err)
	}

	// 9. Initialize HTTP Handlers and Router
	walletHandler := handler.NewWalletHandler(app.WalletService, app.Collector, app.Logger)
	simulationHandler := handler.NewSimulationHandler(app.RoundService, app.SimulationService, app.Logger)
	app.HTTPHandler = router.NewRouter(router.RouterConfig{
		CORSOrigins: cfg.Server.CORSOrigins,
		StaticDir:   cfg.Server.StaticDir,
	}, walletHandler, simulationHandler, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// newFetcher picks the static mock when a fixed price is configured and
// CoinGecko otherwise.
func (app *Application) newFetcher() (collector.Fetcher, error) {
	static, err := app.Config.StaticPrice()
	if err != nil {
		return nil, err
	}
	if static.Valid {
		app.Logger.Info("Using static BTC price.", "price", static.Decimal.String())
		return &collector.MockFetcher{Price: static.Decimal}, nil
	}
	return collector.NewCoinGeckoFetcher(app.Config.Price.BaseURL, app.Config.Price.Proxy, app.Config.Price.Timeout), nil
}

// ResetLedger wipes wallets, transactions and prices, reseeds the configured
// wallets and zeroes the simulation clock.
func (app *Application) ResetLedger(ctx context.Context) error {
	startDate, err := app.Config.StartDate()
	if err != nil {
		return err
	}
	if err := app.WalletService.ResetLedger(ctx, app.Config.Simulation.Wallets, startDate); err != nil {
		return fmt.Errorf("failed to reset ledger: %w", err)
	}
	app.Logger.Info("Ledger reset.", "wallets", len(app.Config.Simulation.Wallets))
	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Logger.Error("Failed to close redis client", "error", err)
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
