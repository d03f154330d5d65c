// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"btc-retire/internal/domain"
	"btc-retire/pkg/db" // Import db package for its Config struct

	"github.com/caarlos0/env/v6"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	Server struct {
		Port        string   `yaml:"port" env:"SERVER_PORT"`
		StaticDir   string   `yaml:"static_dir" env:"STATIC_DIR"` // Optional UI assets served at /
		CORSOrigins []string `yaml:"cors_origins" env:"CORS_ORIGINS"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"` // json or text
	} `yaml:"log"`
	DB    db.Config `yaml:"database"`
	Price struct {
		BaseURL string        `yaml:"base_url" env:"COINGECKO_URL"`
		MaxAge  time.Duration `yaml:"max_age" env:"PRICE_MAX_AGE"`
		Timeout time.Duration `yaml:"timeout" env:"PRICE_TIMEOUT"`
		Proxy   string        `yaml:"proxy" env:"HTTPS_PROXY"`
		Static  string        `yaml:"static" env:"BTC_STATIC_PRICE"` // Fixed price; disables CoinGecko
	} `yaml:"price"`
	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"` // Empty disables the cache
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`
	Schedule struct {
		Disabled    bool   `yaml:"disabled" env:"SCHEDULE_DISABLED"`
		MonthlyCron string `yaml:"monthly_cron" env:"CRON_MONTHLY"`
		WeeklyCron  string `yaml:"weekly_cron" env:"CRON_WEEKLY"`
		PriceCron   string `yaml:"price_cron" env:"CRON_PRICE"`
		Timezone    string `yaml:"timezone" env:"SCHEDULE_TIMEZONE"`
	} `yaml:"schedule"`
	Simulation struct {
		StartDate string              `yaml:"start_date" env:"SIMULATION_START_DATE"`
		Wallets   []domain.WalletSeed `yaml:"wallets"`
	} `yaml:"simulation"`
}

// LoadConfig reads the YAML file at path (a missing file is not an error),
// applies environment variable overrides and fills in defaults.
func LoadConfig(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	// Environment variable overrides
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "3000"
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}

	if c.DB.Driver == "" {
		c.DB.Driver = db.DriverSQLite
	}
	if c.DB.Driver == db.DriverSQLite && c.DB.Path == "" {
		c.DB.Path = "data/bitcoin-retire.db"
	}
	if c.DB.Driver != db.DriverSQLite {
		if c.DB.Host == "" {
			c.DB.Host = "localhost"
		}
		if c.DB.Port == 0 {
			c.DB.Port = 5432
		}
		if c.DB.SSLMode == "" {
			c.DB.SSLMode = "disable"
		}
	}

	if c.Price.BaseURL == "" {
		c.Price.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if c.Price.MaxAge == 0 {
		c.Price.MaxAge = time.Hour
	}
	if c.Price.Timeout == 0 {
		c.Price.Timeout = 10 * time.Second
	}

	if c.Schedule.MonthlyCron == "" {
		c.Schedule.MonthlyCron = "0 0 0 8 * *"
	}
	if c.Schedule.WeeklyCron == "" {
		c.Schedule.WeeklyCron = "0 0 0 * * 3"
	}
	if c.Schedule.PriceCron == "" {
		c.Schedule.PriceCron = "0 0 * * * *"
	}
	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = "UTC"
	}

	if c.Simulation.StartDate == "" {
		c.Simulation.StartDate = "2025-10-08"
	}
	if len(c.Simulation.Wallets) == 0 {
		c.Simulation.Wallets = DefaultWalletSeeds()
	}
}

// Validate checks that all fields hold usable values.
func (c *AppConfig) Validate() error {
	switch c.DB.Driver {
	case db.DriverSQLite:
		if c.DB.Path == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	case db.DriverPostgres, db.DriverPgx:
		if c.DB.DBName == "" || c.DB.User == "" {
			return fmt.Errorf("database.name and database.user are required for %s", c.DB.Driver)
		}
	default:
		return fmt.Errorf("database.driver must be sqlite, postgres or pgx, got %q", c.DB.Driver)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("log.format must be json or text, got %q", c.Log.Format)
	}
	if c.Price.MaxAge <= 0 || c.Price.Timeout <= 0 {
		return fmt.Errorf("price.max_age and price.timeout must be positive")
	}
	if _, err := c.StaticPrice(); err != nil {
		return err
	}
	if _, err := c.StartDate(); err != nil {
		return fmt.Errorf("simulation.start_date: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("schedule.timezone: %w", err)
	}
	for _, w := range c.Simulation.Wallets {
		if w.Name == "" {
			return fmt.Errorf("simulation.wallets: name is required")
		}
		if !w.Frequency.Valid() {
			return fmt.Errorf("simulation.wallets %q: frequency must be monthly or weekly", w.Name)
		}
		if !w.WithdrawalUSD.IsPositive() {
			return fmt.Errorf("simulation.wallets %q: withdrawal_usd must be positive", w.Name)
		}
	}
	return nil
}

// StartDate parses simulation.start_date.
func (c *AppConfig) StartDate() (time.Time, error) {
	return domain.ParseDate(c.Simulation.StartDate)
}

// Location loads schedule.timezone.
func (c *AppConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Schedule.Timezone)
}

// StaticPrice parses price.static; the result is invalid when unset.
func (c *AppConfig) StaticPrice() (decimal.NullDecimal, error) {
	if c.Price.Static == "" {
		return decimal.NullDecimal{}, nil
	}
	p, err := decimal.NewFromString(c.Price.Static)
	if err != nil || !p.IsPositive() {
		return decimal.NullDecimal{}, fmt.Errorf("price.static must be a positive number, got %q", c.Price.Static)
	}
	return decimal.NewNullDecimal(p), nil
}

// DefaultWalletSeeds returns the five monthly and five weekly demo wallets.
func DefaultWalletSeeds() []domain.WalletSeed {
	names := []string{"Good help", "Boost life quality", "Comfortable living", "Premium lifestyle", "Luxury freedom"}

	seeds := make([]domain.WalletSeed, 0, 2*len(names))
	for i, name := range names {
		seeds = append(seeds, domain.WalletSeed{
			Name:          name,
			Frequency:     domain.FrequencyMonthly,
			WithdrawalUSD: decimal.NewFromInt(int64(1000 * (i + 1))),
		})
	}
	for i, name := range names {
		seeds = append(seeds, domain.WalletSeed{
			Name:          name + " (Weekly)",
			Frequency:     domain.FrequencyWeekly,
			WithdrawalUSD: decimal.NewFromInt(int64(250 * (i + 1))),
		})
	}
	return seeds
}
