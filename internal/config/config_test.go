// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"btc-retire/internal/domain"
	"btc-retire/pkg/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, db.DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "data/bitcoin-retire.db", cfg.DB.Path)
	assert.Equal(t, time.Hour, cfg.Price.MaxAge)
	assert.Equal(t, "0 0 0 8 * *", cfg.Schedule.MonthlyCron)
	assert.Equal(t, "0 0 0 * * 3", cfg.Schedule.WeeklyCron)

	start, err := cfg.StartDate()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.October, 8, 0, 0, 0, 0, time.UTC), start)

	require.Len(t, cfg.Simulation.Wallets, 10)
	assert.Equal(t, "Good help", cfg.Simulation.Wallets[0].Name)
	assert.Equal(t, "5000", cfg.Simulation.Wallets[4].WithdrawalUSD.String())
	assert.Equal(t, "Luxury freedom (Weekly)", cfg.Simulation.Wallets[9].Name)
	assert.Equal(t, domain.FrequencyWeekly, cfg.Simulation.Wallets[9].Frequency)
	assert.Equal(t, "1250", cfg.Simulation.Wallets[9].WithdrawalUSD.String())
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlDoc := `
server:
  port: "8081"
database:
  driver: pgx
  host: db.internal
  name: btcretire
  user: retire
price:
  max_age: 30m
  static: "65000.50"
simulation:
  start_date: "2024-01-31"
  wallets:
    - name: Solo
      frequency: weekly
      withdrawal_usd: "300.25"
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o600))
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "9090", cfg.Server.Port, "env overrides file")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, db.DriverPgx, cfg.DB.Driver)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 30*time.Minute, cfg.Price.MaxAge)

	price, err := cfg.StaticPrice()
	require.NoError(t, err)
	assert.True(t, price.Valid)
	assert.Equal(t, "65000.5", price.Decimal.String())

	require.Len(t, cfg.Simulation.Wallets, 1)
	assert.Equal(t, "300.25", cfg.Simulation.Wallets[0].WithdrawalUSD.String())
}

func TestValidate(t *testing.T) {
	base := func(t *testing.T) *AppConfig {
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		return cfg
	}

	cfg := base(t)
	cfg.DB.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = base(t)
	cfg.Price.Static = "-5"
	assert.Error(t, cfg.Validate())

	cfg = base(t)
	cfg.Simulation.StartDate = "08/10/2025"
	assert.Error(t, cfg.Validate())

	cfg = base(t)
	cfg.Simulation.Wallets = []domain.WalletSeed{{Name: "x", Frequency: "daily"}}
	assert.Error(t, cfg.Validate())

	cfg = base(t)
	cfg.Log.Format = "xml"
	assert.Error(t, cfg.Validate())
}
