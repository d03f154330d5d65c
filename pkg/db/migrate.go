// pkg/db/migrate.go
package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS wallets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		withdrawal_frequency TEXT NOT NULL CHECK (withdrawal_frequency IN ('monthly', 'weekly')),
		periodic_withdrawal_usd TEXT NOT NULL,
		current_sats INTEGER NOT NULL CHECK (current_sats >= 0),
		status TEXT NOT NULL CHECK (status IN ('active', 'depleted')),
		start_date DATE NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		wallet_id INTEGER NOT NULL REFERENCES wallets(id) ON DELETE CASCADE,
		date DATE NOT NULL,
		btc_price_usd TEXT NOT NULL,
		sats_withdrawn INTEGER NOT NULL CHECK (sats_withdrawn >= 0),
		sats_remaining INTEGER NOT NULL CHECK (sats_remaining >= 0),
		usd_withdrawn TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_wallet_date ON transactions (wallet_id, date)`,
	`CREATE TABLE IF NOT EXISTS btc_prices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		price TEXT NOT NULL,
		timestamp TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_btc_prices_timestamp ON btc_prices (timestamp)`,
	`CREATE TABLE IF NOT EXISTS simulation_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		current_month INTEGER NOT NULL DEFAULT 0,
		current_week INTEGER NOT NULL DEFAULT 0,
		updated_at TIMESTAMP NOT NULL
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS wallets (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		withdrawal_frequency TEXT NOT NULL CHECK (withdrawal_frequency IN ('monthly', 'weekly')),
		periodic_withdrawal_usd NUMERIC(20, 2) NOT NULL,
		current_sats BIGINT NOT NULL CHECK (current_sats >= 0),
		status TEXT NOT NULL CHECK (status IN ('active', 'depleted')),
		start_date DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id BIGSERIAL PRIMARY KEY,
		wallet_id BIGINT NOT NULL REFERENCES wallets(id) ON DELETE CASCADE,
		date DATE NOT NULL,
		btc_price_usd NUMERIC(20, 8) NOT NULL,
		sats_withdrawn BIGINT NOT NULL CHECK (sats_withdrawn >= 0),
		sats_remaining BIGINT NOT NULL CHECK (sats_remaining >= 0),
		usd_withdrawn NUMERIC(20, 2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_wallet_date ON transactions (wallet_id, date)`,
	`CREATE TABLE IF NOT EXISTS btc_prices (
		id BIGSERIAL PRIMARY KEY,
		price NUMERIC(20, 8) NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_btc_prices_timestamp ON btc_prices (timestamp)`,
	`CREATE TABLE IF NOT EXISTS simulation_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		current_month INTEGER NOT NULL DEFAULT 0,
		current_week INTEGER NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	// Prices keep the precision the withdrawal was computed with.
	`ALTER TABLE transactions ALTER COLUMN btc_price_usd TYPE NUMERIC(20, 8)`,
	`ALTER TABLE btc_prices ALTER COLUMN price TYPE NUMERIC(20, 8)`,
}

// Migrate creates the schema for the connected dialect if it does not exist
// and makes sure the single simulation_state row is present.
func Migrate(ctx context.Context, conn *sqlx.DB) error {
	schema := postgresSchema
	if conn.DriverName() == DriverSQLite {
		schema = sqliteSchema
	}

	tx, err := BeginTx(ctx, conn)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer RollbackTx(tx)

	sqlTx := tx.(*sqlx.Tx)
	for _, stmt := range schema {
		if _, err := sqlTx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	seed := sqlTx.Rebind(`INSERT INTO simulation_state (id, current_month, current_week, updated_at)
		VALUES (1, 0, 0, CURRENT_TIMESTAMP) ON CONFLICT (id) DO NOTHING`)
	if _, err := sqlTx.ExecContext(ctx, seed); err != nil {
		return fmt.Errorf("seed simulation state: %w", err)
	}

	return CommitTx(tx)
}
