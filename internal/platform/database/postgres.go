package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrMissingDSN = errors.New("database url not configured")

// Config holds pool settings; zero values fall back to sensible defaults.
type Config struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	ConnectTimeout  time.Duration
}

// Connect opens a pool, verifies it with a ping and bootstraps the schema.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	dsn := strings.TrimSpace(cfg.URL)
	if dsn == "" {
		return nil, ErrMissingDSN
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 && cfg.MinConns <= poolConfig.MaxConns {
		poolConfig.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	slog.Info("postgres connected",
		slog.String("host", poolConfig.ConnConfig.Host),
		slog.String("database", poolConfig.ConnConfig.Database),
	)

	if err := EnsureSchema(connectCtx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// EnsureSchema creates the tables the service relies on when they are missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt.sql); err != nil {
			return fmt.Errorf("ensure %s: %w", stmt.name, err)
		}
	}
	return nil
}

type schemaStatement struct {
	name string
	sql  string
}

var schemaStatements = []schemaStatement{
	{name: "menu_items", sql: `
		CREATE TABLE IF NOT EXISTS menu_items (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			description TEXT,
			category TEXT NOT NULL DEFAULT '',
			price NUMERIC(10,2),
			image_url TEXT,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			sort_order INTEGER NOT NULL DEFAULT 0,
			sides_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			sides_free_count INTEGER,
			portion_type TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`},
	{name: "daily_menu", sql: `
		CREATE TABLE IF NOT EXISTS daily_menu (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			day DATE NOT NULL,
			group_key TEXT NOT NULL,
			menu_item_id UUID NOT NULL REFERENCES menu_items(id) ON DELETE CASCADE,
			position INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`},
	{name: "daily_menu_day_idx", sql: `
		CREATE INDEX IF NOT EXISTS daily_menu_day_idx ON daily_menu (day, group_key)`},
	{name: "side_items", sql: `
		CREATE TABLE IF NOT EXISTS side_items (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE
		)`},
	{name: "daily_sides", sql: `
		CREATE TABLE IF NOT EXISTS daily_sides (
			day DATE NOT NULL,
			side_item_id UUID NOT NULL REFERENCES side_items(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (day, side_item_id)
		)`},
	{name: "side_templates", sql: `
		CREATE TABLE IF NOT EXISTS side_templates (
			side_item_id UUID PRIMARY KEY REFERENCES side_items(id) ON DELETE CASCADE,
			enabled BOOLEAN NOT NULL DEFAULT TRUE
		)`},
	{name: "app_settings", sql: `
		CREATE TABLE IF NOT EXISTS app_settings (
			id INTEGER PRIMARY KEY,
			delivery_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`},
	{name: "app_settings_row", sql: `
		INSERT INTO app_settings (id, delivery_enabled) VALUES (1, FALSE)
		ON CONFLICT (id) DO NOTHING`},
	{name: "pedidos", sql: `
		CREATE TABLE IF NOT EXISTS pedidos (
			id UUID PRIMARY KEY,
			status TEXT NOT NULL DEFAULT 'pending',
			delivery_type TEXT NOT NULL,
			customer_name TEXT NOT NULL,
			customer_phone TEXT NOT NULL,
			address_line TEXT,
			requested_time TEXT,
			observations TEXT,
			observacoes_admin TEXT,
			hora_confirmada TEXT,
			items JSONB NOT NULL,
			total NUMERIC(10,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			accepted_at TIMESTAMPTZ,
			rejected_at TIMESTAMPTZ
		)`},
	{name: "pedidos_created_idx", sql: `
		CREATE INDEX IF NOT EXISTS pedidos_created_idx ON pedidos (created_at DESC)`},
	{name: "pedidos_user_id", sql: `
		ALTER TABLE pedidos ADD COLUMN IF NOT EXISTS user_id TEXT`},
	{name: "pedidos_user_idx", sql: `
		CREATE INDEX IF NOT EXISTS pedidos_user_idx ON pedidos (user_id, created_at DESC)`},
	{name: "profiles", sql: `
		CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			full_name TEXT,
			phone TEXT,
			default_address_id UUID,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`},
	{name: "customer_addresses", sql: `
		CREATE TABLE IF NOT EXISTS customer_addresses (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			label TEXT,
			address_line TEXT NOT NULL,
			notes TEXT,
			is_default BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`},
	{name: "customer_addresses_user_idx", sql: `
		CREATE INDEX IF NOT EXISTS customer_addresses_user_idx ON customer_addresses (user_id, is_default DESC, created_at DESC)`},
}
