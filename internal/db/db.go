package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Connect opens a pgx pool and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string, logger zerolog.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.ConnConfig.ConnectTimeout = 10 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	logger.Info().
		Str("host", cfg.ConnConfig.Host).
		Uint16("port", cfg.ConnConfig.Port).
		Msg("connected to postgres")
	return pool, nil
}

// EnsureSchema creates the tables the handlers rely on when they are missing.
// Every statement is idempotent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	for _, step := range schemaSteps {
		if _, err := pool.Exec(ctx, step.sql); err != nil {
			return fmt.Errorf("ensure %s: %w", step.name, err)
		}
		logger.Debug().Str("step", step.name).Msg("schema ensured")
	}
	return nil
}

type schemaStep struct {
	name string
	sql  string
}

var schemaSteps = []schemaStep{
	{"users", `
        CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL UNIQUE,
            avatar_url TEXT NOT NULL DEFAULT '',
            user_type TEXT NOT NULL DEFAULT 'seeker' CHECK (user_type IN ('seeker','provider','both')),
            profile_type TEXT NOT NULL DEFAULT 'student' CHECK (profile_type IN ('student','graduate','professional')),
            bio TEXT NOT NULL DEFAULT '',
            college TEXT NOT NULL DEFAULT '',
            company TEXT NOT NULL DEFAULT '',
            phone TEXT NOT NULL DEFAULT '',
            skills TEXT[] NOT NULL DEFAULT '{}',
            hourly_rate NUMERIC(12,2) NOT NULL DEFAULT 0,
            is_verified BOOLEAN NOT NULL DEFAULT FALSE,
            rating NUMERIC(3,2) NOT NULL DEFAULT 0,
            completed_tasks INTEGER NOT NULL DEFAULT 0,
            total_earnings NUMERIC(14,2) NOT NULL DEFAULT 0,
            available_balance NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (available_balance >= 0),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`},
	{"tasks", `
        CREATE TABLE IF NOT EXISTS tasks (
            id UUID PRIMARY KEY,
            title TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            category TEXT NOT NULL DEFAULT '',
            budget NUMERIC(12,2) NOT NULL,
            deadline TIMESTAMPTZ NULL,
            status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open','assigned','in_progress','completed','cancelled')),
            seeker_id UUID NOT NULL,
            provider_id UUID NULL,
            is_urgent BOOLEAN NOT NULL DEFAULT FALSE,
            requirements TEXT[] NOT NULL DEFAULT '{}',
            voice_note_url TEXT NOT NULL DEFAULT '',
            attachment_urls TEXT[] NOT NULL DEFAULT '{}',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
        CREATE INDEX IF NOT EXISTS idx_tasks_seeker ON tasks(seeker_id);
        CREATE INDEX IF NOT EXISTS idx_tasks_provider ON tasks(provider_id)`},
	{"skills", `
        CREATE TABLE IF NOT EXISTS skills (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL UNIQUE,
            category TEXT NOT NULL DEFAULT '',
            average_price NUMERIC(12,2) NOT NULL DEFAULT 0,
            provider_count INTEGER NOT NULL DEFAULT 0,
            rating NUMERIC(3,2) NOT NULL DEFAULT 0,
            is_popular BOOLEAN NOT NULL DEFAULT FALSE
        )`},
	{"transactions", `
        CREATE TABLE IF NOT EXISTS transactions (
            id UUID PRIMARY KEY,
            task_id UUID NULL,
            payer_id UUID NULL,
            payee_id UUID NULL,
            amount NUMERIC(12,2) NOT NULL,
            platform_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
            net_amount NUMERIC(12,2) NOT NULL,
            currency TEXT NOT NULL DEFAULT 'INR',
            razorpay_order_id TEXT NOT NULL DEFAULT '',
            razorpay_payment_id TEXT NOT NULL DEFAULT '',
            razorpay_signature TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL CHECK (status IN ('pending','processing','completed','failed','refunded')),
            payment_method TEXT NOT NULL DEFAULT '',
            description TEXT NOT NULL DEFAULT '',
            metadata JSONB NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
        CREATE INDEX IF NOT EXISTS idx_transactions_payer ON transactions(payer_id);
        CREATE INDEX IF NOT EXISTS idx_transactions_payee ON transactions(payee_id)`},
	{"withdrawals", `
        CREATE TABLE IF NOT EXISTS withdrawals (
            id UUID PRIMARY KEY,
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
            processing_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
            net_amount NUMERIC(12,2) NOT NULL,
            method TEXT NOT NULL CHECK (method IN ('upi','bank_transfer')),
            account_details JSONB NOT NULL DEFAULT '{}',
            status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','completed','failed')),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`},
}
