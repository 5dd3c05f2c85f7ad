package database

import (
	"context"
	"database/sql"
	"fmt"
)

type migration struct {
	version string
	name    string
	sql     string
}

// migrations are applied in order; a version is never edited once released.
var migrations = []migration{
	{
		version: "20240101000001",
		name:    "create_time_credits",
		sql: `
CREATE TABLE IF NOT EXISTS time_credits (
    id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    license_id   UUID NOT NULL,
    start_date   DATE NOT NULL,
    end_date     DATE NOT NULL,
    granted_by   TEXT NOT NULL DEFAULT '',
    credit_hours NUMERIC(10, 2) NOT NULL CHECK (credit_hours >= 0),
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ,
    CHECK (end_date >= start_date)
);

CREATE INDEX IF NOT EXISTS idx_time_credits_license ON time_credits (license_id, start_date, id);
`,
	},
	{
		version: "20240101000002",
		name:    "create_time_expenditures",
		sql: `
CREATE TABLE IF NOT EXISTS time_expenditures (
    id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    license_id  UUID NOT NULL,
    date        DATE NOT NULL,
    time_of_day INTEGER CHECK (time_of_day >= 0 AND time_of_day < 1440),
    user_ref    TEXT NOT NULL DEFAULT '',
    activity    TEXT NOT NULL CHECK (activity IN ('email_support', 'remote_support', 'phone_support')),
    task_type   TEXT NOT NULL CHECK (task_type IN ('training', 'testing', 'bugs', 'other')),
    hours_spent NUMERIC(10, 2) NOT NULL CHECK (hours_spent > 0),
    comment     TEXT NOT NULL DEFAULT '',
    is_goodwill BOOLEAN NOT NULL DEFAULT FALSE,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_time_expenditures_license ON time_expenditures (license_id, date);
`,
	},
	{
		version: "20240101000003",
		name:    "create_time_deductions",
		sql: `
CREATE TABLE IF NOT EXISTS time_deductions (
    license_id     UUID NOT NULL,
    position       INTEGER NOT NULL,
    expenditure_id UUID NOT NULL REFERENCES time_expenditures (id) ON DELETE CASCADE,
    credit_id      UUID REFERENCES time_credits (id) ON DELETE CASCADE,
    hours_deducted NUMERIC(10, 2) NOT NULL CHECK (hours_deducted > 0),
    PRIMARY KEY (license_id, position)
);

CREATE INDEX IF NOT EXISTS idx_time_deductions_credit ON time_deductions (credit_id);
`,
	},
	{
		version: "20240101000004",
		name:    "create_maintenance_invoices",
		sql: `
CREATE TABLE IF NOT EXISTS maintenance_invoices (
    id                 UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    license_id         UUID NOT NULL,
    invoice_number     TEXT,
    start_date         DATE,
    end_date           DATE,
    total_credits      NUMERIC(12, 2) NOT NULL,
    total_expenditures NUMERIC(12, 2) NOT NULL,
    balance            NUMERIC(12, 2) NOT NULL,
    line_items         JSONB NOT NULL DEFAULT '[]',
    document_reference TEXT NOT NULL DEFAULT '',
    created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_maintenance_invoices_license ON maintenance_invoices (license_id, created_at DESC);
`,
	},
}

// Migrate applies every migration not yet recorded in schema_migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	for _, m := range migrations {
		if err := apply(ctx, db, m); err != nil {
			return fmt.Errorf("migration %s (%s): %w", m.version, m.name, err)
		}
	}

	return nil
}

func apply(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var applied bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, m.version,
	).Scan(&applied); err != nil {
		return fmt.Errorf("checking version: %w", err)
	}

	if applied {
		return nil
	}

	if _, err := tx.ExecContext(ctx, m.sql); err != nil {
		return fmt.Errorf("executing: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.version, m.name,
	); err != nil {
		return fmt.Errorf("recording version: %w", err)
	}

	return tx.Commit()
}
