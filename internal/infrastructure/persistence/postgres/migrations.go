package postgres

import (
	"context"
	"fmt"
)

const migration001Up = `
-- Migration: Create users table
-- Version: 001

CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    first_name VARCHAR(100) NOT NULL,
    last_name VARCHAR(100) NOT NULL,
    birthdate DATE NOT NULL,
    email VARCHAR(255) NOT NULL UNIQUE
);

CREATE INDEX IF NOT EXISTS idx_users_email_lower ON users(LOWER(email));
CREATE INDEX IF NOT EXISTS idx_users_birthdate ON users(birthdate);
`

const migration002Up = `
-- Migration: Create trainings table
-- Version: 002

CREATE TABLE IF NOT EXISTS trainings (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL,
    start_time TIMESTAMP WITH TIME ZONE NOT NULL,
    end_time TIMESTAMP WITH TIME ZONE NOT NULL,
    activity_type VARCHAR(20) NOT NULL,
    distance DOUBLE PRECISION NOT NULL DEFAULT 0,
    average_speed DOUBLE PRECISION NOT NULL DEFAULT 0,

    -- Owner deletion is not coordinated with trainings, so user_id is a
    -- plain reference, not a foreign key with ON DELETE behavior.
    CONSTRAINT valid_activity_type CHECK (
        activity_type IN ('RUNNING', 'CYCLING', 'SWIMMING', 'WALKING', 'TENNIS', 'OTHER')
    ),
    CONSTRAINT valid_time_range CHECK (end_time >= start_time)
);

CREATE INDEX IF NOT EXISTS idx_trainings_user_id ON trainings(user_id);
CREATE INDEX IF NOT EXISTS idx_trainings_end_time ON trainings(end_time);
CREATE INDEX IF NOT EXISTS idx_trainings_activity_type ON trainings(activity_type);
`

// migrations lists all migrations in order.
var migrations = []string{
	migration001Up,
	migration002Up,
}

// Migrate applies all migrations. Statements are idempotent, so re-running
// on an already-migrated database is safe.
func Migrate(ctx context.Context, conn *Connection) error {
	for i, m := range migrations {
		if _, err := conn.Exec(ctx, m); err != nil {
			return fmt.Errorf("postgres: migration %03d failed: %w", i+1, err)
		}
	}
	return nil
}
