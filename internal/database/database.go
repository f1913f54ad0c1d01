package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Queryer is satisfied by both *sql.DB and *sql.Tx so row-level store
// helpers can run inside or outside a transaction.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func Migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id           UUID PRIMARY KEY,
		email        VARCHAR(255) UNIQUE NOT NULL,
		username     VARCHAR(50),
		first_name   VARCHAR(100) NOT NULL DEFAULT '',
		last_name    VARCHAR(100) NOT NULL DEFAULT '',
		fullname     VARCHAR(200) NOT NULL DEFAULT '',
		role         VARCHAR(20) NOT NULL DEFAULT 'student',
		image_url    TEXT NOT NULL DEFAULT '',
		is_verified  BOOLEAN NOT NULL DEFAULT FALSE,
		is_deleted   BOOLEAN NOT NULL DEFAULT FALSE,
		permissions  TEXT[] NOT NULL DEFAULT '{}',
		created_at   TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at   TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	CREATE TABLE IF NOT EXISTS accounts (
		id          UUID PRIMARY KEY,
		user_id     UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		provider    VARCHAR(20) NOT NULL,
		provider_id VARCHAR(255),
		password    VARCHAR(255),
		is_deleted  BOOLEAN NOT NULL DEFAULT FALSE,
		created_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(user_id, provider)
	);

	CREATE INDEX IF NOT EXISTS idx_accounts_user ON accounts(user_id);

	CREATE TABLE IF NOT EXISTS student_profiles (
		user_id     UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		grade       VARCHAR(10),
		school      VARCHAR(255) NOT NULL DEFAULT '',
		bio         TEXT NOT NULL DEFAULT '',
		awards      TEXT[] NOT NULL DEFAULT '{}',
		target_exam VARCHAR(10),
		target_year INT,
		is_deleted  BOOLEAN NOT NULL DEFAULT FALSE,
		created_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS mentor_profiles (
		user_id      UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		expertise    TEXT[] NOT NULL DEFAULT '{}',
		bio          TEXT NOT NULL DEFAULT '',
		availability VARCHAR(255) NOT NULL DEFAULT '',
		is_deleted   BOOLEAN NOT NULL DEFAULT FALSE,
		created_at   TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at   TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS institute_profiles (
		user_id        UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		address        TEXT NOT NULL DEFAULT '',
		contact_number VARCHAR(20) NOT NULL DEFAULT '',
		bio            TEXT NOT NULL DEFAULT '',
		is_deleted     BOOLEAN NOT NULL DEFAULT FALSE,
		created_at     TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at     TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS student_preferences (
		user_id    UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		language   VARCHAR(50) NOT NULL DEFAULT 'English',
		is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS mentor_preferences (
		user_id    UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		language   VARCHAR(50) NOT NULL DEFAULT 'English',
		is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS institute_preferences (
		user_id    UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		language   VARCHAR(50) NOT NULL DEFAULT 'English',
		is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS categories (
		id         UUID PRIMARY KEY,
		title      VARCHAR(255) UNIQUE NOT NULL,
		type       VARCHAR(20) NOT NULL,
		parent     VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_categories_title ON categories(title);
	CREATE INDEX IF NOT EXISTS idx_categories_type ON categories(type);

	CREATE TABLE IF NOT EXISTS questions (
		id             UUID PRIMARY KEY,
		title          VARCHAR(500) UNIQUE NOT NULL,
		description    TEXT NOT NULL,
		options        TEXT[] NOT NULL,
		correct_option TEXT[] NOT NULL,
		type           VARCHAR(10) NOT NULL,
		difficulty     VARCHAR(5) NOT NULL,
		subjects       TEXT[] NOT NULL,
		chapters       TEXT[] NOT NULL,
		topics         TEXT[] NOT NULL,
		tags           TEXT[] NOT NULL DEFAULT '{}',
		author         VARCHAR(255) NOT NULL DEFAULT '',
		hints          TEXT NOT NULL DEFAULT '',
		points         INT NOT NULL DEFAULT 0,
		source         VARCHAR(255) NOT NULL DEFAULT '',
		created_at     TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at     TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_questions_title ON questions(title);
	CREATE INDEX IF NOT EXISTS idx_questions_filter ON questions(difficulty, type);
	`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}
