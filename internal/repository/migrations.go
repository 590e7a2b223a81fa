package repository

import (
	"context"
	"database/sql"
	"log/slog"
)

var createTableStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(100) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		email VARCHAR(255),
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS fb_accounts (
		id SERIAL PRIMARY KEY,
		user_id INTEGER REFERENCES users(id),
		account_name VARCHAR(100) NOT NULL,
		access_token TEXT NOT NULL,
		page_id VARCHAR(255),
		expires_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id SERIAL PRIMARY KEY,
		fb_post_id VARCHAR(255) UNIQUE NOT NULL,
		account_id INTEGER REFERENCES fb_accounts(id),
		content TEXT,
		post_url TEXT,
		posted_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id SERIAL PRIMARY KEY,
		fb_comment_id VARCHAR(255) UNIQUE NOT NULL,
		post_id INTEGER REFERENCES posts(id),
		content TEXT,
		commented_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
}

// Migrate creates the schema if it does not exist yet. Safe to run on
// every startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range createTableStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			slog.Error(err.Error())
			return err
		}
	}
	return nil
}
