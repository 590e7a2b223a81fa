package models

import (
	"database/sql"
	"time"
)

type User struct {
	ID           int64          `db:"id" json:"id"`
	Username     string         `db:"username" json:"username"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Email        sql.NullString `db:"email" json:"email"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}
