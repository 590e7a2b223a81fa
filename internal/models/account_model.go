package models

import (
	"database/sql"
	"time"
)

// Account is a linked Facebook page credential owned by one user.
// AccessToken is stored encrypted at rest.
type Account struct {
	ID             int64          `db:"id" json:"id"`
	UserID         int64          `db:"user_id" json:"user_id"`
	AccountName    string         `db:"account_name" json:"account_name"`
	AccessToken    string         `db:"access_token" json:"-"`
	PageID         sql.NullString `db:"page_id" json:"page_id"`
	TokenExpiresAt sql.NullTime   `db:"expires_at" json:"token_expires_at"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}
