package models

import (
	"database/sql"
	"time"
)

// Post is a locally cached copy of a Facebook page post. FacebookPostID
// is the upsert key; saving an existing id updates the row in place.
type Post struct {
	ID             int64          `db:"id" json:"id"`
	FacebookPostID string         `db:"fb_post_id" json:"fb_post_id"`
	AccountID      int64          `db:"account_id" json:"account_id"`
	Content        string         `db:"content" json:"content"`
	PostURL        sql.NullString `db:"post_url" json:"post_url"`
	PostedAt       time.Time      `db:"posted_at" json:"posted_at"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}
