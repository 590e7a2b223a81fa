package models

import "time"

// Comment mirrors a Facebook comment on a cached post, upserted by
// FacebookCommentID.
type Comment struct {
	ID                int64     `db:"id" json:"id"`
	FacebookCommentID string    `db:"fb_comment_id" json:"fb_comment_id"`
	PostID            int64     `db:"post_id" json:"post_id"`
	Content           string    `db:"content" json:"content"`
	CommentedAt       time.Time `db:"commented_at" json:"commented_at"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}
