package transfer

import (
	"github.com/Akhand-Replit/facebook-handler/internal/models"
)

type PostCreation struct {
	Content string `json:"content"`
	Link    string `json:"link"`
}

// CreatePostResult reports a remote create. CacheWarning is set when the
// post was created on Facebook but the local cache write failed; the
// operation is still a success.
type CreatePostResult struct {
	FacebookPostID string `json:"fb_post_id"`
	LocalPostID    int64  `json:"post_id"`
	CacheWarning   string `json:"cache_warning,omitempty"`
}

// PostDetail is a cached post joined with its owning account.
type PostDetail struct {
	models.Post
	UserID      int64  `json:"user_id"`
	AccountName string `json:"account_name"`
}

type PostUpdateRequest struct {
	FacebookPostID string `json:"fb_post_id"`
	Content        string `json:"content"`
	AccountID      int64  `json:"account_id"`
}
