package transfer

import "github.com/Akhand-Replit/facebook-handler/internal/models"

type CommentCreation struct {
	PostID  int64  `json:"post_id"`
	Content string `json:"content"`
}

type CreateCommentResult struct {
	FacebookCommentID string `json:"fb_comment_id"`
	LocalCommentID    int64  `json:"comment_id"`
	CacheWarning      string `json:"cache_warning,omitempty"`
}

// CommentDetail is a cached comment joined with its post and account.
type CommentDetail struct {
	models.Comment
	FacebookPostID string `json:"fb_post_id"`
	AccountID      int64  `json:"account_id"`
}

type CommentUpdateRequest struct {
	FacebookCommentID string `json:"fb_comment_id"`
	Content           string `json:"content"`
}
