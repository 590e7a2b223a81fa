package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	config "github.com/Akhand-Replit/facebook-handler/configs"
	"github.com/Akhand-Replit/facebook-handler/internal/models"
	"github.com/Akhand-Replit/facebook-handler/internal/repository"
	"github.com/Akhand-Replit/facebook-handler/internal/transfer"
	"github.com/Akhand-Replit/facebook-handler/pkg/utils"
)

type CommentService interface {
	Fetch(ctx context.Context, postID, userID int64, limit int) ([]*models.Comment, error)
	Create(ctx context.Context, userID int64, cc *transfer.CommentCreation) (*transfer.CreateCommentResult, error)
	Update(ctx context.Context, userID int64, req *transfer.CommentUpdateRequest) error
	Delete(ctx context.Context, userID int64, fbCommentID string) error
	Reply(ctx context.Context, userID int64, fbCommentID, content string) (string, error)
	List(ctx context.Context, postID, userID int64, limit, offset int) ([]*models.Comment, error)
	Search(ctx context.Context, postID, userID int64, term string, limit, offset int) ([]*models.Comment, error)
	Count(ctx context.Context, postID, userID int64) (int64, error)
}

type commentService struct {
	cfg config.Config
	cr  repository.CommentRepository
	pr  repository.PostRepository
	ar  repository.AccountRepository
}

func NewCommentService(
	cfg config.Config,
	cr repository.CommentRepository,
	pr repository.PostRepository,
	ar repository.AccountRepository) CommentService {
	return &commentService{cfg: cfg, cr: cr, pr: pr, ar: ar}
}

// ownedPost resolves a cached post and the decrypted token of its owning
// account, verifying the caller owns that account.
func (s *commentService) ownedPost(ctx context.Context, postID, userID int64) (*transfer.PostDetail, string, error) {
	detail, exists, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, "", fmt.Errorf("error getting post info")
	}
	if !exists || detail.UserID != userID {
		slog.Info(ErrPostNotFound.Error())
		return nil, "", ErrPostNotFound
	}

	account, exists, err := s.ar.GetByID(ctx, detail.AccountID)
	if err != nil {
		return nil, "", fmt.Errorf("error getting account info")
	}
	if !exists {
		slog.Info(ErrAccountNotFound.Error())
		return nil, "", ErrAccountNotFound
	}

	token, err := utils.DecryptToken(account.AccessToken, s.cfg.SecretKey)
	if err != nil {
		return nil, "", fmt.Errorf("error getting account info")
	}
	return detail, token, nil
}

// ownedComment resolves a cached comment back to its post and token.
func (s *commentService) ownedComment(ctx context.Context, fbCommentID string, userID int64) (*transfer.CommentDetail, string, error) {
	comment, exists, err := s.cr.GetByFacebookID(ctx, fbCommentID)
	if err != nil {
		return nil, "", fmt.Errorf("error getting comment info")
	}
	if !exists {
		slog.Info(ErrCommentNotFound.Error())
		return nil, "", ErrCommentNotFound
	}

	_, token, err := s.ownedPost(ctx, comment.PostID, userID)
	if err != nil {
		return nil, "", err
	}
	return comment, token, nil
}

// Fetch pulls the remote comment thread and upserts each comment into
// the local cache.
func (s *commentService) Fetch(ctx context.Context, postID, userID int64, limit int) ([]*models.Comment, error) {
	detail, token, err := s.ownedPost(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("access_token", token)
	params.Set("fields", "id,message,created_time")
	params.Set("limit", strconv.Itoa(limit))

	body, err := graphDo(ctx, http.MethodGet, s.cfg.GraphAPIBase+"/"+detail.FacebookPostID+"/comments", params)
	if err != nil {
		return nil, err
	}

	var cr transfer.CommentsResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		slog.Info(err.Error())
		return nil, &ExternalAPIError{Body: err.Error()}
	}

	comments := make([]*models.Comment, 0, len(cr.Data))
	for _, fc := range cr.Data {
		comment := &models.Comment{
			FacebookCommentID: fc.ID,
			PostID:            postID,
			Content:           fc.Message,
		}
		if t, ok := parseGraphTime(fc.CreatedTime); ok {
			comment.CommentedAt = t
		}

		id, err := s.cr.Save(ctx, comment)
		if err != nil {
			return nil, fmt.Errorf("failed to save comment")
		}
		comment.ID = id
		comments = append(comments, comment)
	}
	return comments, nil
}

// Create posts a new comment on the remote post. As with posts, the
// remote write wins: a failed cache write is a warning, not an error.
func (s *commentService) Create(ctx context.Context, userID int64, cc *transfer.CommentCreation) (*transfer.CreateCommentResult, error) {
	if cc == nil || cc.Content == "" {
		err := errors.New("comment content cannot be empty")
		slog.Info(err.Error())
		return nil, err
	}

	detail, token, err := s.ownedPost(ctx, cc.PostID, userID)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("access_token", token)
	params.Set("message", cc.Content)

	body, err := graphDo(ctx, http.MethodPost, s.cfg.GraphAPIBase+"/"+detail.FacebookPostID+"/comments", params)
	if err != nil {
		return nil, err
	}

	var resp transfer.CreateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		slog.Info(err.Error())
		return nil, &ExternalAPIError{Body: err.Error()}
	}
	if resp.ID == "" {
		return nil, &ExternalAPIError{Body: string(body)}
	}

	result := &transfer.CreateCommentResult{FacebookCommentID: resp.ID}

	comment := &models.Comment{
		FacebookCommentID: resp.ID,
		PostID:            cc.PostID,
		Content:           cc.Content,
		CommentedAt:       time.Now(),
	}
	localID, err := s.cr.Save(ctx, comment)
	if err != nil {
		slog.Info(err.Error())
		result.CacheWarning = "comment created but failed to save locally"
		return result, nil
	}
	result.LocalCommentID = localID
	return result, nil
}

// Update edits the remote comment and re-upserts the supplied content
// locally.
func (s *commentService) Update(ctx context.Context, userID int64, req *transfer.CommentUpdateRequest) error {
	if req == nil || req.Content == "" {
		err := errors.New("comment content cannot be empty")
		slog.Info(err.Error())
		return err
	}

	comment, token, err := s.ownedComment(ctx, req.FacebookCommentID, userID)
	if err != nil {
		return err
	}

	params := url.Values{}
	params.Set("access_token", token)
	params.Set("message", req.Content)

	if _, err := graphDo(ctx, http.MethodPost, s.cfg.GraphAPIBase+"/"+req.FacebookCommentID, params); err != nil {
		return err
	}

	updated := &models.Comment{
		FacebookCommentID: req.FacebookCommentID,
		PostID:            comment.PostID,
		Content:           req.Content,
		CommentedAt:       comment.CommentedAt,
	}
	if _, err := s.cr.Save(ctx, updated); err != nil {
		slog.Info("comment updated on facebook but failed to update locally")
	}
	return nil
}

func (s *commentService) Delete(ctx context.Context, userID int64, fbCommentID string) error {
	comment, token, err := s.ownedComment(ctx, fbCommentID, userID)
	if err != nil {
		return err
	}

	params := url.Values{}
	params.Set("access_token", token)

	if _, err := graphDo(ctx, http.MethodDelete, s.cfg.GraphAPIBase+"/"+fbCommentID, params); err != nil {
		return err
	}

	if err := s.cr.Remove(ctx, comment.ID); err != nil {
		slog.Info("comment deleted on facebook but failed to delete locally")
	}
	return nil
}

// Reply creates a comment on the comment's own sub-thread. The parent
// relationship is not persisted locally; replies show up as plain
// comments on the next sync.
func (s *commentService) Reply(ctx context.Context, userID int64, fbCommentID, content string) (string, error) {
	if content == "" {
		err := errors.New("reply content cannot be empty")
		slog.Info(err.Error())
		return "", err
	}

	_, token, err := s.ownedComment(ctx, fbCommentID, userID)
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("access_token", token)
	params.Set("message", content)

	body, err := graphDo(ctx, http.MethodPost, s.cfg.GraphAPIBase+"/"+fbCommentID+"/comments", params)
	if err != nil {
		return "", err
	}

	var resp transfer.CreateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		slog.Info(err.Error())
		return "", &ExternalAPIError{Body: err.Error()}
	}
	if resp.ID == "" {
		return "", &ExternalAPIError{Body: string(body)}
	}
	return resp.ID, nil
}

func (s *commentService) List(ctx context.Context, postID, userID int64, limit, offset int) ([]*models.Comment, error) {
	if _, _, err := s.ownedPost(ctx, postID, userID); err != nil {
		return nil, err
	}

	comments, err := s.cr.ListByPost(ctx, postID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error getting comments")
	}
	return comments, nil
}

func (s *commentService) Search(ctx context.Context, postID, userID int64, term string, limit, offset int) ([]*models.Comment, error) {
	if _, _, err := s.ownedPost(ctx, postID, userID); err != nil {
		return nil, err
	}

	comments, err := s.cr.Search(ctx, postID, term, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error searching comments")
	}
	return comments, nil
}

func (s *commentService) Count(ctx context.Context, postID, userID int64) (int64, error) {
	if _, _, err := s.ownedPost(ctx, postID, userID); err != nil {
		return 0, err
	}

	count, err := s.cr.CountByPost(ctx, postID)
	if err != nil {
		return 0, fmt.Errorf("error counting comments")
	}
	return count, nil
}
