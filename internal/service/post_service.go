package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	config "github.com/Akhand-Replit/facebook-handler/configs"
	"github.com/Akhand-Replit/facebook-handler/internal/models"
	"github.com/Akhand-Replit/facebook-handler/internal/repository"
	"github.com/Akhand-Replit/facebook-handler/internal/transfer"
	"github.com/Akhand-Replit/facebook-handler/pkg/utils"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type PostService interface {
	Fetch(ctx context.Context, accountID, userID int64, limit int) ([]*models.Post, error)
	Create(ctx context.Context, accountID, userID int64, pc *transfer.PostCreation, image *multipart.FileHeader) (*transfer.CreatePostResult, error)
	Update(ctx context.Context, userID int64, req *transfer.PostUpdateRequest) error
	Delete(ctx context.Context, userID int64, fbPostID string, accountID int64) error
	List(ctx context.Context, accountID, userID int64, limit, offset int) ([]*models.Post, error)
	Search(ctx context.Context, accountID, userID int64, term string, limit, offset int) ([]*models.Post, error)
	Count(ctx context.Context, accountID, userID int64) (int64, error)
	Info(ctx context.Context, postID, userID int64) (*transfer.PostDetail, error)
}

type postService struct {
	cfg config.Config
	pr  repository.PostRepository
	ar  repository.AccountRepository
}

func NewPostService(cfg config.Config, pr repository.PostRepository, ar repository.AccountRepository) PostService {
	return &postService{cfg: cfg, pr: pr, ar: ar}
}

func (s *postService) ownedAccount(ctx context.Context, accountID, userID int64) (*models.Account, string, error) {
	account, exists, err := s.ar.GetByIDForUser(ctx, accountID, userID)
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
	return account, token, nil
}

// Fetch pulls the page feed and upserts every post into the local cache.
func (s *postService) Fetch(ctx context.Context, accountID, userID int64, limit int) ([]*models.Post, error) {
	account, token, err := s.ownedAccount(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}
	if !account.PageID.Valid {
		slog.Info(ErrNoPageID.Error())
		return nil, ErrNoPageID
	}

	params := url.Values{}
	params.Set("access_token", token)
	params.Set("fields", "id,message,created_time,permalink_url")
	params.Set("limit", strconv.Itoa(limit))

	body, err := graphDo(ctx, http.MethodGet, s.cfg.GraphAPIBase+"/"+account.PageID.String+"/feed", params)
	if err != nil {
		return nil, err
	}

	var feed transfer.FeedResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		slog.Info(err.Error())
		return nil, &ExternalAPIError{Body: err.Error()}
	}

	posts := make([]*models.Post, 0, len(feed.Data))
	for _, fp := range feed.Data {
		post := &models.Post{
			FacebookPostID: fp.ID,
			AccountID:      accountID,
			Content:        fp.Message,
			PostURL:        sql.NullString{String: fp.PermalinkURL, Valid: fp.PermalinkURL != ""},
		}
		if t, ok := parseGraphTime(fp.CreatedTime); ok {
			post.PostedAt = t
		}

		id, err := s.pr.Save(ctx, post)
		if err != nil {
			return nil, fmt.Errorf("failed to save post")
		}
		post.ID = id
		posts = append(posts, post)
	}
	return posts, nil
}

// Create publishes to the page feed, or to the photos endpoint when an
// image is attached. An image is mutually exclusive with a link. The
// remote create is the source of truth: a failed local cache write is
// reported through CacheWarning, not as an error.
func (s *postService) Create(ctx context.Context, accountID, userID int64, pc *transfer.PostCreation, image *multipart.FileHeader) (*transfer.CreatePostResult, error) {
	if pc == nil || pc.Content == "" {
		err := errors.New("post content cannot be empty")
		slog.Info(err.Error())
		return nil, err
	}
	if image != nil && pc.Link != "" {
		err := errors.New("a post cannot carry both a link and an image")
		slog.Info(err.Error())
		return nil, err
	}

	account, token, err := s.ownedAccount(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}
	if !account.PageID.Valid {
		slog.Info(ErrNoPageID.Error())
		return nil, ErrNoPageID
	}
	pageID := account.PageID.String

	params := url.Values{}
	params.Set("access_token", token)
	params.Set("message", pc.Content)

	var body []byte
	if image != nil {
		body, err = s.uploadPhoto(ctx, pageID, params, image)
	} else {
		if pc.Link != "" {
			params.Set("link", pc.Link)
		}
		body, err = graphDo(ctx, http.MethodPost, s.cfg.GraphAPIBase+"/"+pageID+"/feed", params)
	}
	if err != nil {
		return nil, err
	}

	var cr transfer.CreateResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		slog.Info(err.Error())
		return nil, &ExternalAPIError{Body: err.Error()}
	}
	fbPostID := cr.ID
	if cr.PostID != "" {
		// photo uploads report the feed post id separately
		fbPostID = cr.PostID
	}
	if fbPostID == "" {
		return nil, &ExternalAPIError{Body: string(body)}
	}

	result := &transfer.CreatePostResult{FacebookPostID: fbPostID}

	post := &models.Post{
		FacebookPostID: fbPostID,
		AccountID:      accountID,
		Content:        pc.Content,
		PostURL:        sql.NullString{String: "https://facebook.com/" + fbPostID, Valid: true},
		PostedAt:       time.Now(),
	}
	localID, err := s.pr.Save(ctx, post)
	if err != nil {
		slog.Info(err.Error())
		result.CacheWarning = "post created but failed to save locally"
		return result, nil
	}
	result.LocalPostID = localID
	return result, nil
}

func (s *postService) uploadPhoto(ctx context.Context, pageID string, params url.Values, image *multipart.FileHeader) ([]byte, error) {
	file, err := image.Open()
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error opening image: %w", err)
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(file)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error reading image: %w", err)
	}

	kind, err := filetype.Match(imageBytes)
	if err != nil || kind == types.Unknown || !filetype.IsImage(imageBytes) {
		return nil, errors.New("attached file is not a supported image")
	}

	name, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error preparing upload: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("source", name+"."+kind.Extension)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error preparing upload: %w", err)
	}
	if _, err := part.Write(imageBytes); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error preparing upload: %w", err)
	}
	if err := w.Close(); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error preparing upload: %w", err)
	}

	u := s.cfg.GraphAPIBase + "/" + pageID + "/photos?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &buf)
	if err != nil {
		slog.Info(err.Error())
		return nil, &ExternalAPIError{Body: err.Error()}
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, &ExternalAPIError{Body: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Info(err.Error())
		return nil, &ExternalAPIError{Body: err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ExternalAPIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// resolveAccount finds the account and decrypted token for a remote post
// operation, either directly by account id or through the cached post.
func (s *postService) resolveAccount(ctx context.Context, userID int64, fbPostID string, accountID int64) (*models.Account, string, *transfer.PostDetail, error) {
	detail, _, err := s.pr.GetByFacebookID(ctx, fbPostID)
	if err != nil {
		return nil, "", nil, fmt.Errorf("error getting post info")
	}

	if accountID != 0 {
		account, token, err := s.ownedAccount(ctx, accountID, userID)
		return account, token, detail, err
	}

	if detail == nil {
		slog.Info(ErrPostNotFound.Error())
		return nil, "", nil, ErrPostNotFound
	}
	if detail.UserID != userID {
		slog.Info(ErrAccountNotFound.Error())
		return nil, "", nil, ErrAccountNotFound
	}

	account, token, err := s.ownedAccount(ctx, detail.AccountID, userID)
	return account, token, detail, err
}

// Update edits the remote post, then re-upserts the locally supplied
// content; the provider's copy is not re-fetched.
func (s *postService) Update(ctx context.Context, userID int64, req *transfer.PostUpdateRequest) error {
	if req == nil || req.Content == "" {
		err := errors.New("post content cannot be empty")
		slog.Info(err.Error())
		return err
	}

	account, token, detail, err := s.resolveAccount(ctx, userID, req.FacebookPostID, req.AccountID)
	if err != nil {
		return err
	}

	params := url.Values{}
	params.Set("access_token", token)
	params.Set("message", req.Content)

	if _, err := graphDo(ctx, http.MethodPost, s.cfg.GraphAPIBase+"/"+req.FacebookPostID, params); err != nil {
		return err
	}

	post := &models.Post{
		FacebookPostID: req.FacebookPostID,
		AccountID:      account.ID,
		Content:        req.Content,
	}
	if detail != nil {
		post.AccountID = detail.AccountID
		post.PostURL = detail.PostURL
		post.PostedAt = detail.PostedAt
	}
	if _, err := s.pr.Save(ctx, post); err != nil {
		// remote update already succeeded; the cache catches up on the
		// next sync
		slog.Info("post updated on facebook but failed to update locally")
	}
	return nil
}

// Delete removes the remote post and, when a cached copy exists, the
// local post together with its comments.
func (s *postService) Delete(ctx context.Context, userID int64, fbPostID string, accountID int64) error {
	_, token, detail, err := s.resolveAccount(ctx, userID, fbPostID, accountID)
	if err != nil {
		return err
	}

	params := url.Values{}
	params.Set("access_token", token)

	if _, err := graphDo(ctx, http.MethodDelete, s.cfg.GraphAPIBase+"/"+fbPostID, params); err != nil {
		return err
	}

	if detail != nil {
		if err := s.pr.Remove(ctx, detail.ID); err != nil {
			slog.Info("post deleted on facebook but failed to delete locally")
		}
	}
	return nil
}

func (s *postService) List(ctx context.Context, accountID, userID int64, limit, offset int) ([]*models.Post, error) {
	if _, _, err := s.ownedAccount(ctx, accountID, userID); err != nil {
		return nil, err
	}

	posts, err := s.pr.ListByAccount(ctx, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error getting posts")
	}
	return posts, nil
}

func (s *postService) Search(ctx context.Context, accountID, userID int64, term string, limit, offset int) ([]*models.Post, error) {
	if _, _, err := s.ownedAccount(ctx, accountID, userID); err != nil {
		return nil, err
	}

	posts, err := s.pr.Search(ctx, accountID, term, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error searching posts")
	}
	return posts, nil
}

func (s *postService) Count(ctx context.Context, accountID, userID int64) (int64, error) {
	if _, _, err := s.ownedAccount(ctx, accountID, userID); err != nil {
		return 0, err
	}

	count, err := s.pr.CountByAccount(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("error counting posts")
	}
	return count, nil
}

func (s *postService) Info(ctx context.Context, postID, userID int64) (*transfer.PostDetail, error) {
	detail, exists, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("error getting post info")
	}
	if !exists || detail.UserID != userID {
		slog.Info(ErrPostNotFound.Error())
		return nil, ErrPostNotFound
	}
	return detail, nil
}
