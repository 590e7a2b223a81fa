package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	config "github.com/Akhand-Replit/facebook-handler/configs"
	"github.com/Akhand-Replit/facebook-handler/internal/repository"
	"github.com/Akhand-Replit/facebook-handler/internal/transfer"
	"github.com/Akhand-Replit/facebook-handler/pkg/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
)

// Long-lived page tokens last about 60 days; Facebook sometimes omits
// expires_in from the exchange response.
const defaultTokenLifetime = 60 * 24 * time.Hour

// Tokens expiring within this window get re-exchanged.
const refreshWindow = 7 * 24 * time.Hour

type FacebookAuthService interface {
	GetAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (string, error)
	ExchangeForLongLivedToken(ctx context.Context, shortToken string) (string, time.Time, error)
	VerifyToken(ctx context.Context, accessToken string) (bool, *time.Time, error)
	GetPages(ctx context.Context, accessToken string) ([]transfer.Page, error)
	RefreshIfNeeded(ctx context.Context, accountID, userID int64) error
}

type facebookAuthService struct {
	cfg config.Config
	a   repository.AccountRepository
}

func NewFacebookAuthService(cfg config.Config, a repository.AccountRepository) FacebookAuthService {
	return &facebookAuthService{cfg: cfg, a: a}
}

func (s *facebookAuthService) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.FacebookAppID,
		ClientSecret: s.cfg.FacebookAppSecret,
		RedirectURL:  s.cfg.FacebookRedirectURI,
		Scopes:       []string{"pages_show_list", "pages_manage_posts", "pages_read_engagement"},
		Endpoint:     facebook.Endpoint,
	}
}

func (s *facebookAuthService) GetAuthURL(state string) string {
	return s.oauthConfig().AuthCodeURL(state)
}

func (s *facebookAuthService) ExchangeCode(ctx context.Context, code string) (string, error) {
	token, err := s.oauthConfig().Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return "", &ExternalAPIError{Body: err.Error()}
	}
	return token.AccessToken, nil
}

// ExchangeForLongLivedToken trades a short-lived user token for a
// long-lived one using the app credentials.
func (s *facebookAuthService) ExchangeForLongLivedToken(ctx context.Context, shortToken string) (string, time.Time, error) {
	params := url.Values{}
	params.Set("grant_type", "fb_exchange_token")
	params.Set("client_id", s.cfg.FacebookAppID)
	params.Set("client_secret", s.cfg.FacebookAppSecret)
	params.Set("fb_exchange_token", shortToken)

	body, err := graphDo(ctx, http.MethodGet, s.cfg.GraphAPIBase+"/oauth/access_token", params)
	if err != nil {
		return "", time.Time{}, err
	}

	var tr transfer.TokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		slog.Info(err.Error())
		return "", time.Time{}, &ExternalAPIError{Body: err.Error()}
	}
	if tr.AccessToken == "" {
		return "", time.Time{}, &ExternalAPIError{Body: string(body)}
	}

	expiresAt := time.Now().Add(defaultTokenLifetime)
	if tr.ExpiresIn > 0 {
		expiresAt = GetExpiresAt(tr.ExpiresIn)
	}
	return tr.AccessToken, expiresAt, nil
}

// VerifyToken asks the debug_token endpoint whether the token is still
// valid; the returned expiry is nil when Facebook reports none.
func (s *facebookAuthService) VerifyToken(ctx context.Context, accessToken string) (bool, *time.Time, error) {
	params := url.Values{}
	params.Set("input_token", accessToken)
	params.Set("access_token", accessToken)

	body, err := graphDo(ctx, http.MethodGet, s.cfg.GraphAPIBase+"/debug_token", params)
	if err != nil {
		return false, nil, err
	}

	var dr transfer.DebugTokenResponse
	if err := json.Unmarshal(body, &dr); err != nil {
		slog.Info(err.Error())
		return false, nil, &ExternalAPIError{Body: err.Error()}
	}

	var expiresAt *time.Time
	if dr.Data.ExpiresAt > 0 {
		t := time.Unix(dr.Data.ExpiresAt, 0)
		expiresAt = &t
	}
	return dr.Data.IsValid, expiresAt, nil
}

func (s *facebookAuthService) GetPages(ctx context.Context, accessToken string) ([]transfer.Page, error) {
	params := url.Values{}
	params.Set("access_token", accessToken)

	body, err := graphDo(ctx, http.MethodGet, s.cfg.GraphAPIBase+"/me/accounts", params)
	if err != nil {
		return nil, err
	}

	var pr transfer.PagesResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		slog.Info(err.Error())
		return nil, &ExternalAPIError{Body: err.Error()}
	}
	return pr.Data, nil
}

// RefreshIfNeeded re-exchanges the account token when its expiry falls
// within the next seven days (or is already past). A token without an
// expiry is left alone.
func (s *facebookAuthService) RefreshIfNeeded(ctx context.Context, accountID, userID int64) error {
	account, exists, err := s.a.GetByIDForUser(ctx, accountID, userID)
	if err != nil {
		return fmt.Errorf("failed to refresh token")
	}
	if !exists {
		slog.Info(ErrAccountNotFound.Error())
		return ErrAccountNotFound
	}

	if !account.TokenExpiresAt.Valid || account.TokenExpiresAt.Time.After(time.Now().Add(refreshWindow)) {
		return nil
	}

	currentToken, err := utils.DecryptToken(account.AccessToken, s.cfg.SecretKey)
	if err != nil {
		return fmt.Errorf("failed to refresh token")
	}

	newToken, expiresAt, err := s.ExchangeForLongLivedToken(ctx, currentToken)
	if err != nil {
		return err
	}

	encrypted, err := utils.EncryptToken(newToken, s.cfg.SecretKey)
	if err != nil {
		return fmt.Errorf("failed to refresh token")
	}

	patch := &transfer.AccountPatch{
		AccessToken: &encrypted,
		ExpiresAt:   &expiresAt,
	}
	if err := s.a.Update(ctx, accountID, userID, patch); err != nil {
		return fmt.Errorf("failed to refresh token")
	}
	return nil
}
