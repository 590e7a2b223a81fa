package service_test

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akhand-Replit/facebook-handler/internal/models"
	"github.com/Akhand-Replit/facebook-handler/internal/service"
	"github.com/Akhand-Replit/facebook-handler/pkg/utils"
)

func TestExchangeForLongLivedToken(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/oauth/access_token", r.URL.Path)
		q := r.URL.Query()
		gotQuery = map[string]string{
			"grant_type":        q.Get("grant_type"),
			"client_id":         q.Get("client_id"),
			"fb_exchange_token": q.Get("fb_exchange_token"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"long-lived-token","token_type":"bearer","expires_in":5184000}`))
	}))
	defer server.Close()

	s := service.NewFacebookAuthService(testConfig(server.URL), newFakeAccountRepo())

	token, expiresAt, err := s.ExchangeForLongLivedToken(context.Background(), "short-token")
	require.NoError(t, err)
	assert.Equal(t, "long-lived-token", token)
	assert.Equal(t, "fb_exchange_token", gotQuery["grant_type"])
	assert.Equal(t, "app-id", gotQuery["client_id"])
	assert.Equal(t, "short-token", gotQuery["fb_exchange_token"])
	assert.WithinDuration(t, time.Now().Add(5184000*time.Second), expiresAt, 5*time.Second)
}

func TestExchangeForLongLivedTokenDefaultExpiry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"long-lived-token","token_type":"bearer"}`))
	}))
	defer server.Close()

	s := service.NewFacebookAuthService(testConfig(server.URL), newFakeAccountRepo())

	_, expiresAt, err := s.ExchangeForLongLivedToken(context.Background(), "short-token")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(60*24*time.Hour), expiresAt, 5*time.Second)
}

func TestExchangeForLongLivedTokenAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid OAuth access token"}}`))
	}))
	defer server.Close()

	s := service.NewFacebookAuthService(testConfig(server.URL), newFakeAccountRepo())

	_, _, err := s.ExchangeForLongLivedToken(context.Background(), "bad-token")
	var apiErr *service.ExternalAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "Invalid OAuth access token")
}

func TestVerifyToken(t *testing.T) {
	expiry := time.Now().Add(24 * time.Hour).Unix()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/debug_token", r.URL.Path)
		w.Write([]byte(`{"data":{"is_valid":true,"expires_at":` + strconv.FormatInt(expiry, 10) + `}}`))
	}))
	defer server.Close()

	s := service.NewFacebookAuthService(testConfig(server.URL), newFakeAccountRepo())

	valid, expiresAt, err := s.VerifyToken(context.Background(), "token")
	require.NoError(t, err)
	assert.True(t, valid)
	require.NotNil(t, expiresAt)
	assert.Equal(t, expiry, expiresAt.Unix())
}

func TestGetPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/me/accounts", r.URL.Path)
		w.Write([]byte(`{"data":[{"id":"111","name":"First Page","access_token":"page-tok-1"},{"id":"222","name":"Second Page","access_token":"page-tok-2"}]}`))
	}))
	defer server.Close()

	s := service.NewFacebookAuthService(testConfig(server.URL), newFakeAccountRepo())

	pages, err := s.GetPages(context.Background(), "user-token")
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "111", pages[0].ID)
	assert.Equal(t, "First Page", pages[0].Name)
	assert.Equal(t, "page-tok-2", pages[1].AccessToken)
}

func TestRefreshIfNeeded(t *testing.T) {
	var exchangeCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		exchangeCalls++
		w.Write([]byte(`{"access_token":"refreshed-token","token_type":"bearer","expires_in":5184000}`))
	}))
	defer server.Close()

	repo := newFakeAccountRepo()
	s := service.NewFacebookAuthService(testConfig(server.URL), repo)
	ctx := context.Background()

	encrypted, err := utils.EncryptToken("old-token", testSecret)
	require.NoError(t, err)

	expiringID, err := repo.Create(ctx, &models.Account{
		UserID:         1,
		AccountName:    "Expiring",
		AccessToken:    encrypted,
		TokenExpiresAt: sql.NullTime{Time: time.Now().Add(3 * 24 * time.Hour), Valid: true},
	})
	require.NoError(t, err)

	freshID, err := repo.Create(ctx, &models.Account{
		UserID:         1,
		AccountName:    "Fresh",
		AccessToken:    encrypted,
		TokenExpiresAt: sql.NullTime{Time: time.Now().Add(30 * 24 * time.Hour), Valid: true},
	})
	require.NoError(t, err)

	noExpiryID, err := repo.Create(ctx, &models.Account{
		UserID:      1,
		AccountName: "NoExpiry",
		AccessToken: encrypted,
	})
	require.NoError(t, err)

	// inside the seven day window: token gets exchanged and stored
	require.NoError(t, s.RefreshIfNeeded(ctx, expiringID, 1))
	require.Equal(t, 1, exchangeCalls)

	account, _, err := repo.GetByID(ctx, expiringID)
	require.NoError(t, err)
	decrypted, err := utils.DecryptToken(account.AccessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "refreshed-token", decrypted)
	require.True(t, account.TokenExpiresAt.Valid)
	assert.WithinDuration(t, time.Now().Add(5184000*time.Second), account.TokenExpiresAt.Time, 5*time.Second)

	// outside the window and without expiry: no remote call
	require.NoError(t, s.RefreshIfNeeded(ctx, freshID, 1))
	require.NoError(t, s.RefreshIfNeeded(ctx, noExpiryID, 1))
	assert.Equal(t, 1, exchangeCalls)

	// wrong owner
	err = s.RefreshIfNeeded(ctx, expiringID, 2)
	assert.ErrorIs(t, err, service.ErrAccountNotFound)
}
