package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/Akhand-Replit/facebook-handler/internal/repository"
	"github.com/Akhand-Replit/facebook-handler/internal/service"
)

// TokenRefreshJob sweeps linked accounts whose tokens expire within the
// next seven days and re-exchanges each one. Failures are logged and
// skipped; the next sweep retries naturally.
type TokenRefreshJob struct {
	a  repository.AccountRepository
	fb service.FacebookAuthService
}

func NewTokenRefreshJob(a repository.AccountRepository, fb service.FacebookAuthService) *TokenRefreshJob {
	return &TokenRefreshJob{a: a, fb: fb}
}

func (j *TokenRefreshJob) RefreshTokens() {
	ctx := context.Background()
	cutoff := time.Now().Add(7 * 24 * time.Hour)

	accounts, err := j.a.ListExpiringBefore(ctx, cutoff)
	if err != nil {
		slog.Error("token refresh sweep failed", "error", err)
		return
	}

	for _, account := range accounts {
		if err := j.fb.RefreshIfNeeded(ctx, account.ID, account.UserID); err != nil {
			slog.Error("failed to refresh token",
				"account_id", account.ID, "error", err)
		}
	}
}
