package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	config "github.com/Akhand-Replit/facebook-handler/configs"
	"github.com/Akhand-Replit/facebook-handler/internal/models"
	"github.com/Akhand-Replit/facebook-handler/internal/repository"
	"github.com/Akhand-Replit/facebook-handler/internal/transfer"
	"github.com/Akhand-Replit/facebook-handler/pkg/utils"
)

type AccountService interface {
	Add(ctx context.Context, userID int64, ac *transfer.AccountCreation) (int64, error)
	Get(ctx context.Context, accountID, userID int64) (*models.Account, error)
	List(ctx context.Context, userID int64) ([]*transfer.AccountInfo, error)
	Update(ctx context.Context, accountID, userID int64, patch *transfer.AccountPatch) error
	Delete(ctx context.Context, accountID, userID int64) error
	IsTokenExpired(ctx context.Context, accountID int64) (bool, error)
}

type accountService struct {
	cfg config.Config
	a   repository.AccountRepository
}

func NewAccountService(cfg config.Config, a repository.AccountRepository) AccountService {
	return &accountService{cfg: cfg, a: a}
}

func (s *accountService) Add(ctx context.Context, userID int64, ac *transfer.AccountCreation) (int64, error) {
	if ac == nil || ac.AccountName == "" {
		err := errors.New("account name cannot be empty")
		slog.Info(err.Error())
		return 0, err
	}
	if ac.AccessToken == "" {
		err := errors.New("access token cannot be empty")
		slog.Info(err.Error())
		return 0, err
	}

	exists, err := s.a.ExistsByName(ctx, userID, ac.AccountName)
	if err != nil {
		return 0, fmt.Errorf("failed to add facebook account")
	}
	if exists {
		slog.Info(ErrDuplicateName.Error())
		return 0, ErrDuplicateName
	}

	encrypted, err := utils.EncryptToken(ac.AccessToken, s.cfg.SecretKey)
	if err != nil {
		return 0, fmt.Errorf("failed to add facebook account")
	}

	account := &models.Account{
		UserID:      userID,
		AccountName: ac.AccountName,
		AccessToken: encrypted,
		PageID:      sql.NullString{String: ac.PageID, Valid: ac.PageID != ""},
	}
	if ac.ExpiresAt > 0 {
		account.TokenExpiresAt = sql.NullTime{Time: time.Unix(ac.ExpiresAt, 0), Valid: true}
	}

	id, err := s.a.Create(ctx, account)
	if err != nil {
		return 0, fmt.Errorf("failed to add facebook account")
	}
	return id, nil
}

// Get returns the account with its token decrypted. For internal callers
// only; listing via List never exposes tokens.
func (s *accountService) Get(ctx context.Context, accountID, userID int64) (*models.Account, error) {
	account, exists, err := s.a.GetByIDForUser(ctx, accountID, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting account info")
	}
	if !exists {
		slog.Info(ErrAccountNotFound.Error())
		return nil, ErrAccountNotFound
	}

	token, err := utils.DecryptToken(account.AccessToken, s.cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("error getting account info")
	}
	account.AccessToken = token
	return account, nil
}

func (s *accountService) List(ctx context.Context, userID int64) ([]*transfer.AccountInfo, error) {
	accounts, err := s.a.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting facebook accounts")
	}

	infos := make([]*transfer.AccountInfo, 0, len(accounts))
	for _, a := range accounts {
		info := &transfer.AccountInfo{
			ID:          a.ID,
			AccountName: a.AccountName,
			PageID:      a.PageID.String,
			CreatedAt:   a.CreatedAt,
		}
		if a.TokenExpiresAt.Valid {
			t := a.TokenExpiresAt.Time
			info.TokenExpiresAt = &t
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (s *accountService) Update(ctx context.Context, accountID, userID int64, patch *transfer.AccountPatch) error {
	if patch.IsEmpty() {
		slog.Info(ErrNoChanges.Error())
		return ErrNoChanges
	}

	_, exists, err := s.a.GetByIDForUser(ctx, accountID, userID)
	if err != nil {
		return fmt.Errorf("failed to update account")
	}
	if !exists {
		slog.Info(ErrAccountNotFound.Error())
		return ErrAccountNotFound
	}

	if patch.AccessToken != nil {
		encrypted, err := utils.EncryptToken(*patch.AccessToken, s.cfg.SecretKey)
		if err != nil {
			return fmt.Errorf("failed to update account")
		}
		patch.AccessToken = &encrypted
	}

	if err := s.a.Update(ctx, accountID, userID, patch); err != nil {
		return fmt.Errorf("failed to update account")
	}
	return nil
}

func (s *accountService) Delete(ctx context.Context, accountID, userID int64) error {
	_, exists, err := s.a.GetByIDForUser(ctx, accountID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete account")
	}
	if !exists {
		slog.Info(ErrAccountNotFound.Error())
		return ErrAccountNotFound
	}

	if err := s.a.Remove(ctx, accountID); err != nil {
		return fmt.Errorf("failed to delete account")
	}
	return nil
}

// IsTokenExpired is true only when an expiry is set and strictly in the
// past; an absent expiry means the token never expires.
func (s *accountService) IsTokenExpired(ctx context.Context, accountID int64) (bool, error) {
	expiry, exists, err := s.a.GetExpiry(ctx, accountID)
	if err != nil {
		return false, fmt.Errorf("error checking token expiry")
	}
	if !exists || !expiry.Valid {
		return false, nil
	}
	return expiry.Time.Before(time.Now()), nil
}
