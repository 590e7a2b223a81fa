package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Akhand-Replit/facebook-handler/internal/models"
	"github.com/Akhand-Replit/facebook-handler/internal/repository"
	"github.com/Akhand-Replit/facebook-handler/pkg/utils"
)

type AuthService interface {
	Register(ctx context.Context, username, password, email string) (int64, error)
	Login(ctx context.Context, username, password string) (int64, error)
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
	UpdateProfile(ctx context.Context, userID int64, email string) error
	GetUserInfo(ctx context.Context, userID int64) (*models.User, error)
}

type authService struct {
	u repository.UserRepository
}

func NewAuthService(u repository.UserRepository) AuthService {
	return &authService{u: u}
}

// Register stores a salted bcrypt hash of the password, never the
// plaintext.
func (s *authService) Register(ctx context.Context, username, password, email string) (int64, error) {
	if username == "" {
		err := errors.New("username cannot be empty")
		slog.Info(err.Error())
		return 0, err
	}
	if password == "" {
		err := errors.New("password cannot be empty")
		slog.Info(err.Error())
		return 0, err
	}

	_, exists, err := s.u.GetByUsername(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("failed to create user")
	}
	if exists {
		slog.Info(ErrDuplicateUsername.Error())
		return 0, ErrDuplicateUsername
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("failed to create user")
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        sql.NullString{String: email, Valid: email != ""},
	}

	id, err := s.u.Create(ctx, user)
	if err != nil {
		return 0, fmt.Errorf("failed to create user")
	}
	return id, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (int64, error) {
	user, exists, err := s.u.GetByUsername(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("failed to authenticate user")
	}
	if !exists {
		slog.Info(ErrUserNotFound.Error())
		return 0, ErrUserNotFound
	}

	if !utils.VerifyPassword(user.PasswordHash, password) {
		slog.Info(ErrInvalidCredentials.Error())
		return 0, ErrInvalidCredentials
	}
	return user.ID, nil
}

// ChangePassword re-verifies the current password before writing the new
// hash.
func (s *authService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if newPassword == "" {
		err := errors.New("new password cannot be empty")
		slog.Info(err.Error())
		return err
	}

	user, exists, err := s.u.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to update password")
	}
	if !exists {
		slog.Info(ErrUserNotFound.Error())
		return ErrUserNotFound
	}

	if !utils.VerifyPassword(user.PasswordHash, currentPassword) {
		slog.Info("current password is incorrect")
		return ErrInvalidCredentials
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to update password")
	}

	if err := s.u.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to update password")
	}
	return nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID int64, email string) error {
	if err := s.u.UpdateEmail(ctx, userID, email); err != nil {
		return fmt.Errorf("failed to update profile")
	}
	return nil
}

func (s *authService) GetUserInfo(ctx context.Context, userID int64) (*models.User, error) {
	user, exists, err := s.u.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting user info")
	}
	if !exists {
		slog.Info(ErrUserNotFound.Error())
		return nil, ErrUserNotFound
	}
	return user, nil
}
