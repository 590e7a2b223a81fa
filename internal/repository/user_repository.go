package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/Akhand-Replit/facebook-handler/internal/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, bool, error)
	GetByUsername(ctx context.Context, username string) (*models.User, bool, error)
	Create(ctx context.Context, user *models.User) (int64, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateEmail(ctx context.Context, id int64, email string) error
	Remove(ctx context.Context, id int64) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, bool, error) {
	var user models.User
	query := "SELECT id, username, password_hash, email, created_at FROM users WHERE id = $1"
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Email, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &user, true, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, bool, error) {
	var user models.User
	query := "SELECT id, username, password_hash, email, created_at FROM users WHERE username = $1"
	err := r.db.QueryRowContext(ctx, query, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Email, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &user, true, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	query := "INSERT INTO users (username, password_hash, email) VALUES ($1, $2, $3) RETURNING id"

	var id int64
	err := r.db.QueryRowContext(ctx, query, user.Username, user.PasswordHash, user.Email).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := "UPDATE users SET password_hash = $1 WHERE id = $2"
	_, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *userRepository) UpdateEmail(ctx context.Context, id int64, email string) error {
	query := "UPDATE users SET email = $1 WHERE id = $2"
	_, err := r.db.ExecContext(ctx, query, email, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *userRepository) Remove(ctx context.Context, id int64) error {
	query := "DELETE FROM users WHERE id = $1"
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
