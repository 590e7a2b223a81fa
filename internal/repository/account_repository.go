package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/Akhand-Replit/facebook-handler/internal/models"
	"github.com/Akhand-Replit/facebook-handler/internal/transfer"
)

type AccountRepository interface {
	Create(ctx context.Context, a *models.Account) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Account, bool, error)
	GetByIDForUser(ctx context.Context, id, userID int64) (*models.Account, bool, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.Account, error)
	ExistsByName(ctx context.Context, userID int64, name string) (bool, error)
	Update(ctx context.Context, id, userID int64, patch *transfer.AccountPatch) error
	GetExpiry(ctx context.Context, id int64) (sql.NullTime, bool, error)
	ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]*models.Account, error)
	Remove(ctx context.Context, id int64) error
}

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = "id, user_id, account_name, access_token, page_id, expires_at, created_at"

func scanAccount(row *sql.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.UserID, &a.AccountName, &a.AccessToken, &a.PageID, &a.TokenExpiresAt, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accountRepository) Create(ctx context.Context, a *models.Account) (int64, error) {
	query := `
		INSERT INTO fb_accounts (user_id, account_name, access_token, page_id, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, a.UserID, a.AccountName, a.AccessToken, a.PageID, a.TokenExpiresAt).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*models.Account, bool, error) {
	query := "SELECT " + accountColumns + " FROM fb_accounts WHERE id = $1"
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return a, true, nil
}

func (r *accountRepository) GetByIDForUser(ctx context.Context, id, userID int64) (*models.Account, bool, error) {
	query := "SELECT " + accountColumns + " FROM fb_accounts WHERE id = $1 AND user_id = $2"
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return a, true, nil
}

func (r *accountRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.Account, error) {
	query := "SELECT " + accountColumns + " FROM fb_accounts WHERE user_id = $1 ORDER BY account_name"
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		var a models.Account
		err := rows.Scan(&a.ID, &a.UserID, &a.AccountName, &a.AccessToken, &a.PageID, &a.TokenExpiresAt, &a.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		accounts = append(accounts, &a)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return accounts, nil
}

func (r *accountRepository) ExistsByName(ctx context.Context, userID int64, name string) (bool, error) {
	query := "SELECT 1 FROM fb_accounts WHERE user_id = $1 AND account_name = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, userID, name).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}
	return result == 1, nil
}

// Update applies only the non-nil patch fields in a single statement.
func (r *accountRepository) Update(ctx context.Context, id, userID int64, patch *transfer.AccountPatch) error {
	query := `
		UPDATE fb_accounts
		SET account_name = COALESCE($3, account_name),
			access_token = COALESCE($4, access_token),
			page_id = COALESCE($5, page_id),
			expires_at = COALESCE($6, expires_at)
		WHERE id = $1 AND user_id = $2
	`
	_, err := r.db.ExecContext(ctx, query, id, userID, patch.AccountName, patch.AccessToken, patch.PageID, patch.ExpiresAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *accountRepository) GetExpiry(ctx context.Context, id int64) (sql.NullTime, bool, error) {
	var expiresAt sql.NullTime
	query := "SELECT expires_at FROM fb_accounts WHERE id = $1"
	err := r.db.QueryRowContext(ctx, query, id).Scan(&expiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return sql.NullTime{}, false, nil
		}
		slog.Info(err.Error())
		return sql.NullTime{}, false, err
	}
	return expiresAt, true, nil
}

func (r *accountRepository) ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]*models.Account, error) {
	query := "SELECT " + accountColumns + " FROM fb_accounts WHERE expires_at IS NOT NULL AND expires_at < $1"
	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		var a models.Account
		err := rows.Scan(&a.ID, &a.UserID, &a.AccountName, &a.AccessToken, &a.PageID, &a.TokenExpiresAt, &a.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		accounts = append(accounts, &a)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return accounts, nil
}

// Remove deletes an account together with its cached posts and their
// comments in one transaction.
func (r *accountRepository) Remove(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM comments WHERE post_id IN (SELECT id FROM posts WHERE account_id = $1)", id); err != nil {
		slog.Info(err.Error())
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM posts WHERE account_id = $1", id); err != nil {
		slog.Info(err.Error())
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM fb_accounts WHERE id = $1", id); err != nil {
		slog.Info(err.Error())
		return err
	}

	if err := tx.Commit(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
