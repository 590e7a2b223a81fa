package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/Akhand-Replit/facebook-handler/internal/models"
	"github.com/Akhand-Replit/facebook-handler/internal/transfer"
)

type PostRepository interface {
	Save(ctx context.Context, post *models.Post) (int64, error)
	GetByID(ctx context.Context, id int64) (*transfer.PostDetail, bool, error)
	GetByFacebookID(ctx context.Context, fbPostID string) (*transfer.PostDetail, bool, error)
	ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*models.Post, error)
	Search(ctx context.Context, accountID int64, term string, limit, offset int) ([]*models.Post, error)
	CountByAccount(ctx context.Context, accountID int64) (int64, error)
	Remove(ctx context.Context, id int64) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

// Save upserts by fb_post_id: the first save inserts, later saves update
// content, url and posted_at in place. Runs in one transaction to keep
// the read-then-write window small.
func (r *postRepository) Save(ctx context.Context, post *models.Post) (int64, error) {
	postedAt := post.PostedAt
	if postedAt.IsZero() {
		postedAt = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, "SELECT id FROM posts WHERE fb_post_id = $1", post.FacebookPostID).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		insert := `
			INSERT INTO posts (fb_post_id, account_id, content, post_url, posted_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`
		err = tx.QueryRowContext(ctx, insert, post.FacebookPostID, post.AccountID, post.Content, post.PostURL, postedAt).Scan(&id)
		if err != nil {
			slog.Info(err.Error())
			return 0, err
		}
	case err != nil:
		slog.Info(err.Error())
		return 0, err
	default:
		update := "UPDATE posts SET content = $1, post_url = $2, posted_at = $3 WHERE id = $4"
		if _, err := tx.ExecContext(ctx, update, post.Content, post.PostURL, postedAt, id); err != nil {
			slog.Info(err.Error())
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*transfer.PostDetail, bool, error) {
	query := `
		SELECT p.id, p.fb_post_id, p.account_id, p.content, p.post_url, p.posted_at, p.created_at,
			a.user_id, a.account_name
		FROM posts p
		JOIN fb_accounts a ON p.account_id = a.id
		WHERE p.id = $1
	`
	var d transfer.PostDetail
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.FacebookPostID, &d.AccountID, &d.Content, &d.PostURL, &d.PostedAt, &d.CreatedAt,
		&d.UserID, &d.AccountName)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &d, true, nil
}

// GetByFacebookID resolves the internal id first, then loads the full
// detail row.
func (r *postRepository) GetByFacebookID(ctx context.Context, fbPostID string) (*transfer.PostDetail, bool, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, "SELECT id FROM posts WHERE fb_post_id = $1", fbPostID).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return r.GetByID(ctx, id)
}

const postColumns = "id, fb_post_id, account_id, content, post_url, posted_at, created_at"

func (r *postRepository) listQuery(ctx context.Context, query string, args ...interface{}) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		var p models.Post
		err := rows.Scan(&p.ID, &p.FacebookPostID, &p.AccountID, &p.Content, &p.PostURL, &p.PostedAt, &p.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, &p)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) ListByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*models.Post, error) {
	query := "SELECT " + postColumns + ` FROM posts
		WHERE account_id = $1
		ORDER BY posted_at DESC
		LIMIT $2 OFFSET $3`
	return r.listQuery(ctx, query, accountID, limit, offset)
}

func (r *postRepository) Search(ctx context.Context, accountID int64, term string, limit, offset int) ([]*models.Post, error) {
	query := "SELECT " + postColumns + ` FROM posts
		WHERE account_id = $1 AND content ILIKE $2
		ORDER BY posted_at DESC
		LIMIT $3 OFFSET $4`
	return r.listQuery(ctx, query, accountID, "%"+term+"%", limit, offset)
}

func (r *postRepository) CountByAccount(ctx context.Context, accountID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts WHERE account_id = $1", accountID).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}

// Remove deletes the post's comments first, then the post itself.
// Deleting an id that no longer exists is a no-op.
func (r *postRepository) Remove(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM comments WHERE post_id = $1", id); err != nil {
		slog.Info(err.Error())
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM posts WHERE id = $1", id); err != nil {
		slog.Info(err.Error())
		return err
	}

	if err := tx.Commit(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
