package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/Akhand-Replit/facebook-handler/internal/models"
	"github.com/Akhand-Replit/facebook-handler/internal/transfer"
)

type CommentRepository interface {
	Save(ctx context.Context, comment *models.Comment) (int64, error)
	GetByID(ctx context.Context, id int64) (*transfer.CommentDetail, bool, error)
	GetByFacebookID(ctx context.Context, fbCommentID string) (*transfer.CommentDetail, bool, error)
	ListByPost(ctx context.Context, postID int64, limit, offset int) ([]*models.Comment, error)
	Search(ctx context.Context, postID int64, term string, limit, offset int) ([]*models.Comment, error)
	CountByPost(ctx context.Context, postID int64) (int64, error)
	Remove(ctx context.Context, id int64) error
}

type commentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Save upserts by fb_comment_id, same lifecycle as posts.
func (r *commentRepository) Save(ctx context.Context, comment *models.Comment) (int64, error) {
	commentedAt := comment.CommentedAt
	if commentedAt.IsZero() {
		commentedAt = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, "SELECT id FROM comments WHERE fb_comment_id = $1", comment.FacebookCommentID).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		insert := `
			INSERT INTO comments (fb_comment_id, post_id, content, commented_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		err = tx.QueryRowContext(ctx, insert, comment.FacebookCommentID, comment.PostID, comment.Content, commentedAt).Scan(&id)
		if err != nil {
			slog.Info(err.Error())
			return 0, err
		}
	case err != nil:
		slog.Info(err.Error())
		return 0, err
	default:
		update := "UPDATE comments SET content = $1, commented_at = $2 WHERE id = $3"
		if _, err := tx.ExecContext(ctx, update, comment.Content, commentedAt, id); err != nil {
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

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*transfer.CommentDetail, bool, error) {
	query := `
		SELECT c.id, c.fb_comment_id, c.post_id, c.content, c.commented_at, c.created_at,
			p.fb_post_id, p.account_id
		FROM comments c
		JOIN posts p ON c.post_id = p.id
		WHERE c.id = $1
	`
	var d transfer.CommentDetail
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.FacebookCommentID, &d.PostID, &d.Content, &d.CommentedAt, &d.CreatedAt,
		&d.FacebookPostID, &d.AccountID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &d, true, nil
}

func (r *commentRepository) GetByFacebookID(ctx context.Context, fbCommentID string) (*transfer.CommentDetail, bool, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, "SELECT id FROM comments WHERE fb_comment_id = $1", fbCommentID).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return r.GetByID(ctx, id)
}

const commentColumns = "id, fb_comment_id, post_id, content, commented_at, created_at"

func (r *commentRepository) listQuery(ctx context.Context, query string, args ...interface{}) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var c models.Comment
		err := rows.Scan(&c.ID, &c.FacebookCommentID, &c.PostID, &c.Content, &c.CommentedAt, &c.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID int64, limit, offset int) ([]*models.Comment, error) {
	query := "SELECT " + commentColumns + ` FROM comments
		WHERE post_id = $1
		ORDER BY commented_at DESC
		LIMIT $2 OFFSET $3`
	return r.listQuery(ctx, query, postID, limit, offset)
}

func (r *commentRepository) Search(ctx context.Context, postID int64, term string, limit, offset int) ([]*models.Comment, error) {
	query := "SELECT " + commentColumns + ` FROM comments
		WHERE post_id = $1 AND content ILIKE $2
		ORDER BY commented_at DESC
		LIMIT $3 OFFSET $4`
	return r.listQuery(ctx, query, postID, "%"+term+"%", limit, offset)
}

func (r *commentRepository) CountByPost(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments WHERE post_id = $1", postID).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}

func (r *commentRepository) Remove(ctx context.Context, id int64) error {
	query := "DELETE FROM comments WHERE id = $1"
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
