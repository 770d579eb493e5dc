package blogservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sushihentaime/nightblog/internal/common"
)

var ErrDuplicateLike = errors.New("blog already liked by user")

func NewLikeModel(db *sql.DB) *LikeModel {
	return &LikeModel{db: db}
}

func (m *LikeModel) insert(ctx context.Context, l *Like) error {
	query := `
		INSERT INTO likes (id, blog_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := m.db.ExecContext(ctx, query, l.ID, l.BlogID, l.UserID, l.CreatedAt)
	if err != nil {
		switch {
		case common.UniqueViolation(err, "likes_blog_id_user_id_key"):
			return ErrDuplicateLike
		default:
			return err
		}
	}

	return nil
}

func (m *LikeModel) exists(ctx context.Context, blogID, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM likes WHERE blog_id = $1 AND user_id = $2)`

	var exists bool
	err := m.db.QueryRowContext(ctx, query, blogID, userID).Scan(&exists)

	return exists, err
}

func (m *LikeModel) delete(ctx context.Context, blogID, userID string) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM likes WHERE blog_id = $1 AND user_id = $2`, blogID, userID)
	if err != nil {
		return err
	}

	return rowsAffected(res)
}

func (m *LikeModel) deleteByBlog(ctx context.Context, blogID string) (int64, error) {
	res, err := m.db.ExecContext(ctx, `DELETE FROM likes WHERE blog_id = $1`, blogID)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
