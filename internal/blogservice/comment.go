package blogservice

import (
	"context"
	"database/sql"
)

func NewCommentModel(db *sql.DB) *CommentModel {
	return &CommentModel{db: db}
}

func (m *CommentModel) insert(ctx context.Context, c *Comment) error {
	query := `
		INSERT INTO comments (id, blog_id, user_id, username, user_picture, text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := m.db.ExecContext(ctx, query, c.ID, c.BlogID, c.UserID, c.Username, c.UserPicture, c.Text, c.CreatedAt)
	return err
}

func (m *CommentModel) listByBlog(ctx context.Context, blogID string, limit int) ([]Comment, error) {
	query := `
		SELECT id, blog_id, user_id, username, user_picture, text, created_at
		FROM comments
		WHERE blog_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2`

	rows, err := m.db.QueryContext(ctx, query, blogID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		err := rows.Scan(&c.ID, &c.BlogID, &c.UserID, &c.Username, &c.UserPicture, &c.Text, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

func (m *CommentModel) deleteByBlog(ctx context.Context, blogID string) (int64, error) {
	res, err := m.db.ExecContext(ctx, `DELETE FROM comments WHERE blog_id = $1`, blogID)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
