package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sushihentaime/nightblog/internal/common"
)

func NewBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

const blogColumns = `id, user_id, username, title, content, cover_image, is_published, likes, views, created_at, updated_at`

func scanBlog(row interface{ Scan(...any) error }) (*Blog, error) {
	var b Blog

	err := row.Scan(&b.ID, &b.UserID, &b.Username, &b.Title, &b.Content, &b.CoverImage, &b.IsPublished, &b.Likes, &b.Views, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &b, nil
}

func scanBlogs(rows *sql.Rows) ([]Blog, error) {
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

// rowsAffected turns a zero-row exec into common.ErrRecordNotFound.
func rowsAffected(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return common.ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

func (m *BlogModel) insert(ctx context.Context, b *Blog) error {
	query := `
		INSERT INTO blogs (id, user_id, username, title, content, cover_image, is_published, likes, views, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	args := []any{b.ID, b.UserID, b.Username, b.Title, b.Content, b.CoverImage, b.IsPublished, b.Likes, b.Views, b.CreatedAt, b.UpdatedAt}

	_, err := m.db.ExecContext(ctx, query, args...)
	return err
}

func (m *BlogModel) get(ctx context.Context, id string) (*Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE id = $1`

	return scanBlog(m.db.QueryRowContext(ctx, query, id))
}

// incrementViews bumps the view counter in one statement and returns the blog as stored after
// the increment.
func (m *BlogModel) incrementViews(ctx context.Context, id string) (*Blog, error) {
	query := `
		UPDATE blogs
		SET views = views + 1
		WHERE id = $1
		RETURNING ` + blogColumns

	return scanBlog(m.db.QueryRowContext(ctx, query, id))
}

func (m *BlogModel) incrementLikes(ctx context.Context, id string, delta int) error {
	res, err := m.db.ExecContext(ctx, `UPDATE blogs SET likes = likes + $1 WHERE id = $2`, delta, id)
	if err != nil {
		return err
	}

	return rowsAffected(res)
}

// update writes the editable fields. likes and views are left to their own statements so a
// concurrent increment is never overwritten.
func (m *BlogModel) update(ctx context.Context, b *Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, content = $2, is_published = $3, cover_image = $4, updated_at = $5
		WHERE id = $6
		RETURNING ` + blogColumns

	updated, err := scanBlog(m.db.QueryRowContext(ctx, query, b.Title, b.Content, b.IsPublished, b.CoverImage, b.UpdatedAt, b.ID))
	if err != nil {
		return err
	}

	*b = *updated

	return nil
}

func (m *BlogModel) delete(ctx context.Context, id string) error {
	res, err := m.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return rowsAffected(res)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching search as a literal substring.
func containsPattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}

// list returns published blogs whose title or username contains search, newest first.
func (m *BlogModel) list(ctx context.Context, search string, skip, limit int) ([]Blog, error) {
	query := `
		SELECT ` + blogColumns + `
		FROM blogs
		WHERE is_published AND (title ILIKE $1 OR username ILIKE $1)
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`

	rows, err := m.db.QueryContext(ctx, query, containsPattern(search), limit, skip)
	if err != nil {
		return nil, err
	}

	return scanBlogs(rows)
}

func (m *BlogModel) listByUsername(ctx context.Context, username string, includeDrafts bool, limit int) ([]Blog, error) {
	query := `
		SELECT ` + blogColumns + `
		FROM blogs
		WHERE username = $1 AND (is_published OR $2)
		ORDER BY created_at DESC, id
		LIMIT $3`

	rows, err := m.db.QueryContext(ctx, query, username, includeDrafts, limit)
	if err != nil {
		return nil, err
	}

	return scanBlogs(rows)
}
