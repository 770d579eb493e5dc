package blogservice

import (
	"context"
	"database/sql"
	"time"

	"github.com/sushihentaime/nightblog/internal/mediaservice"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
	// MaxListSize caps the comment list and the per-user blog list.
	MaxListSize = 100
)

type Blog struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Title    string `json:"title"`
	// Content is stored in Markdown format.
	Content     string    `json:"content"`
	CoverImage  *string   `json:"cover_image"`
	IsPublished bool      `json:"is_published"`
	Likes       int       `json:"likes"`
	Views       int       `json:"views"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Comment struct {
	ID          string    `json:"id"`
	BlogID      string    `json:"blog_id"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	UserPicture *string   `json:"user_picture"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}

type Like struct {
	ID        string    `json:"id"`
	BlogID    string    `json:"blog_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type blogStore interface {
	insert(ctx context.Context, b *Blog) error
	get(ctx context.Context, id string) (*Blog, error)
	incrementViews(ctx context.Context, id string) (*Blog, error)
	incrementLikes(ctx context.Context, id string, delta int) error
	update(ctx context.Context, b *Blog) error
	delete(ctx context.Context, id string) error
	list(ctx context.Context, search string, skip, limit int) ([]Blog, error)
	listByUsername(ctx context.Context, username string, includeDrafts bool, limit int) ([]Blog, error)
}

type likeStore interface {
	insert(ctx context.Context, l *Like) error
	exists(ctx context.Context, blogID, userID string) (bool, error)
	delete(ctx context.Context, blogID, userID string) error
	deleteByBlog(ctx context.Context, blogID string) (int64, error)
}

type commentStore interface {
	insert(ctx context.Context, c *Comment) error
	listByBlog(ctx context.Context, blogID string, limit int) ([]Comment, error)
	deleteByBlog(ctx context.Context, blogID string) (int64, error)
}

type BlogModel struct {
	db *sql.DB
}

type LikeModel struct {
	db *sql.DB
}

type CommentModel struct {
	db *sql.DB
}

type BlogService struct {
	blogs    blogStore
	likes    likeStore
	comments commentStore
	media    mediaservice.Uploader
	now      func() time.Time
}

type ListBlogsRequest struct {
	Search string
	Skip   int
	// Limit of zero means DefaultLimit.
	Limit int
}

// BlogRequest carries the multipart fields of create and update. A nil Cover keeps the current
// cover image.
type BlogRequest struct {
	Title       string
	Content     string
	IsPublished bool
	Cover       []byte
}
