package blogservice

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/sushihentaime/nightblog/internal/common"
	"github.com/sushihentaime/nightblog/internal/mediaservice"
)

type memoryBlogs struct {
	mu    sync.Mutex
	blogs map[string]Blog
}

func newMemoryBlogs() *memoryBlogs {
	return &memoryBlogs{blogs: map[string]Blog{}}
}

func (m *memoryBlogs) insert(ctx context.Context, b *Blog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blogs[b.ID] = *b
	return nil
}

func (m *memoryBlogs) get(ctx context.Context, id string) (*Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.blogs[id]
	if !ok {
		return nil, common.ErrRecordNotFound
	}

	return &b, nil
}

func (m *memoryBlogs) incrementViews(ctx context.Context, id string) (*Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.blogs[id]
	if !ok {
		return nil, common.ErrRecordNotFound
	}

	b.Views++
	m.blogs[id] = b

	return &b, nil
}

func (m *memoryBlogs) incrementLikes(ctx context.Context, id string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.blogs[id]
	if !ok {
		return common.ErrRecordNotFound
	}

	b.Likes += delta
	m.blogs[id] = b

	return nil
}

func (m *memoryBlogs) update(ctx context.Context, b *Blog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.blogs[b.ID]
	if !ok {
		return common.ErrRecordNotFound
	}

	stored.Title = b.Title
	stored.Content = b.Content
	stored.IsPublished = b.IsPublished
	stored.CoverImage = b.CoverImage
	stored.UpdatedAt = b.UpdatedAt
	m.blogs[b.ID] = stored
	*b = stored

	return nil
}

func (m *memoryBlogs) delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blogs[id]; !ok {
		return common.ErrRecordNotFound
	}

	delete(m.blogs, id)
	return nil
}

func (m *memoryBlogs) filter(match func(Blog) bool, skip, limit int) []Blog {
	m.mu.Lock()
	defer m.mu.Unlock()

	blogs := []Blog{}
	for _, b := range m.blogs {
		if match(b) {
			blogs = append(blogs, b)
		}
	}

	sort.Slice(blogs, func(i, j int) bool {
		return blogs[i].CreatedAt.After(blogs[j].CreatedAt)
	})

	if skip >= len(blogs) {
		return []Blog{}
	}
	blogs = blogs[skip:]

	if len(blogs) > limit {
		blogs = blogs[:limit]
	}

	return blogs
}

func (m *memoryBlogs) list(ctx context.Context, search string, skip, limit int) ([]Blog, error) {
	search = strings.ToLower(search)

	return m.filter(func(b Blog) bool {
		return b.IsPublished && (strings.Contains(strings.ToLower(b.Title), search) || strings.Contains(strings.ToLower(b.Username), search))
	}, skip, limit), nil
}

func (m *memoryBlogs) listByUsername(ctx context.Context, username string, includeDrafts bool, limit int) ([]Blog, error) {
	return m.filter(func(b Blog) bool {
		return b.Username == username && (b.IsPublished || includeDrafts)
	}, 0, limit), nil
}

type memoryLikes struct {
	mu    sync.Mutex
	likes []Like
}

func (m *memoryLikes) insert(ctx context.Context, l *Like) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.likes {
		if existing.BlogID == l.BlogID && existing.UserID == l.UserID {
			return ErrDuplicateLike
		}
	}

	m.likes = append(m.likes, *l)
	return nil
}

func (m *memoryLikes) exists(ctx context.Context, blogID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, l := range m.likes {
		if l.BlogID == blogID && l.UserID == userID {
			return true, nil
		}
	}

	return false, nil
}

func (m *memoryLikes) delete(ctx context.Context, blogID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, l := range m.likes {
		if l.BlogID == blogID && l.UserID == userID {
			m.likes = append(m.likes[:i], m.likes[i+1:]...)
			return nil
		}
	}

	return common.ErrRecordNotFound
}

func (m *memoryLikes) deleteByBlog(ctx context.Context, blogID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var kept []Like
	for _, l := range m.likes {
		if l.BlogID != blogID {
			kept = append(kept, l)
		}
	}

	n := int64(len(m.likes) - len(kept))
	m.likes = kept

	return n, nil
}

func (m *memoryLikes) count(blogID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, l := range m.likes {
		if l.BlogID == blogID {
			n++
		}
	}

	return n
}

type memoryComments struct {
	mu       sync.Mutex
	comments []Comment
}

func (m *memoryComments) insert(ctx context.Context, c *Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.comments = append(m.comments, *c)
	return nil
}

func (m *memoryComments) listByBlog(ctx context.Context, blogID string, limit int) ([]Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	comments := []Comment{}
	for i := len(m.comments) - 1; i >= 0 && len(comments) < limit; i-- {
		if m.comments[i].BlogID == blogID {
			comments = append(comments, m.comments[i])
		}
	}

	return comments, nil
}

func (m *memoryComments) deleteByBlog(ctx context.Context, blogID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var kept []Comment
	for _, c := range m.comments {
		if c.BlogID != blogID {
			kept = append(kept, c)
		}
	}

	n := int64(len(m.comments) - len(kept))
	m.comments = kept

	return n, nil
}

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, req *mediaservice.UploadRequest) (string, error) {
	args := m.Called(req)
	return args.String(0), args.Error(1)
}
