package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sushihentaime/nightblog/internal/common"
	"github.com/sushihentaime/nightblog/internal/mediaservice"
	"github.com/sushihentaime/nightblog/internal/userservice"
)

func NewBlogService(db *sql.DB, media mediaservice.Uploader) *BlogService {
	return &BlogService{
		blogs:    NewBlogModel(db),
		likes:    NewLikeModel(db),
		comments: NewCommentModel(db),
		media:    media,
		now:      time.Now,
	}
}

// ListBlogs returns published blogs, newest first, optionally filtered by a case-insensitive
// substring of the title or the author's username.
func (s *BlogService) ListBlogs(ctx context.Context, req ListBlogsRequest) ([]Blog, error) {
	if req.Limit == 0 {
		req.Limit = DefaultLimit
	}

	v := common.NewValidator()
	validatePage(v, req.Skip, req.Limit)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.blogs.list(ctx, req.Search, req.Skip, req.Limit)
}

// GetBlog returns the blog whether or not it is published and counts the read. The returned
// views already include it.
func (s *BlogService) GetBlog(ctx context.Context, id string) (*Blog, error) {
	if !validID(id) {
		return nil, common.ErrRecordNotFound
	}

	return s.blogs.incrementViews(ctx, id)
}

func (s *BlogService) uploadCover(ctx context.Context, cover []byte) (*string, error) {
	url, err := s.media.Upload(ctx, mediaservice.CoverImage(cover))
	if err != nil {
		return nil, err
	}

	return &url, nil
}

// CreateBlog stores a new blog owned by author. The author's username is copied onto the blog
// and never refreshed.
func (s *BlogService) CreateBlog(ctx context.Context, author *userservice.User, req *BlogRequest) (*Blog, error) {
	if author == nil || author.IsAnonymous() {
		return nil, common.ErrUnauthenticated
	}

	content := sanitizeMarkdown(req.Content)

	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateContent(v, content)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	now := s.now()
	blog := &Blog{
		ID:          uuid.NewString(),
		UserID:      author.ID,
		Username:    author.Username,
		Title:       req.Title,
		Content:     content,
		IsPublished: req.IsPublished,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if req.Cover != nil {
		cover, err := s.uploadCover(ctx, req.Cover)
		if err != nil {
			return nil, err
		}
		blog.CoverImage = cover
	}

	err := s.blogs.insert(ctx, blog)
	if err != nil {
		return nil, err
	}

	return blog, nil
}

// ownedBlog loads the blog and checks that actorID owns it.
func (s *BlogService) ownedBlog(ctx context.Context, actorID, id string) (*Blog, error) {
	if actorID == "" {
		return nil, common.ErrUnauthenticated
	}

	if !validID(id) {
		return nil, common.ErrRecordNotFound
	}

	blog, err := s.blogs.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if blog.UserID != actorID {
		return nil, common.ErrForbidden
	}

	return blog, nil
}

// UpdateBlog replaces title, content and the publish flag. The cover image only changes when a
// new one is supplied.
func (s *BlogService) UpdateBlog(ctx context.Context, actorID, id string, req *BlogRequest) (*Blog, error) {
	blog, err := s.ownedBlog(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	content := sanitizeMarkdown(req.Content)

	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateContent(v, content)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog.Title = req.Title
	blog.Content = content
	blog.IsPublished = req.IsPublished
	blog.UpdatedAt = s.now()

	if req.Cover != nil {
		cover, err := s.uploadCover(ctx, req.Cover)
		if err != nil {
			return nil, err
		}
		blog.CoverImage = cover
	}

	err = s.blogs.update(ctx, blog)
	if err != nil {
		return nil, err
	}

	return blog, nil
}

// DeleteBlog removes the blog, then its comments, then its likes. The three deletes are not
// atomic; a failure part way leaves orphaned comments or likes behind.
func (s *BlogService) DeleteBlog(ctx context.Context, actorID, id string) error {
	_, err := s.ownedBlog(ctx, actorID, id)
	if err != nil {
		return err
	}

	err = s.blogs.delete(ctx, id)
	if err != nil {
		return err
	}

	_, err = s.comments.deleteByBlog(ctx, id)
	if err != nil {
		return err
	}

	_, err = s.likes.deleteByBlog(ctx, id)
	return err
}

// ListUserBlogs returns the blogs written under username. Drafts are included only when the
// viewer is that user.
func (s *BlogService) ListUserBlogs(ctx context.Context, username string, viewer *userservice.User) ([]Blog, error) {
	includeDrafts := viewer != nil && !viewer.IsAnonymous() && viewer.Username == username

	return s.blogs.listByUsername(ctx, username, includeDrafts, MaxListSize)
}

// ListPublishedUserBlogs returns only the published blogs written under username.
func (s *BlogService) ListPublishedUserBlogs(ctx context.Context, username string) ([]Blog, error) {
	return s.blogs.listByUsername(ctx, username, false, MaxListSize)
}

// ToggleLike flips the like state of the pair and adjusts the blog's counter by one. It
// reports whether the blog is liked by the user afterwards.
func (s *BlogService) ToggleLike(ctx context.Context, userID, blogID string) (bool, error) {
	if userID == "" {
		return false, common.ErrUnauthenticated
	}

	if !validID(blogID) {
		return false, common.ErrRecordNotFound
	}

	_, err := s.blogs.get(ctx, blogID)
	if err != nil {
		return false, err
	}

	liked, err := s.likes.exists(ctx, blogID, userID)
	if err != nil {
		return false, err
	}

	if liked {
		err := s.likes.delete(ctx, blogID, userID)
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			// removed by a concurrent toggle, which also adjusted the counter
			return false, nil
		case err != nil:
			return false, err
		}

		return false, s.blogs.incrementLikes(ctx, blogID, -1)
	}

	like := &Like{
		ID:        uuid.NewString(),
		BlogID:    blogID,
		UserID:    userID,
		CreatedAt: s.now(),
	}

	err = s.likes.insert(ctx, like)
	switch {
	case errors.Is(err, ErrDuplicateLike):
		return true, nil
	case err != nil:
		return false, err
	}

	return true, s.blogs.incrementLikes(ctx, blogID, 1)
}

func (s *BlogService) IsLiked(ctx context.Context, userID, blogID string) (bool, error) {
	if userID == "" {
		return false, common.ErrUnauthenticated
	}

	if !validID(blogID) {
		return false, nil
	}

	return s.likes.exists(ctx, blogID, userID)
}

// AddComment appends a comment by author. Username and picture are copied from author.
func (s *BlogService) AddComment(ctx context.Context, author *userservice.User, blogID, text string) (*Comment, error) {
	if author == nil || author.IsAnonymous() {
		return nil, common.ErrUnauthenticated
	}

	if !validID(blogID) {
		return nil, common.ErrRecordNotFound
	}

	v := common.NewValidator()
	validateCommentText(v, text)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	_, err := s.blogs.get(ctx, blogID)
	if err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:          uuid.NewString(),
		BlogID:      blogID,
		UserID:      author.ID,
		Username:    author.Username,
		UserPicture: author.Picture,
		Text:        text,
		CreatedAt:   s.now(),
	}

	err = s.comments.insert(ctx, comment)
	if err != nil {
		return nil, err
	}

	return comment, nil
}

// ListComments returns up to MaxListSize comments, newest first. An unknown blog yields an
// empty list.
func (s *BlogService) ListComments(ctx context.Context, blogID string) ([]Comment, error) {
	if !validID(blogID) {
		return []Comment{}, nil
	}

	return s.comments.listByBlog(ctx, blogID, MaxListSize)
}
