package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"blogfront/internal/apperr"
	"blogfront/internal/client"
	"blogfront/internal/models"
	"blogfront/internal/session"
)

type BlogService interface {
	Published(ctx context.Context, p models.PageRequest) (*client.BlogPage, error)
	Search(ctx context.Context, keyword string, p models.PageRequest) (*client.BlogPage, error)
	Get(ctx context.Context, sess *session.Session, id int64) (*models.Blog, error)
	ByAuthor(ctx context.Context, authorID int64, p models.PageRequest) (*client.BlogPage, error)
	All(ctx context.Context, sess *session.Session, p models.PageRequest) (*client.BlogPage, error)
	Create(ctx context.Context, sess *session.Session, in models.BlogInput) (*models.Blog, error)
	Update(ctx context.Context, sess *session.Session, id int64, in models.BlogInput) (*models.Blog, error)
	Delete(ctx context.Context, sess *session.Session, id int64) error
}

type blogService struct {
	api      BlogAPI
	validate *validator.Validate
}

func NewBlogService(api BlogAPI, validate *validator.Validate) BlogService {
	return &blogService{api: api, validate: validate}
}

func (s *blogService) Published(ctx context.Context, p models.PageRequest) (*client.BlogPage, error) {
	page, err := s.api.ListPublished(ctx, p)
	if err != nil {
		return nil, failed("blogs.published", err, "Failed to load blogs")
	}
	return page, nil
}

// Search falls back to the plain listing for a blank keyword.
func (s *blogService) Search(ctx context.Context, keyword string, p models.PageRequest) (*client.BlogPage, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return s.Published(ctx, p)
	}

	page, err := s.api.SearchPublished(ctx, keyword, p)
	if err != nil {
		return nil, failed("blogs.search", err, "Search failed")
	}
	return page, nil
}

// Get returns a published blog. Signed-in users also reach their own drafts
// through the authenticated endpoint.
func (s *blogService) Get(ctx context.Context, sess *session.Session, id int64) (*models.Blog, error) {
	blog, err := s.api.GetPublished(ctx, id)
	if err == nil {
		return blog, nil
	}
	if !apperr.Is(err, apperr.NotFound) || !sess.IsAuthenticated() {
		return nil, failed("blogs.get", err, "Failed to load blog")
	}

	blog, err = s.api.Get(ctx, id)
	if err != nil {
		return nil, failed("blogs.get", err, "Failed to load blog")
	}
	return blog, nil
}

func (s *blogService) ByAuthor(ctx context.Context, authorID int64, p models.PageRequest) (*client.BlogPage, error) {
	page, err := s.api.ListByAuthor(ctx, authorID, p)
	if err != nil {
		return nil, failed("blogs.by_author", err, "Failed to load blogs")
	}
	return page, nil
}

func (s *blogService) All(ctx context.Context, sess *session.Session, p models.PageRequest) (*client.BlogPage, error) {
	if err := requireAdmin(sess, "blogs.all"); err != nil {
		return nil, err
	}
	page, err := s.api.List(ctx, p)
	if err != nil {
		return nil, failed("blogs.all", err, "Failed to load blogs")
	}
	return page, nil
}

func (s *blogService) Create(ctx context.Context, sess *session.Session, in models.BlogInput) (*models.Blog, error) {
	const op = "blogs.create"

	if err := requireAuth(sess, op, "Please login to write a blog"); err != nil {
		return nil, err
	}
	in, err := s.clean(op, in)
	if err != nil {
		return nil, err
	}

	blog, err := s.api.Create(ctx, in)
	if err != nil {
		return nil, failed(op, err, "Failed to save blog. Please try again.")
	}
	return blog, nil
}

func (s *blogService) Update(ctx context.Context, sess *session.Session, id int64, in models.BlogInput) (*models.Blog, error) {
	const op = "blogs.update"

	if err := s.authorize(ctx, sess, op, id); err != nil {
		return nil, err
	}
	in, err := s.clean(op, in)
	if err != nil {
		return nil, err
	}

	blog, err := s.api.Update(ctx, id, in)
	if err != nil {
		return nil, failed(op, err, "Failed to save blog. Please try again.")
	}
	return blog, nil
}

func (s *blogService) Delete(ctx context.Context, sess *session.Session, id int64) error {
	const op = "blogs.delete"

	if err := s.authorize(ctx, sess, op, id); err != nil {
		return err
	}
	if err := s.api.Delete(ctx, id); err != nil {
		return failed(op, err, "Failed to delete blog")
	}
	return nil
}

// CanEdit reports whether the session may change the blog.
func CanEdit(blog *models.Blog, sess *session.Session) bool {
	if blog == nil || !sess.IsAuthenticated() {
		return false
	}
	return sess.IsAdmin() || blog.AuthorID == sess.User.ID
}

func (s *blogService) authorize(ctx context.Context, sess *session.Session, op string, id int64) error {
	if err := requireAuth(sess, op, "Please login to continue"); err != nil {
		return err
	}
	if sess.IsAdmin() {
		return nil
	}

	blog, err := s.api.Get(ctx, id)
	if err != nil {
		return failed(op, err, "Failed to load blog")
	}
	if !CanEdit(blog, sess) {
		return apperr.New(apperr.Auth, op, "You can only change your own blogs")
	}
	return nil
}

func (s *blogService) clean(op string, in models.BlogInput) (models.BlogInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Summary = strings.TrimSpace(in.Summary)

	urls := make([]string, 0, len(in.ImageURLs))
	for _, u := range in.ImageURLs {
		if strings.TrimSpace(u) != "" {
			urls = append(urls, u)
		}
	}
	in.ImageURLs = urls

	if err := s.validate.Struct(in); err != nil {
		return in, apperr.New(apperr.Validation, op, blogInputMessage(err))
	}
	return in, nil
}

func blogInputMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid blog"
	}

	fe := verrs[0]
	switch fe.Field() {
	case "Title":
		if fe.Tag() == "max" {
			return "Title must be less than 200 characters"
		}
		return "Title is required"
	case "Content":
		return "Content is required"
	}
	return fe.Field() + " is invalid"
}
