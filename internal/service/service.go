package service

import (
	"context"
	"errors"
	"log"

	"github.com/go-playground/validator/v10"

	"blogfront/internal/apperr"
	"blogfront/internal/client"
	"blogfront/internal/config"
	"blogfront/internal/models"
	"blogfront/internal/repository"
	"blogfront/internal/session"
	"blogfront/internal/storage"
)

type BlogAPI interface {
	ListPublished(ctx context.Context, p models.PageRequest) (*client.BlogPage, error)
	GetPublished(ctx context.Context, id int64) (*models.Blog, error)
	SearchPublished(ctx context.Context, keyword string, p models.PageRequest) (*client.BlogPage, error)
	List(ctx context.Context, p models.PageRequest) (*client.BlogPage, error)
	Get(ctx context.Context, id int64) (*models.Blog, error)
	ListByAuthor(ctx context.Context, authorID int64, p models.PageRequest) (*client.BlogPage, error)
	Create(ctx context.Context, in models.BlogInput) (*models.Blog, error)
	Update(ctx context.Context, id int64, in models.BlogInput) (*models.Blog, error)
	Delete(ctx context.Context, id int64) error
}

type CommentAPI interface {
	Comments(ctx context.Context, blogID int64) ([]*models.Comment, error)
	AddComment(ctx context.Context, req models.CreateCommentRequest) (*models.Comment, error)
	UpdateComment(ctx context.Context, blogID, commentID int64, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, blogID, commentID int64) error
}

type LikeAPI interface {
	ToggleLike(ctx context.Context, blogID int64) (bool, error)
	IsLiked(ctx context.Context, blogID int64) (bool, error)
	LikeCount(ctx context.Context, blogID int64) (int64, error)
}

type ViewAPI interface {
	RecordView(ctx context.Context, blogID int64) error
}

type AdminUserAPI interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, id int64, req models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	Blogs    BlogService
	Comments CommentService
	Likes    LikeService
	Views    ViewService
	Images   ImageService
	Users    UserService
}

// NewService wires the services to the REST gateway. store may be nil, in
// which case uploaded images are embedded as data URLs.
func NewService(api *client.Client, rep *repository.Repository, store storage.ImageStore, cfg *config.Config) *Service {
	validate := validator.New()

	return &Service{
		Blogs:    NewBlogService(api.Blogs, validate),
		Comments: NewCommentService(api.Engagement),
		Likes:    NewLikeService(api.Engagement),
		Views:    NewViewService(api.Engagement, rep.View, cfg.Session.ViewCooldown),
		Images:   NewImageService(store, cfg.Images, validate),
		Users:    NewUserService(api.Users, validate),
	}
}

func requireAuth(s *session.Session, op, message string) error {
	if !s.IsAuthenticated() {
		return apperr.New(apperr.Auth, op, message)
	}
	return nil
}

func requireAdmin(s *session.Session, op string) error {
	if !s.IsAdmin() {
		return apperr.New(apperr.Auth, op, "Admin access required")
	}
	return nil
}

// failed logs a remote failure and replaces its message with one fit for
// the user while keeping its kind.
func failed(op string, err error, message string) error {
	log.Printf("%s: %v", op, err)

	kind := apperr.KindOf(err)
	var e *apperr.Error
	if errors.As(err, &e) && e.Message != "" && kind != apperr.Remote {
		return err
	}
	return apperr.Wrap(kind, op, err, message)
}
