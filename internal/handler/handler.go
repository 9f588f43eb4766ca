package handlers

import (
	"context"
	"html/template"
	"time"

	"github.com/go-playground/validator/v10"

	"blogfront/internal/config"
	"blogfront/internal/models"
	"blogfront/internal/service"
	"blogfront/internal/session"
)

// SessionManager is the part of session.Manager the pages drive.
type SessionManager interface {
	Login(ctx context.Context, store session.TokenStore, req models.LoginRequest) (*session.Session, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	RegisterAdmin(ctx context.Context, s *session.Session, req models.RegisterRequest) (*models.User, error)
	Logout(store session.TokenStore, s *session.Session) error
	UpdateProfile(ctx context.Context, s *session.Session, req models.ProfileUpdate) error
}

type HealthChecker interface {
	HealthCheck() error
}

type Handlers struct {
	BlogService    service.BlogService
	CommentService service.CommentService
	LikeService    service.LikeService
	ViewService    service.ViewService
	ImageService   service.ImageService
	UserService    service.UserService
	Sessions       SessionManager
	DB             HealthChecker
	Cfg            *config.Config
	Validate       *validator.Validate
	Now            func() time.Time

	pages map[string]*template.Template
}

func NewHandlers(service *service.Service, sessions SessionManager, db HealthChecker, config *config.Config) *Handlers {
	return &Handlers{
		BlogService:    service.Blogs,
		CommentService: service.Comments,
		LikeService:    service.Likes,
		ViewService:    service.Views,
		ImageService:   service.Images,
		UserService:    service.Users,
		Sessions:       sessions,
		DB:             db,
		Cfg:            config,
		Validate:       validator.New(),
		Now:            time.Now,
		pages:          mustParsePages(),
	}
}
