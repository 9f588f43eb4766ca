package test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"blogfront/internal/client"
	"blogfront/internal/models"
	"blogfront/internal/service"
	"blogfront/internal/session"
)

type MockBlogService struct {
	mock.Mock
}

func (m *MockBlogService) page(args mock.Arguments) (*client.BlogPage, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.BlogPage), args.Error(1)
}

func (m *MockBlogService) blog(args mock.Arguments) (*models.Blog, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blog), args.Error(1)
}

func (m *MockBlogService) Published(ctx context.Context, p models.PageRequest) (*client.BlogPage, error) {
	return m.page(m.Called(ctx, p))
}

func (m *MockBlogService) Search(ctx context.Context, keyword string, p models.PageRequest) (*client.BlogPage, error) {
	return m.page(m.Called(ctx, keyword, p))
}

func (m *MockBlogService) Get(ctx context.Context, sess *session.Session, id int64) (*models.Blog, error) {
	return m.blog(m.Called(ctx, sess, id))
}

func (m *MockBlogService) ByAuthor(ctx context.Context, authorID int64, p models.PageRequest) (*client.BlogPage, error) {
	return m.page(m.Called(ctx, authorID, p))
}

func (m *MockBlogService) All(ctx context.Context, sess *session.Session, p models.PageRequest) (*client.BlogPage, error) {
	return m.page(m.Called(ctx, sess, p))
}

func (m *MockBlogService) Create(ctx context.Context, sess *session.Session, in models.BlogInput) (*models.Blog, error) {
	return m.blog(m.Called(ctx, sess, in))
}

func (m *MockBlogService) Update(ctx context.Context, sess *session.Session, id int64, in models.BlogInput) (*models.Blog, error) {
	return m.blog(m.Called(ctx, sess, id, in))
}

func (m *MockBlogService) Delete(ctx context.Context, sess *session.Session, id int64) error {
	args := m.Called(ctx, sess, id)
	return args.Error(0)
}

type MockCommentAPI struct {
	mock.Mock
}

func (m *MockCommentAPI) Comments(ctx context.Context, blogID int64) ([]*models.Comment, error) {
	args := m.Called(ctx, blogID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comment), args.Error(1)
}

func (m *MockCommentAPI) AddComment(ctx context.Context, req models.CreateCommentRequest) (*models.Comment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentAPI) UpdateComment(ctx context.Context, blogID, commentID int64, content string) (*models.Comment, error) {
	args := m.Called(ctx, blogID, commentID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentAPI) DeleteComment(ctx context.Context, blogID, commentID int64) error {
	args := m.Called(ctx, blogID, commentID)
	return args.Error(0)
}

type MockLikeService struct {
	mock.Mock
}

func (m *MockLikeService) Toggle(ctx context.Context, sess *session.Session, blogID int64) (bool, error) {
	args := m.Called(ctx, sess, blogID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLikeService) Status(ctx context.Context, sess *session.Session, blogID int64) service.LikeStatus {
	args := m.Called(ctx, sess, blogID)
	return args.Get(0).(service.LikeStatus)
}

type MockViewService struct {
	mock.Mock
}

func (m *MockViewService) Record(ctx context.Context, visitorID string, blogID int64) bool {
	args := m.Called(ctx, visitorID, blogID)
	return args.Bool(0)
}

func (m *MockViewService) Purge(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockViewService) Tracked(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context, sess *session.Session) ([]models.User, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, sess *session.Session, userID int64) (*models.User, error) {
	args := m.Called(ctx, sess, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, sess *session.Session, userID int64, req models.UserUpdate) error {
	args := m.Called(ctx, sess, userID, req)
	return args.Error(0)
}

func (m *MockUserService) SetRole(ctx context.Context, sess *session.Session, userID int64, role string) error {
	args := m.Called(ctx, sess, userID, role)
	return args.Error(0)
}

func (m *MockUserService) DeleteUser(ctx context.Context, sess *session.Session, userID int64) error {
	args := m.Called(ctx, sess, userID)
	return args.Error(0)
}

type MockSessionManager struct {
	mock.Mock
}

func (m *MockSessionManager) Login(ctx context.Context, store session.TokenStore, req models.LoginRequest) (*session.Session, error) {
	args := m.Called(ctx, store, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if err := store.Save("jwt-token"); err != nil {
		return nil, err
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionManager) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockSessionManager) RegisterAdmin(ctx context.Context, s *session.Session, req models.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, s, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockSessionManager) Logout(store session.TokenStore, s *session.Session) error {
	args := m.Called(store, s)
	_ = store.Clear()
	return args.Error(0)
}

func (m *MockSessionManager) UpdateProfile(ctx context.Context, s *session.Session, req models.ProfileUpdate) error {
	args := m.Called(ctx, s, req)
	return args.Error(0)
}

type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) HealthCheck() error {
	args := m.Called()
	return args.Error(0)
}
