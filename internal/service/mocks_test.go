package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"blogfront/internal/client"
	"blogfront/internal/models"
)

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

type MockBlogAPI struct {
	mock.Mock
}

func (m *MockBlogAPI) page(args mock.Arguments) (*client.BlogPage, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.BlogPage), args.Error(1)
}

func (m *MockBlogAPI) blog(args mock.Arguments) (*models.Blog, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blog), args.Error(1)
}

func (m *MockBlogAPI) ListPublished(ctx context.Context, p models.PageRequest) (*client.BlogPage, error) {
	return m.page(m.Called(ctx, p))
}

func (m *MockBlogAPI) GetPublished(ctx context.Context, id int64) (*models.Blog, error) {
	return m.blog(m.Called(ctx, id))
}

func (m *MockBlogAPI) SearchPublished(ctx context.Context, keyword string, p models.PageRequest) (*client.BlogPage, error) {
	return m.page(m.Called(ctx, keyword, p))
}

func (m *MockBlogAPI) List(ctx context.Context, p models.PageRequest) (*client.BlogPage, error) {
	return m.page(m.Called(ctx, p))
}

func (m *MockBlogAPI) Get(ctx context.Context, id int64) (*models.Blog, error) {
	return m.blog(m.Called(ctx, id))
}

func (m *MockBlogAPI) ListByAuthor(ctx context.Context, authorID int64, p models.PageRequest) (*client.BlogPage, error) {
	return m.page(m.Called(ctx, authorID, p))
}

func (m *MockBlogAPI) Create(ctx context.Context, in models.BlogInput) (*models.Blog, error) {
	return m.blog(m.Called(ctx, in))
}

func (m *MockBlogAPI) Update(ctx context.Context, id int64, in models.BlogInput) (*models.Blog, error) {
	return m.blog(m.Called(ctx, id, in))
}

func (m *MockBlogAPI) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockEngagementAPI struct {
	mock.Mock
}

func (m *MockEngagementAPI) ToggleLike(ctx context.Context, blogID int64) (bool, error) {
	args := m.Called(ctx, blogID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEngagementAPI) IsLiked(ctx context.Context, blogID int64) (bool, error) {
	args := m.Called(ctx, blogID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEngagementAPI) LikeCount(ctx context.Context, blogID int64) (int64, error) {
	args := m.Called(ctx, blogID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEngagementAPI) RecordView(ctx context.Context, blogID int64) error {
	return m.Called(ctx, blogID).Error(0)
}

type MockAdminUserAPI struct {
	mock.Mock
}

func (m *MockAdminUserAPI) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockAdminUserAPI) Get(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAdminUserAPI) Update(ctx context.Context, id int64, req models.UserUpdate) (*models.User, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAdminUserAPI) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockViewRepository struct {
	mock.Mock
}

func (m *MockViewRepository) LastViewed(ctx context.Context, visitorID string, blogID int64) (time.Time, bool, error) {
	args := m.Called(ctx, visitorID, blogID)
	return args.Get(0).(time.Time), args.Bool(1), args.Error(2)
}

func (m *MockViewRepository) MarkViewed(ctx context.Context, visitorID string, blogID int64, at time.Time) error {
	return m.Called(ctx, visitorID, blogID, at).Error(0)
}

func (m *MockViewRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockViewRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) UploadImage(ctx context.Context, fileName, contentType string, data []byte) (string, string, error) {
	args := m.Called(ctx, fileName, contentType, data)
	return args.String(0), args.String(1), args.Error(2)
}
