package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"blogfront/internal/apperr"
	"blogfront/internal/models"
	"blogfront/internal/session"
)

// UserService is the admin view of user accounts.
type UserService interface {
	List(ctx context.Context, sess *session.Session) ([]models.User, error)
	Get(ctx context.Context, sess *session.Session, userID int64) (*models.User, error)
	UpdateUser(ctx context.Context, sess *session.Session, userID int64, req models.UserUpdate) error
	SetRole(ctx context.Context, sess *session.Session, userID int64, role string) error
	DeleteUser(ctx context.Context, sess *session.Session, userID int64) error
}

type userService struct {
	api      AdminUserAPI
	validate *validator.Validate
}

func NewUserService(api AdminUserAPI, validate *validator.Validate) UserService {
	return &userService{
		api:      api,
		validate: validate,
	}
}

func (s *userService) List(ctx context.Context, sess *session.Session) ([]models.User, error) {
	if err := requireAdmin(sess, "users.list"); err != nil {
		return nil, err
	}

	users, err := s.api.List(ctx)
	if err != nil {
		return nil, failed("users.list", err, "Failed to load users")
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, sess *session.Session, userID int64) (*models.User, error) {
	if err := requireAdmin(sess, "users.get"); err != nil {
		return nil, err
	}

	user, err := s.api.Get(ctx, userID)
	if err != nil {
		return nil, failed("users.get", err, "Failed to load user")
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, sess *session.Session, userID int64, req models.UserUpdate) error {
	const op = "users.update"

	if err := requireAdmin(sess, op); err != nil {
		return err
	}

	req.Email = strings.TrimSpace(req.Email)
	if err := s.validate.Struct(req); err != nil {
		return apperr.Wrap(apperr.Validation, op, err, "Invalid user details")
	}

	if _, err := s.api.Update(ctx, userID, req); err != nil {
		return failed(op, err, "Failed to update user")
	}
	return nil
}

// SetRole changes only the role and keeps the rest of the account.
func (s *userService) SetRole(ctx context.Context, sess *session.Session, userID int64, role string) error {
	user, err := s.Get(ctx, sess, userID)
	if err != nil {
		return err
	}

	return s.UpdateUser(ctx, sess, userID, models.UserUpdate{
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      role,
	})
}

func (s *userService) DeleteUser(ctx context.Context, sess *session.Session, userID int64) error {
	const op = "users.delete"

	if err := requireAdmin(sess, op); err != nil {
		return err
	}
	if sess.User.ID == userID {
		return apperr.New(apperr.Validation, op, "You cannot delete your own account")
	}

	if err := s.api.Delete(ctx, userID); err != nil {
		return failed(op, err, "Failed to delete user")
	}
	return nil
}
