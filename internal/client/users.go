package client

import (
	"context"
	"net/http"

	"blogfront/internal/models"
)

type UserAPI struct {
	c *Client
}

func (a *UserAPI) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	var user models.User
	err := a.c.do(ctx, request{op: "users.register", method: http.MethodPost, path: "/users/register", body: req}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *UserAPI) RegisterAdmin(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	var user models.User
	err := a.c.do(ctx, request{op: "users.registerAdmin", method: http.MethodPost, path: "/users/register/admin", body: req}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *UserAPI) Login(ctx context.Context, req models.LoginRequest) (*models.JwtResponse, error) {
	var resp models.JwtResponse
	err := a.c.do(ctx, request{op: "users.login", method: http.MethodPost, path: "/users/login", body: req}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *UserAPI) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	err := a.c.do(ctx, request{op: "users.profile", method: http.MethodGet, path: "/users/profile"}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *UserAPI) UpdateProfile(ctx context.Context, req models.ProfileUpdate) (*models.User, error) {
	var user models.User
	err := a.c.do(ctx, request{op: "users.updateProfile", method: http.MethodPut, path: "/users/profile", body: req}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns every account; the backend does not paginate it.
func (a *UserAPI) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := a.c.do(ctx, request{op: "users.list", method: http.MethodGet, path: "/users"}, &users)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (a *UserAPI) Get(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := a.c.do(ctx, request{op: "users.get", method: http.MethodGet, path: idPath("/users/%d", id)}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *UserAPI) Update(ctx context.Context, id int64, req models.UserUpdate) (*models.User, error) {
	var user models.User
	err := a.c.do(ctx, request{op: "users.update", method: http.MethodPut, path: idPath("/users/%d", id), body: req}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *UserAPI) Delete(ctx context.Context, id int64) error {
	return a.c.do(ctx, request{op: "users.delete", method: http.MethodDelete, path: idPath("/users/%d", id)}, nil)
}
