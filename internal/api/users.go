package api

import (
	"context"
	"net/http"

	"github.com/felixgeelhaar/feedfort/internal/domain"
)

// ListUsers returns every account (admin only)
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/usuarios"}, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser adds an account
func (c *Client) CreateUser(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, request{method: http.MethodPost, path: "/usuarios", body: in}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser changes an account. A blank password is not sent.
func (c *Client) UpdateUser(ctx context.Context, id int, in domain.UserInput) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, request{method: http.MethodPut, path: idPath("/usuarios", id), body: in}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an account
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/usuarios", id)}, nil)
}
