package api

import (
	"context"
	"net/http"

	"github.com/felixgeelhaar/feedfort/internal/domain"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token. Bad credentials come back as an
// *APIError; the unauthorized hook is not run.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.LoginResponse, error) {
	var resp domain.LoginResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/login",
		body:   loginRequest{Username: username, Password: password},
		public: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
