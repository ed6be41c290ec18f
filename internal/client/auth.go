package client

import (
	"context"
	"net/http"

	"github.com/PrincessAkira/RestockIQ/internal/pos"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type loginResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    userPayload `json:"user"`
}

// Login authenticates the operator and keeps the returned bearer token for
// subsequent calls. The session is what the register hangs the operator's
// display name on.
func (c *Client) Login(ctx context.Context, email, password string) (*pos.Session, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &pos.Session{
		Name:  resp.User.Name,
		Email: resp.User.Email,
		Role:  resp.User.Role,
		Token: resp.Token,
	}, nil
}

// Logout invalidates the current token server-side.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
	c.token = ""
	return err
}
