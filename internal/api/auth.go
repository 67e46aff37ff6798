package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/naumanrao/courseadmin/internal/domain"
)

// LoginResult is the body of a successful login.
type LoginResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Login exchanges a username and password for a bearer token. Any non-2xx
// answer is reported as ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body, err := jsonBody(map[string]string{"username": username, "password": password})
	if err != nil {
		return nil, err
	}

	var out LoginResult
	err = c.do(ctx, request{
		op:        "login",
		method:    http.MethodPost,
		endpoint:  "admin/api/login",
		body:      body,
		anonymous: true,
	}, &out)

	var rej *ServerRejection
	var netErr *NetworkError
	switch {
	case err == nil:
	case errors.As(err, &rej):
		return nil, ErrInvalidCredentials
	case errors.As(err, &netErr) && netErr.Status != 0:
		return nil, ErrInvalidCredentials
	default:
		return nil, err
	}

	if strings.TrimSpace(out.Token) == "" {
		return nil, &NetworkError{Op: "login", Err: errors.New("response carried no token")}
	}
	return &out, nil
}
