package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/keylab/storefront/internal/domain/model"
)

// tokenResponse mirrors POST /auth/login output.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserUpdate carries optional profile changes for PUT /auth/user.
type UserUpdate struct {
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Login exchanges credentials for a bearer token. The endpoint expects
// form-encoded username/password.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, contentType := formBody(url.Values{
		"username": {email},
		"password": {password},
	})
	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, c.endpoint("auth", "login"), nil, body, contentType, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

// Signup registers a new identity. Logging in afterwards is the caller's job.
func (c *Client) Signup(ctx context.Context, name, email, password string) (*model.Identity, error) {
	body, contentType, err := jsonBody(signupRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	var identity model.Identity
	if err := c.do(ctx, http.MethodPost, c.endpoint("auth", "signup"), nil, body, contentType, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// CurrentUser fetches the identity behind the current credential.
func (c *Client) CurrentUser(ctx context.Context) (*model.Identity, error) {
	var identity model.Identity
	if err := c.do(ctx, http.MethodGet, c.endpoint("auth", "user"), nil, nil, "", &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// UpdateUser changes the current user's name and/or password.
func (c *Client) UpdateUser(ctx context.Context, update UserUpdate) (*model.Identity, error) {
	body, contentType, err := jsonBody(update)
	if err != nil {
		return nil, err
	}
	var identity model.Identity
	if err := c.do(ctx, http.MethodPut, c.endpoint("auth", "user"), nil, body, contentType, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}
