package clients

import (
	"context"
	"encoding/json"
	"net/http"

	"storefront-client/models"
)

// Login exchanges credentials for an access token
func (c *APIClient) Login(ctx context.Context, email, password string) (string, error) {
	var out models.TokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   models.LoginRequest{Email: email, Password: password},
	}, &out)
	if err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", &APIError{Kind: KindDecode, Status: http.StatusOK, Detail: "login response has no access_token"}
	}
	return out.AccessToken, nil
}

// Me fetches the account behind token
func (c *APIClient) Me(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/auth/me",
		token:  token,
	}, &user)
	if err != nil {
		return nil, err
	}
	if err := user.Validate(); err != nil {
		return nil, &APIError{Kind: KindDecode, Status: http.StatusOK, Err: err}
	}
	return &user, nil
}

// Register creates an account. Required fields and the email format are
// checked before any request is sent.
func (c *APIClient) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := validateRegistration(c, req); err != nil {
		return nil, err
	}

	var user models.User
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/register",
		body:   req,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile saves the editable profile fields of the token's account.
// The returned user is nil when the backend's body is not a user record.
func (c *APIClient) UpdateProfile(ctx context.Context, token string, req models.ProfileUpdate) (*models.User, error) {
	if err := validateProfile(c, req); err != nil {
		return nil, err
	}

	var raw json.RawMessage
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "/users/profile",
		token:  token,
		body:   req,
	}, &raw)
	if err != nil {
		return nil, err
	}

	var user models.User
	if json.Unmarshal(raw, &user) != nil || user.Validate() != nil {
		return nil, nil
	}
	return &user, nil
}
