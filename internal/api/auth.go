package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/saarzint/bolgenie/domain"
)

// AuthClient talks to the backend auth endpoints directly, without refresh
// interception: a failed login must not trigger a refresh of itself. It
// implements domain.AuthAPI and the pipeline's Refresher.
type AuthClient struct {
	baseURL string
	http    *http.Client
}

// NewAuthClient creates an auth endpoint client
func NewAuthClient(baseURL string, timeout time.Duration) *AuthClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &AuthClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *AuthClient) do(ctx context.Context, method, path, bearer string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return domain.Normalize(fmt.Errorf("failed to encode request body: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return domain.Normalize(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Normalize(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(resp.Body)
		return domain.Normalize(&domain.ResponseError{StatusCode: resp.StatusCode, Body: raw})
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.Normalize(fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login implements domain.AuthAPI
func (c *AuthClient) Login(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", credentialsRequest{email, password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Signup implements domain.AuthAPI
func (c *AuthClient) Signup(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", "", credentialsRequest{email, password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refresh implements domain.AuthAPI and transport.Refresher
func (c *AuthClient) Refresh(ctx context.Context, refreshToken string) (domain.Credential, error) {
	var tokens domain.Credential
	body := map[string]string{"refresh_token": refreshToken}
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", "", body, &tokens); err != nil {
		return domain.Credential{}, err
	}
	return tokens, nil
}

// Logout implements domain.AuthAPI
func (c *AuthClient) Logout(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", accessToken, nil, nil)
}

// Profile implements domain.AuthAPI
func (c *AuthClient) Profile(ctx context.Context, accessToken string) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	if err := c.do(ctx, http.MethodGet, "/auth/me", accessToken, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile implements domain.AuthAPI. The backend merges the partial
// update and returns the full profile.
func (c *AuthClient) UpdateProfile(ctx context.Context, accessToken string, update domain.ProfileUpdate) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	if err := c.do(ctx, http.MethodPut, "/auth/me", accessToken, update, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ResetPassword implements domain.AuthAPI
func (c *AuthClient) ResetPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/password-reset", "", map[string]string{"email": email}, nil)
}

// ConfirmPasswordReset implements domain.AuthAPI
func (c *AuthClient) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"token": token, "new_password": newPassword}
	return c.do(ctx, http.MethodPost, "/auth/password-reset/confirm", "", body, nil)
}

// ChangePassword implements domain.AuthAPI
func (c *AuthClient) ChangePassword(ctx context.Context, accessToken, currentPassword, newPassword string) error {
	body := map[string]string{"current_password": currentPassword, "new_password": newPassword}
	return c.do(ctx, http.MethodPost, "/auth/change-password", accessToken, body, nil)
}

// VerifyEmail implements domain.AuthAPI
func (c *AuthClient) VerifyEmail(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/verify-email", "", map[string]string{"token": token}, nil)
}

// ResendVerification implements domain.AuthAPI
func (c *AuthClient) ResendVerification(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/resend-verification", "", map[string]string{"email": email}, nil)
}

// DeleteAccount implements domain.AuthAPI
func (c *AuthClient) DeleteAccount(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodDelete, "/auth/delete-account", accessToken, nil, nil)
}

// CompletePayment implements domain.AuthAPI
func (c *AuthClient) CompletePayment(ctx context.Context, accessToken, plan string) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	path := "/auth/complete-payment?plan=" + plan
	if err := c.do(ctx, http.MethodPost, path, accessToken, struct{}{}, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
