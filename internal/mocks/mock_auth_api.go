package mocks

import (
	"context"

	"github.com/saarzint/bolgenie/domain"
)

// MockAuthAPI implements domain.AuthAPI for testing. Unset operations return
// sensible defaults: a fixed user with a token pair for login/signup, the
// fixed user for profile fetches, nil errors elsewhere.
type MockAuthAPI struct {
	LoginFunc                func(ctx context.Context, email, password string) (*domain.AuthResponse, error)
	SignupFunc               func(ctx context.Context, email, password string) (*domain.AuthResponse, error)
	RefreshFunc              func(ctx context.Context, refreshToken string) (domain.Credential, error)
	LogoutFunc               func(ctx context.Context, accessToken string) error
	ProfileFunc              func(ctx context.Context, accessToken string) (*domain.UserProfile, error)
	UpdateProfileFunc        func(ctx context.Context, accessToken string, update domain.ProfileUpdate) (*domain.UserProfile, error)
	ResetPasswordFunc        func(ctx context.Context, email string) error
	ConfirmPasswordResetFunc func(ctx context.Context, token, newPassword string) error
	ChangePasswordFunc       func(ctx context.Context, accessToken, currentPassword, newPassword string) error
	VerifyEmailFunc          func(ctx context.Context, token string) error
	ResendVerificationFunc   func(ctx context.Context, email string) error
	DeleteAccountFunc        func(ctx context.Context, accessToken string) error
	CompletePaymentFunc      func(ctx context.Context, accessToken, plan string) (*domain.UserProfile, error)
}

// NewMockAuthAPI creates a MockAuthAPI with default behaviors
func NewMockAuthAPI() *MockAuthAPI {
	return &MockAuthAPI{}
}

func defaultProfile(email string) *domain.UserProfile {
	return &domain.UserProfile{
		Email:  email,
		Role:   domain.RoleUser,
		Plan:   domain.PlanStarter,
		Status: domain.StatusInactive,
	}
}

func defaultAuthResponse(email string) *domain.AuthResponse {
	return &domain.AuthResponse{
		User: defaultProfile(email),
		Tokens: domain.Credential{
			AccessToken:  "access_" + email,
			RefreshToken: "refresh_" + email,
			ExpiresIn:    "900",
		},
	}
}

// Login implements domain.AuthAPI
func (m *MockAuthAPI) Login(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return defaultAuthResponse(email), nil
}

// Signup implements domain.AuthAPI
func (m *MockAuthAPI) Signup(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, email, password)
	}
	return defaultAuthResponse(email), nil
}

// Refresh implements domain.AuthAPI
func (m *MockAuthAPI) Refresh(ctx context.Context, refreshToken string) (domain.Credential, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	return domain.Credential{AccessToken: "refreshed_access", RefreshToken: refreshToken, ExpiresIn: "900"}, nil
}

// Logout implements domain.AuthAPI
func (m *MockAuthAPI) Logout(ctx context.Context, accessToken string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, accessToken)
	}
	return nil
}

// Profile implements domain.AuthAPI
func (m *MockAuthAPI) Profile(ctx context.Context, accessToken string) (*domain.UserProfile, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx, accessToken)
	}
	return defaultProfile("user@example.com"), nil
}

// UpdateProfile implements domain.AuthAPI
func (m *MockAuthAPI) UpdateProfile(ctx context.Context, accessToken string, update domain.ProfileUpdate) (*domain.UserProfile, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, accessToken, update)
	}
	profile := defaultProfile("user@example.com")
	if update.CompanyName != nil {
		profile.CompanyName = *update.CompanyName
	}
	if update.CompanyAddress != nil {
		profile.CompanyAddress = *update.CompanyAddress
	}
	if update.Plan != nil {
		profile.Plan = *update.Plan
	}
	return profile, nil
}

// ResetPassword implements domain.AuthAPI
func (m *MockAuthAPI) ResetPassword(ctx context.Context, email string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, email)
	}
	return nil
}

// ConfirmPasswordReset implements domain.AuthAPI
func (m *MockAuthAPI) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if m.ConfirmPasswordResetFunc != nil {
		return m.ConfirmPasswordResetFunc(ctx, token, newPassword)
	}
	return nil
}

// ChangePassword implements domain.AuthAPI
func (m *MockAuthAPI) ChangePassword(ctx context.Context, accessToken, currentPassword, newPassword string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, accessToken, currentPassword, newPassword)
	}
	return nil
}

// VerifyEmail implements domain.AuthAPI
func (m *MockAuthAPI) VerifyEmail(ctx context.Context, token string) error {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(ctx, token)
	}
	return nil
}

// ResendVerification implements domain.AuthAPI
func (m *MockAuthAPI) ResendVerification(ctx context.Context, email string) error {
	if m.ResendVerificationFunc != nil {
		return m.ResendVerificationFunc(ctx, email)
	}
	return nil
}

// DeleteAccount implements domain.AuthAPI
func (m *MockAuthAPI) DeleteAccount(ctx context.Context, accessToken string) error {
	if m.DeleteAccountFunc != nil {
		return m.DeleteAccountFunc(ctx, accessToken)
	}
	return nil
}

// CompletePayment implements domain.AuthAPI
func (m *MockAuthAPI) CompletePayment(ctx context.Context, accessToken, plan string) (*domain.UserProfile, error) {
	if m.CompletePaymentFunc != nil {
		return m.CompletePaymentFunc(ctx, accessToken, plan)
	}
	profile := defaultProfile("user@example.com")
	profile.IsPaid = true
	profile.Plan = plan
	profile.Status = domain.StatusActive
	return profile, nil
}
