package domain

import "context"

// TokenStore defines durable credential storage. The store is
// format-agnostic: token contents are never validated here. The credential
// pair is overwritten wholesale on refresh and erased together on logout.
type TokenStore interface {
	AccessToken() string
	RefreshToken() string
	SetTokens(tokens Credential) error
	ClearTokens() error
	HasToken() bool
}

// PlanStore persists the plan selected before signup. Its lifecycle is
// independent of the credential: chosen while anonymous, consumed at payment
// completion, cleared on logout.
type PlanStore interface {
	SelectedPlan() string
	SetSelectedPlan(plan string) error
	ClearSelectedPlan() error
}

// AuthAPI defines the backend authentication endpoints. Implementations talk
// to the backend directly, without refresh interception, so the session
// service and the request pipeline can both depend on it.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*AuthResponse, error)
	Signup(ctx context.Context, email, password string) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (Credential, error)
	Logout(ctx context.Context, accessToken string) error
	Profile(ctx context.Context, accessToken string) (*UserProfile, error)
	UpdateProfile(ctx context.Context, accessToken string, update ProfileUpdate) (*UserProfile, error)
	ResetPassword(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, accessToken, currentPassword, newPassword string) error
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	DeleteAccount(ctx context.Context, accessToken string) error
	CompletePayment(ctx context.Context, accessToken, plan string) (*UserProfile, error)
}

// SessionService defines the session state machine. Mutating operations
// return a Result instead of raising expected auth-flow failures.
type SessionService interface {
	Initialize(ctx context.Context)
	Login(ctx context.Context, email, password string) Result
	Signup(ctx context.Context, email, password string) Result
	Logout(ctx context.Context)
	ResetPassword(ctx context.Context, email string) Result
	UpdateProfile(ctx context.Context, update ProfileUpdate) error
	DeleteAccount(ctx context.Context) Result
	CompletePayment(ctx context.Context) error
	SetSelectedPlan(plan string) error
	SelectedPlan() string

	Loading() bool
	IsAuthenticated() bool
	Profile() *UserProfile
	IsAdmin() bool
	IsPaid() bool
	HasCompletedSetup() bool
}
