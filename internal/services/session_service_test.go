package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saarzint/bolgenie/domain"
	"github.com/saarzint/bolgenie/internal/mocks"
)

type sessionFixture struct {
	service domain.SessionService
	authAPI *mocks.MockAuthAPI
	store   *mocks.MockTokenStore
	events  *domain.SessionBroadcaster
}

func newSessionFixture(opts SessionOptions) *sessionFixture {
	authAPI := mocks.NewMockAuthAPI()
	store := mocks.NewMockTokenStore()
	events := domain.NewSessionBroadcaster()
	return &sessionFixture{
		service: NewSessionService(authAPI, store, store, events, opts),
		authAPI: authAPI,
		store:   store,
		events:  events,
	}
}

func authFailure(code domain.ErrorCode, message string, status int) *domain.APIError {
	return &domain.APIError{Code: code, Message: message, StatusCode: status, Details: map[string]any{}}
}

func TestSessionService_InitializeNoToken(t *testing.T) {
	f := newSessionFixture(SessionOptions{})
	assert.True(t, f.service.Loading())

	f.service.Initialize(context.Background())

	assert.False(t, f.service.Loading())
	assert.False(t, f.service.IsAuthenticated())
	assert.Nil(t, f.service.Profile())
}

func TestSessionService_InitializeWithValidToken(t *testing.T) {
	f := newSessionFixture(SessionOptions{})
	require.NoError(t, f.store.SetTokens(domain.Credential{AccessToken: "acc", RefreshToken: "ref"}))

	f.service.Initialize(context.Background())

	assert.False(t, f.service.Loading())
	assert.True(t, f.service.IsAuthenticated())
	require.NotNil(t, f.service.Profile())
	assert.Equal(t, "user@example.com", f.service.Profile().Email)
}

func TestSessionService_InitializeRecoversViaRefresh(t *testing.T) {
	f := newSessionFixture(SessionOptions{})
	require.NoError(t, f.store.SetTokens(domain.Credential{AccessToken: "stale", RefreshToken: "ref"}))

	profileCalls := 0
	f.authAPI.ProfileFunc = func(ctx context.Context, accessToken string) (*domain.UserProfile, error) {
		profileCalls++
		if accessToken == "stale" {
			return nil, authFailure(domain.CodeAuthRequired, "Authentication required", 401)
		}
		return &domain.UserProfile{Email: "user@example.com", Role: domain.RoleUser}, nil
	}

	f.service.Initialize(context.Background())

	assert.True(t, f.service.IsAuthenticated())
	assert.Equal(t, 2, profileCalls)
	assert.Equal(t, "refreshed_access", f.store.AccessToken())
}

func TestSessionService_InitializeSkipsFetchForExpiredToken(t *testing.T) {
	f := newSessionFixture(SessionOptions{
		TokenExpired: func(string) bool { return true },
	})
	require.NoError(t, f.store.SetTokens(domain.Credential{AccessToken: "expired", RefreshToken: "ref"}))

	f.authAPI.ProfileFunc = func(ctx context.Context, accessToken string) (*domain.UserProfile, error) {
		assert.NotEqual(t, "expired", accessToken, "expired token must not be sent")
		return &domain.UserProfile{Email: "user@example.com"}, nil
	}

	f.service.Initialize(context.Background())

	assert.True(t, f.service.IsAuthenticated())
	assert.Equal(t, "refreshed_access", f.store.AccessToken())
}

func TestSessionService_InitializeRefreshFailureClearsEverything(t *testing.T) {
	f := newSessionFixture(SessionOptions{})
	require.NoError(t, f.store.SetTokens(domain.Credential{AccessToken: "stale", RefreshToken: "revoked"}))
	require.NoError(t, f.store.SetSelectedPlan(domain.PlanPro))

	f.authAPI.ProfileFunc = func(ctx context.Context, accessToken string) (*domain.UserProfile, error) {
		return nil, authFailure(domain.CodeAuthRequired, "Authentication required", 401)
	}
	f.authAPI.RefreshFunc = func(ctx context.Context, refreshToken string) (domain.Credential, error) {
		return domain.Credential{}, authFailure(domain.CodeInvalidToken, "refresh token invalid", 401)
	}

	f.service.Initialize(context.Background())

	assert.False(t, f.service.Loading())
	assert.False(t, f.service.IsAuthenticated())
	assert.Empty(t, f.store.AccessToken())
	assert.Empty(t, f.store.RefreshToken())
	assert.Empty(t, f.store.SelectedPlan())
}

func TestSessionService_LoadingFlipsOnce(t *testing.T) {
	f := newSessionFixture(SessionOptions{})

	f.service.Initialize(context.Background())
	f.service.Initialize(context.Background())

	assert.False(t, f.service.Loading())
}

func TestSessionService_LoginSuccess(t *testing.T) {
	f := newSessionFixture(SessionOptions{})

	result := f.service.Login(context.Background(), "a@b.com", "pw")

	assert.True(t, result.Success)
	assert.Empty(t, result.Error)
	assert.True(t, f.service.IsAuthenticated())
	assert.Equal(t, "access_a@b.com", f.store.AccessToken())
	assert.Equal(t, "refresh_a@b.com", f.store.RefreshToken())
}

func TestSessionService_LoginInvalidCredentials(t *testing.T) {
	f := newSessionFixture(SessionOptions{})
	f.authAPI.LoginFunc = func(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
		return nil, authFailure(domain.CodeAuthRequired, "Invalid credentials", 401)
	}

	result := f.service.Login(context.Background(), "a@b.com", "wrong")

	assert.False(t, result.Success)
	assert.Equal(t, "Invalid credentials", result.Error)
	assert.False(t, f.service.IsAuthenticated())
	assert.Empty(t, f.store.AccessToken())
}

func TestSessionService_LoginNetworkErrorUsesFriendlyMessage(t *testing.T) {
	f := newSessionFixture(SessionOptions{})
	f.authAPI.LoginFunc = func(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
		return nil, &domain.APIError{Code: domain.CodeNetworkError, StatusCode: 0, Details: map[string]any{}}
	}

	result := f.service.Login(context.Background(), "a@b.com", "pw")

	assert.False(t, result.Success)
	assert.Equal(t, "Network error. Please check your connection and try again.", result.Error)
}

func TestSessionService_SignupEstablishesSession(t *testing.T) {
	f := newSessionFixture(SessionOptions{})

	result := f.service.Signup(context.Background(), "new@b.com", "pw")

	assert.True(t, result.Success)
	assert.True(t, f.service.IsAuthenticated())
	assert.Equal(t, domain.StatusInactive, f.service.Profile().Status)
}

func TestSessionService_LogoutClearsEverything(t *testing.T) {
	f := newSessionFixture(SessionOptions{})
	require.True(t, f.service.Login(context.Background(), "a@b.com", "pw").Success)
	require.NoError(t, f.service.SetSelectedPlan(domain.PlanPro))

	logoutCalled := false
	f.authAPI.LogoutFunc = func(ctx context.Context, accessToken string) error {
		logoutCalled = true
		return errors.New("backend unreachable")
	}

	f.service.Logout(context.Background())

	assert.True(t, logoutCalled)
	assert.False(t, f.service.IsAuthenticated())
	assert.Empty(t, f.store.AccessToken())
	assert.Empty(t, f.store.RefreshToken())
	assert.Empty(t, f.service.SelectedPlan())
}

func TestSessionService_UpdateProfileWithoutToken(t *testing.T) {
	f := newSessionFixture(SessionOptions{})

	name := "Acme Freight"
	err := f.service.UpdateProfile(context.Background(), domain.ProfileUpdate{CompanyName: &name})
	require.Error(t, err)

	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, domain.CodeAuthRequired, apiErr.Code)
}

func TestSessionService_UpdateProfileReplacesLocalProfile(t *testing.T) {
	f := newSessionFixture(SessionOptions{})
	require.True(t, f.service.Login(context.Background(), "a@b.com", "pw").Success)
	assert.False(t, f.service.HasCompletedSetup())

	name := "Acme Freight"
	require.NoError(t, f.service.UpdateProfile(context.Background(), domain.ProfileUpdate{CompanyName: &name}))

	assert.Equal(t, "Acme Freight", f.service.Profile().CompanyName)
	assert.True(t, f.service.HasCompletedSetup())
}

func TestSessionService_CompletePaymentDefaultsToStarter(t *testing.T) {
	f := newSessionFixture(SessionOptions{})
	require.True(t, f.service.Login(context.Background(), "a@b.com", "pw").Success)

	var sentPlan string
	f.authAPI.CompletePaymentFunc = func(ctx context.Context, accessToken, plan string) (*domain.UserProfile, error) {
		sentPlan = plan
		return &domain.UserProfile{Email: "a@b.com", Plan: plan, IsPaid: true, Status: domain.StatusActive}, nil
	}

	require.NoError(t, f.service.CompletePayment(context.Background()))

	assert.Equal(t, domain.PlanStarter, sentPlan)
	assert.True(t, f.service.IsPaid())
}

func TestSessionService_CompletePaymentUsesSelectedPlan(t *testing.T) {
	f := newSessionFixture(SessionOptions{})
	require.True(t, f.service.Login(context.Background(), "a@b.com", "pw").Success)
	require.NoError(t, f.service.SetSelectedPlan(domain.PlanPro))

	require.NoError(t, f.service.CompletePayment(context.Background()))

	assert.True(t, f.service.IsPaid())
	assert.Equal(t, domain.PlanPro, f.service.Profile().Plan)
	assert.Equal(t, domain.PlanPro, f.service.SelectedPlan(), "plan selection survives payment")
}

func TestSessionService_DeleteAccount(t *testing.T) {
	f := newSessionFixture(SessionOptions{})
	require.True(t, f.service.Login(context.Background(), "a@b.com", "pw").Success)

	result := f.service.DeleteAccount(context.Background())

	assert.True(t, result.Success)
	assert.False(t, f.service.IsAuthenticated())
	assert.Empty(t, f.store.AccessToken())
}

func TestSessionService_ResetPassword(t *testing.T) {
	f := newSessionFixture(SessionOptions{})

	assert.True(t, f.service.ResetPassword(context.Background(), "a@b.com").Success)

	f.authAPI.ResetPasswordFunc = func(ctx context.Context, email string) error {
		return authFailure(domain.CodeRateLimitExceeded, "Too many requests", 429)
	}
	result := f.service.ResetPassword(context.Background(), "a@b.com")
	assert.False(t, result.Success)
	assert.Equal(t, "Too many requests", result.Error)
}

func TestSessionService_TerminationSignalClearsProfile(t *testing.T) {
	f := newSessionFixture(SessionOptions{})
	require.True(t, f.service.Login(context.Background(), "a@b.com", "pw").Success)
	require.NoError(t, f.service.SetSelectedPlan(domain.PlanPro))

	f.events.Terminate("token refresh failed")

	assert.False(t, f.service.IsAuthenticated())
	assert.Nil(t, f.service.Profile())
	assert.Empty(t, f.service.SelectedPlan())
}

func TestSessionService_IsAdmin(t *testing.T) {
	tests := []struct {
		name        string
		profile     *domain.UserProfile
		adminEmails []string
		want        bool
	}{
		{"nil profile", nil, nil, false},
		{"regular user", &domain.UserProfile{Email: "a@b.com", Role: domain.RoleUser}, nil, false},
		{"admin role", &domain.UserProfile{Email: "a@b.com", Role: domain.RoleAdmin}, nil, true},
		{"allowlisted email", &domain.UserProfile{Email: "ops@b.com", Role: domain.RoleUser}, []string{"ops@b.com"}, true},
		{"not allowlisted", &domain.UserProfile{Email: "a@b.com", Role: domain.RoleUser}, []string{"ops@b.com"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSessionFixture(SessionOptions{AdminEmails: tt.adminEmails})
			if tt.profile != nil {
				profile := tt.profile
				f.authAPI.LoginFunc = func(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
					return &domain.AuthResponse{User: profile, Tokens: domain.Credential{AccessToken: "acc", RefreshToken: "ref"}}, nil
				}
				require.True(t, f.service.Login(context.Background(), tt.profile.Email, "pw").Success)
			}
			assert.Equal(t, tt.want, f.service.IsAdmin())
		})
	}
}

func TestSessionService_SetSelectedPlanEmptyClears(t *testing.T) {
	f := newSessionFixture(SessionOptions{})
	require.NoError(t, f.service.SetSelectedPlan(domain.PlanPro))
	require.NoError(t, f.service.SetSelectedPlan(""))
	assert.Empty(t, f.service.SelectedPlan())
}
