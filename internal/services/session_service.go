package services

import (
	"context"
	"log"
	"sync"

	"github.com/saarzint/bolgenie/domain"
)

// SessionOptions tunes the session service
type SessionOptions struct {
	// AdminEmails is a legacy-compatibility allowlist granting the admin
	// view in addition to the role claim.
	AdminEmails []string
	// TokenExpired, when set, lets Initialize skip a profile fetch that is
	// guaranteed to fail because the stored access token already lapsed.
	TokenExpired func(token string) bool
}

// SessionServiceImpl implements domain.SessionService. Credential and
// profile are present together or absent together; this service is the only
// component that transitions between the two states.
type SessionServiceImpl struct {
	authAPI domain.AuthAPI
	tokens  domain.TokenStore
	plans   domain.PlanStore
	opts    SessionOptions

	mu          sync.RWMutex
	profile     *domain.UserProfile
	loading     bool
	loadingOnce sync.Once
}

// NewSessionService creates a session service and subscribes it to the
// pipeline's termination signal.
func NewSessionService(
	authAPI domain.AuthAPI,
	tokens domain.TokenStore,
	plans domain.PlanStore,
	events *domain.SessionBroadcaster,
	opts SessionOptions,
) domain.SessionService {
	s := &SessionServiceImpl{
		authAPI: authAPI,
		tokens:  tokens,
		plans:   plans,
		opts:    opts,
		loading: true,
	}
	events.Subscribe(s.handleSessionEvent)
	return s
}

// Initialize settles the session from stored credentials: fetch the profile
// if a token exists, attempt one refresh-and-refetch on failure, clear
// everything on continued failure. The loading flag flips true to false
// exactly once regardless of branch.
func (s *SessionServiceImpl) Initialize(ctx context.Context) {
	defer s.finishLoading()

	token := s.tokens.AccessToken()
	if token == "" {
		return
	}

	if s.opts.TokenExpired == nil || !s.opts.TokenExpired(token) {
		profile, err := s.authAPI.Profile(ctx, token)
		if err == nil {
			s.setProfile(profile)
			return
		}
	}

	if !s.refreshAndFetch(ctx) {
		s.clearSession()
	}
}

// refreshAndFetch attempts one token refresh followed by a profile refetch
func (s *SessionServiceImpl) refreshAndFetch(ctx context.Context) bool {
	refreshToken := s.tokens.RefreshToken()
	if refreshToken == "" {
		return false
	}

	tokens, err := s.authAPI.Refresh(ctx, refreshToken)
	if err != nil {
		return false
	}
	if err := s.tokens.SetTokens(tokens); err != nil {
		return false
	}

	profile, err := s.authAPI.Profile(ctx, tokens.AccessToken)
	if err != nil {
		return false
	}
	s.setProfile(profile)
	return true
}

// Login implements domain.SessionService. Never surfaces a raw error.
func (s *SessionServiceImpl) Login(ctx context.Context, email, password string) domain.Result {
	resp, err := s.authAPI.Login(ctx, email, password)
	if err != nil {
		return resultFromError(err)
	}
	return s.establish(resp)
}

// Signup implements domain.SessionService
func (s *SessionServiceImpl) Signup(ctx context.Context, email, password string) domain.Result {
	resp, err := s.authAPI.Signup(ctx, email, password)
	if err != nil {
		return resultFromError(err)
	}
	return s.establish(resp)
}

func (s *SessionServiceImpl) establish(resp *domain.AuthResponse) domain.Result {
	if err := s.tokens.SetTokens(resp.Tokens); err != nil {
		return resultFromError(err)
	}
	s.setProfile(resp.User)
	return domain.Ok()
}

// Logout implements domain.SessionService. The backend call is best-effort;
// local state clears unconditionally.
func (s *SessionServiceImpl) Logout(ctx context.Context) {
	if token := s.tokens.AccessToken(); token != "" {
		if err := s.authAPI.Logout(ctx, token); err != nil {
			log.Printf("logout notification failed: %v", err)
		}
	}
	s.clearSession()
}

// ResetPassword implements domain.SessionService. Does not touch session
// state.
func (s *SessionServiceImpl) ResetPassword(ctx context.Context, email string) domain.Result {
	if err := s.authAPI.ResetPassword(ctx, email); err != nil {
		return resultFromError(err)
	}
	return domain.Ok()
}

// UpdateProfile implements domain.SessionService. The server's full response
// replaces the local profile. Without a token this fails with AUTH_REQUIRED
// rather than silently no-opping.
func (s *SessionServiceImpl) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) error {
	token := s.tokens.AccessToken()
	if token == "" {
		return notAuthenticated()
	}

	profile, err := s.authAPI.UpdateProfile(ctx, token, update)
	if err != nil {
		return err
	}
	s.setProfile(profile)
	return nil
}

// DeleteAccount implements domain.SessionService
func (s *SessionServiceImpl) DeleteAccount(ctx context.Context) domain.Result {
	token := s.tokens.AccessToken()
	if token == "" {
		return domain.Fail("Not authenticated")
	}

	if err := s.authAPI.DeleteAccount(ctx, token); err != nil {
		return resultFromError(err)
	}
	s.clearSession()
	return domain.Ok()
}

// CompletePayment implements domain.SessionService. Sends the selected plan,
// defaulting to starter, and replaces the local profile with the response.
func (s *SessionServiceImpl) CompletePayment(ctx context.Context) error {
	token := s.tokens.AccessToken()
	if token == "" {
		return notAuthenticated()
	}

	plan := s.plans.SelectedPlan()
	if plan == "" {
		plan = domain.PlanStarter
	}

	profile, err := s.authAPI.CompletePayment(ctx, token, plan)
	if err != nil {
		return err
	}
	s.setProfile(profile)
	return nil
}

// SetSelectedPlan implements domain.SessionService. An empty plan clears the
// selection.
func (s *SessionServiceImpl) SetSelectedPlan(plan string) error {
	if plan == "" {
		return s.plans.ClearSelectedPlan()
	}
	return s.plans.SetSelectedPlan(plan)
}

// SelectedPlan implements domain.SessionService
func (s *SessionServiceImpl) SelectedPlan() string {
	return s.plans.SelectedPlan()
}

// handleSessionEvent reacts to the pipeline's termination broadcast: the
// only externally triggered transition to ANONYMOUS.
func (s *SessionServiceImpl) handleSessionEvent(event domain.SessionEvent) {
	if event.Type != domain.SessionTerminatedEvent {
		return
	}
	s.mu.Lock()
	s.profile = nil
	s.mu.Unlock()
	if err := s.plans.ClearSelectedPlan(); err != nil {
		log.Printf("failed to clear selected plan: %v", err)
	}
}

// Loading implements domain.SessionService
func (s *SessionServiceImpl) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// IsAuthenticated implements domain.SessionService
func (s *SessionServiceImpl) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile != nil
}

// Profile implements domain.SessionService
func (s *SessionServiceImpl) Profile() *domain.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	copied := *s.profile
	return &copied
}

// IsAdmin implements domain.SessionService
func (s *SessionServiceImpl) IsAdmin() bool {
	profile := s.Profile()
	if profile == nil {
		return false
	}
	if profile.Role == domain.RoleAdmin {
		return true
	}
	for _, email := range s.opts.AdminEmails {
		if email == profile.Email {
			return true
		}
	}
	return false
}

// IsPaid implements domain.SessionService
func (s *SessionServiceImpl) IsPaid() bool {
	profile := s.Profile()
	return profile != nil && profile.IsPaid
}

// HasCompletedSetup implements domain.SessionService
func (s *SessionServiceImpl) HasCompletedSetup() bool {
	return s.Profile().HasCompletedSetup()
}

func (s *SessionServiceImpl) setProfile(profile *domain.UserProfile) {
	s.mu.Lock()
	s.profile = profile
	s.mu.Unlock()
}

// clearSession drops the entire local session: tokens, profile, plan
func (s *SessionServiceImpl) clearSession() {
	if err := s.tokens.ClearTokens(); err != nil {
		log.Printf("failed to clear tokens: %v", err)
	}
	if err := s.plans.ClearSelectedPlan(); err != nil {
		log.Printf("failed to clear selected plan: %v", err)
	}
	s.mu.Lock()
	s.profile = nil
	s.mu.Unlock()
}

func (s *SessionServiceImpl) finishLoading() {
	s.loadingOnce.Do(func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	})
}

// resultFromError converts any failure into a Result carrying a human
// message: the backend's message when it sent one, the canned user message
// otherwise.
func resultFromError(err error) domain.Result {
	apiErr := domain.Normalize(err)
	if apiErr.Message != "" {
		return domain.Fail(apiErr.Message)
	}
	return domain.Fail(apiErr.UserMessage())
}

func notAuthenticated() *domain.APIError {
	return &domain.APIError{
		Code:       domain.CodeAuthRequired,
		Message:    "Not authenticated",
		StatusCode: 401,
		Details:    map[string]any{},
	}
}
