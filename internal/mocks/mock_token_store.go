package mocks

import (
	"sync"

	"github.com/saarzint/bolgenie/domain"
)

// MockTokenStore implements domain.TokenStore and domain.PlanStore for
// testing. Defaults to an in-memory store; individual operations can be
// overridden via the func fields.
type MockTokenStore struct {
	AccessTokenFunc   func() string
	RefreshTokenFunc  func() string
	SetTokensFunc     func(tokens domain.Credential) error
	ClearTokensFunc   func() error
	SelectedPlanFunc  func() string
	SetSelectedFunc   func(plan string) error
	ClearSelectedFunc func() error

	mu      sync.Mutex
	access  string
	refresh string
	plan    string
}

// NewMockTokenStore creates a MockTokenStore with in-memory defaults
func NewMockTokenStore() *MockTokenStore {
	return &MockTokenStore{}
}

// AccessToken implements domain.TokenStore
func (m *MockTokenStore) AccessToken() string {
	if m.AccessTokenFunc != nil {
		return m.AccessTokenFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access
}

// RefreshToken implements domain.TokenStore
func (m *MockTokenStore) RefreshToken() string {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refresh
}

// SetTokens implements domain.TokenStore
func (m *MockTokenStore) SetTokens(tokens domain.Credential) error {
	if m.SetTokensFunc != nil {
		return m.SetTokensFunc(tokens)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = tokens.AccessToken
	m.refresh = tokens.RefreshToken
	return nil
}

// ClearTokens implements domain.TokenStore
func (m *MockTokenStore) ClearTokens() error {
	if m.ClearTokensFunc != nil {
		return m.ClearTokensFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = ""
	m.refresh = ""
	return nil
}

// HasToken implements domain.TokenStore
func (m *MockTokenStore) HasToken() bool {
	return m.AccessToken() != ""
}

// SelectedPlan implements domain.PlanStore
func (m *MockTokenStore) SelectedPlan() string {
	if m.SelectedPlanFunc != nil {
		return m.SelectedPlanFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.plan
}

// SetSelectedPlan implements domain.PlanStore
func (m *MockTokenStore) SetSelectedPlan(plan string) error {
	if m.SetSelectedFunc != nil {
		return m.SetSelectedFunc(plan)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plan = plan
	return nil
}

// ClearSelectedPlan implements domain.PlanStore
func (m *MockTokenStore) ClearSelectedPlan() error {
	if m.ClearSelectedFunc != nil {
		return m.ClearSelectedFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plan = ""
	return nil
}
