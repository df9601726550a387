package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/saarzint/bolgenie/domain"
)

// Storage keys. Fixed; cleared together on full logout.
const (
	accessTokenKey  = "auth_token"
	refreshTokenKey = "refresh_token"
	selectedPlanKey = "selectedPlan"
)

const storeFileName = "state.json"

// FileStore is a durable key-value file under the user's config directory.
// It implements domain.TokenStore and domain.PlanStore.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store rooted at dir, creating it if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create store dir: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, storeFileName)}, nil
}

func (s *FileStore) read() map[string]string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return map[string]string{}
	}
	kv := map[string]string{}
	if err := json.Unmarshal(data, &kv); err != nil {
		// Corrupt state file; treat as empty rather than failing every call.
		return map[string]string{}
	}
	return kv
}

func (s *FileStore) write(kv map[string]string) error {
	data, err := json.Marshal(kv)
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}
	return os.WriteFile(s.path, data, 0o600)
}

// AccessToken implements domain.TokenStore
func (s *FileStore) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()[accessTokenKey]
}

// RefreshToken implements domain.TokenStore
func (s *FileStore) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()[refreshTokenKey]
}

// SetTokens implements domain.TokenStore. The pair is overwritten wholesale.
func (s *FileStore) SetTokens(tokens domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kv := s.read()
	kv[accessTokenKey] = tokens.AccessToken
	kv[refreshTokenKey] = tokens.RefreshToken
	return s.write(kv)
}

// ClearTokens implements domain.TokenStore
func (s *FileStore) ClearTokens() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kv := s.read()
	delete(kv, accessTokenKey)
	delete(kv, refreshTokenKey)
	return s.write(kv)
}

// HasToken implements domain.TokenStore
func (s *FileStore) HasToken() bool {
	return s.AccessToken() != ""
}

// SelectedPlan implements domain.PlanStore
func (s *FileStore) SelectedPlan() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()[selectedPlanKey]
}

// SetSelectedPlan implements domain.PlanStore
func (s *FileStore) SetSelectedPlan(plan string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kv := s.read()
	kv[selectedPlanKey] = plan
	return s.write(kv)
}

// ClearSelectedPlan implements domain.PlanStore
func (s *FileStore) ClearSelectedPlan() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kv := s.read()
	delete(kv, selectedPlanKey)
	return s.write(kv)
}
