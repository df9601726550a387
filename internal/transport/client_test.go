package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saarzint/bolgenie/domain"
	"github.com/saarzint/bolgenie/internal/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// authRequiredBody writes the structured backend error envelope for a 401
func authRequiredBody(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "AUTH_REQUIRED",
			"message": "Authentication required",
		},
	})
}

// stubRefresher implements Refresher with an optional gate so tests can hold
// a refresh in flight deterministically.
type stubRefresher struct {
	calls   atomic.Int32
	gate    chan struct{}
	tokens  domain.Credential
	failErr error
}

func (r *stubRefresher) Refresh(ctx context.Context, refreshToken string) (domain.Credential, error) {
	r.calls.Add(1)
	if r.gate != nil {
		<-r.gate
	}
	if r.failErr != nil {
		return domain.Credential{}, r.failErr
	}
	return r.tokens, nil
}

func newTestClient(t *testing.T, backend http.Handler, store domain.TokenStore, refresher Refresher) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	client := New(Options{
		BaseURL:    server.URL,
		TokenStore: store,
		Refresher:  refresher,
	})
	return client, server
}

func TestClient_AttachesBearer(t *testing.T) {
	var gotAuth string
	router := gin.New()
	router.GET("/shipments", func(c *gin.Context) {
		gotAuth = c.GetHeader("Authorization")
		c.JSON(http.StatusOK, gin.H{"items": []any{}, "total": 0})
	})

	store := mocks.NewMockTokenStore()
	require.NoError(t, store.SetTokens(domain.Credential{AccessToken: "acc-1", RefreshToken: "ref-1"}))
	client, _ := newTestClient(t, router, store, &stubRefresher{})

	var page domain.ShipmentPage
	require.NoError(t, client.Get(context.Background(), "/shipments", &page))
	assert.Equal(t, "Bearer acc-1", gotAuth)
}

func TestClient_UnauthenticatedWithoutToken(t *testing.T) {
	var gotAuth string
	router := gin.New()
	router.GET("/plans", func(c *gin.Context) {
		gotAuth = c.GetHeader("Authorization")
		c.JSON(http.StatusOK, gin.H{})
	})

	client, _ := newTestClient(t, router, mocks.NewMockTokenStore(), &stubRefresher{})

	require.NoError(t, client.Get(context.Background(), "/plans", nil))
	assert.Empty(t, gotAuth, "no credential stored means no Authorization header")
}

func TestClient_StructuredErrorPreserved(t *testing.T) {
	router := gin.New()
	router.POST("/shipments", func(c *gin.Context) {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":       "CONFLICT",
				"message":    "shipment already exists",
				"request_id": "req-42",
			},
		})
	})

	client, _ := newTestClient(t, router, mocks.NewMockTokenStore(), &stubRefresher{})

	err := client.Post(context.Background(), "/shipments", gin.H{}, nil)
	require.Error(t, err)

	apiErr := domain.Normalize(err)
	assert.Equal(t, domain.CodeConflict, apiErr.Code)
	assert.Equal(t, "shipment already exists", apiErr.Message)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "req-42", apiErr.RequestID)
}

func TestClient_NetworkErrorNormalized(t *testing.T) {
	client := New(Options{
		BaseURL:    "http://127.0.0.1:1", // nothing listens here
		TokenStore: mocks.NewMockTokenStore(),
		Refresher:  &stubRefresher{},
	})

	err := client.Get(context.Background(), "/shipments", nil)
	require.Error(t, err)

	apiErr := domain.Normalize(err)
	assert.Equal(t, domain.CodeNetworkError, apiErr.Code)
	assert.Equal(t, 0, apiErr.StatusCode)
}

// protectedBackend accepts only the given bearer token and counts hits
func protectedBackend(accept string, hits *atomic.Int32) *gin.Engine {
	router := gin.New()
	router.GET("/protected", func(c *gin.Context) {
		hits.Add(1)
		if c.GetHeader("Authorization") != "Bearer "+accept {
			authRequiredBody(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestClient_RefreshAndRetry(t *testing.T) {
	var hits atomic.Int32
	store := mocks.NewMockTokenStore()
	require.NoError(t, store.SetTokens(domain.Credential{AccessToken: "stale", RefreshToken: "ref-1"}))

	refresher := &stubRefresher{tokens: domain.Credential{AccessToken: "fresh", RefreshToken: "ref-2"}}
	client, _ := newTestClient(t, protectedBackend("fresh", &hits), store, refresher)

	require.NoError(t, client.Get(context.Background(), "/protected", nil))

	assert.Equal(t, int32(1), refresher.calls.Load())
	assert.Equal(t, int32(2), hits.Load(), "original call plus exactly one retry")
	assert.Equal(t, "fresh", store.AccessToken())
	assert.Equal(t, "ref-2", store.RefreshToken())
}

func TestClient_RetryLimitedToOnce(t *testing.T) {
	// Backend never accepts any token, so the retried request fails again;
	// the per-request marker must stop a second refresh attempt.
	var hits atomic.Int32
	store := mocks.NewMockTokenStore()
	require.NoError(t, store.SetTokens(domain.Credential{AccessToken: "stale", RefreshToken: "ref-1"}))

	refresher := &stubRefresher{tokens: domain.Credential{AccessToken: "still-bad", RefreshToken: "ref-2"}}
	client, _ := newTestClient(t, protectedBackend("never-issued", &hits), store, refresher)

	err := client.Get(context.Background(), "/protected", nil)
	require.Error(t, err)

	apiErr := domain.Normalize(err)
	assert.Equal(t, domain.CodeAuthRequired, apiErr.Code)
	assert.Equal(t, int32(1), refresher.calls.Load())
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_SingleFlightRefresh(t *testing.T) {
	const n = 8

	var hits atomic.Int32
	store := mocks.NewMockTokenStore()
	require.NoError(t, store.SetTokens(domain.Credential{AccessToken: "stale", RefreshToken: "ref-1"}))

	refresher := &stubRefresher{
		gate:   make(chan struct{}),
		tokens: domain.Credential{AccessToken: "fresh", RefreshToken: "ref-2"},
	}
	client, _ := newTestClient(t, protectedBackend("fresh", &hits), store, refresher)

	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = client.Get(context.Background(), "/protected", nil)
		}(i)
	}

	// Hold the refresh until every other request has queued behind it.
	require.Eventually(t, func() bool {
		client.mu.Lock()
		defer client.mu.Unlock()
		return client.refreshing && len(client.waiters) == n-1
	}, 5*time.Second, time.Millisecond, "all but the initiating request should queue")
	close(refresher.gate)
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "request %d", i)
	}
	assert.Equal(t, int32(1), refresher.calls.Load(), "exactly one refresh for N concurrent failures")
	assert.Equal(t, int32(2*n), hits.Load(), "each request fails once and is retried exactly once")
	assert.Equal(t, "fresh", store.AccessToken())
}

func TestClient_RefreshFailureTerminatesOnce(t *testing.T) {
	const n = 5

	var hits atomic.Int32
	store := mocks.NewMockTokenStore()
	require.NoError(t, store.SetTokens(domain.Credential{AccessToken: "stale", RefreshToken: "ref-1"}))

	refresher := &stubRefresher{
		gate:    make(chan struct{}),
		failErr: &domain.APIError{Code: domain.CodeInvalidToken, Message: "refresh token revoked", StatusCode: 401},
	}
	client, _ := newTestClient(t, protectedBackend("never", &hits), store, refresher)

	var terminations atomic.Int32
	client.Events().Subscribe(func(e domain.SessionEvent) {
		if e.Type == domain.SessionTerminatedEvent {
			terminations.Add(1)
		}
	})

	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = client.Get(context.Background(), "/protected", nil)
		}(i)
	}

	require.Eventually(t, func() bool {
		client.mu.Lock()
		defer client.mu.Unlock()
		return client.refreshing && len(client.waiters) == n-1
	}, 5*time.Second, time.Millisecond)
	close(refresher.gate)
	wg.Wait()

	for i, err := range errs {
		require.Error(t, err, "request %d", i)
		assert.Equal(t, domain.CodeAuthRequired, domain.Normalize(err).Code, "queued requests fail together with the original error")
	}
	assert.Equal(t, int32(1), refresher.calls.Load())
	assert.Equal(t, int32(1), terminations.Load(), "terminate fires once, not once per queued request")
	assert.False(t, store.HasToken(), "token store ends empty")
	assert.Empty(t, store.RefreshToken())
}

func TestClient_NoRefreshTokenTerminatesImmediately(t *testing.T) {
	var hits atomic.Int32
	store := mocks.NewMockTokenStore()
	require.NoError(t, store.SetTokens(domain.Credential{AccessToken: "stale", RefreshToken: ""}))

	refresher := &stubRefresher{}
	client, _ := newTestClient(t, protectedBackend("never", &hits), store, refresher)

	var terminations atomic.Int32
	client.Events().Subscribe(func(domain.SessionEvent) { terminations.Add(1) })

	err := client.Get(context.Background(), "/protected", nil)
	require.Error(t, err)

	assert.Equal(t, domain.CodeAuthRequired, domain.Normalize(err).Code)
	assert.Equal(t, int32(0), refresher.calls.Load(), "no refresh attempted without a refresh token")
	assert.Equal(t, int32(1), terminations.Load())
	assert.Equal(t, int32(1), hits.Load(), "no retry attempted")
	assert.False(t, store.HasToken())
}

func TestClient_RawBytesOutput(t *testing.T) {
	router := gin.New()
	router.POST("/pdf/generate", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/pdf", []byte("%PDF-1.7 fake"))
	})

	client, _ := newTestClient(t, router, mocks.NewMockTokenStore(), &stubRefresher{})

	var blob []byte
	require.NoError(t, client.Post(context.Background(), "/pdf/generate", gin.H{}, &blob))
	assert.Equal(t, "%PDF-1.7 fake", string(blob))
}
