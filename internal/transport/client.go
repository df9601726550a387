package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/saarzint/bolgenie/domain"
)

// DefaultTimeout applies to every backend call unless overridden
const DefaultTimeout = 30 * time.Second

// Refresher exchanges a refresh token for a new credential pair. Implemented
// by the auth endpoint client; kept as an interface so the pipeline never
// depends on the endpoint layer.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (domain.Credential, error)
}

// Options configures a pipeline Client
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	TokenStore domain.TokenStore
	Refresher  Refresher
	Events     *domain.SessionBroadcaster
	HTTPClient *http.Client
}

// Client is the request pipeline: every outbound backend call passes through
// it. It attaches the stored bearer credential, normalizes failures, and
// coordinates single-flight token refresh on authentication errors.
type Client struct {
	baseURL   string
	http      *http.Client
	tokens    domain.TokenStore
	refresher Refresher
	events    *domain.SessionBroadcaster

	// Refresh coordination. The mutex plus waiter queue guarantees at most
	// one refresh call in flight; requests failing with an auth error while
	// a refresh runs queue here in arrival order.
	mu         sync.Mutex
	refreshing bool
	waiters    []chan refreshOutcome
}

type refreshOutcome struct {
	token string
	err   error
}

// New creates a pipeline Client
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	events := opts.Events
	if events == nil {
		events = domain.NewSessionBroadcaster()
	}
	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		http:      httpClient,
		tokens:    opts.TokenStore,
		refresher: opts.Refresher,
		events:    events,
	}
}

// Events returns the broadcaster carrying session-terminated signals
func (c *Client) Events() *domain.SessionBroadcaster {
	return c.events
}

// request captures everything needed to send a call, so the auth-recovery
// path can replay it once with a fresh token.
type request struct {
	method      string
	path        string
	body        []byte
	contentType string
	out         any
	onProgress  ProgressFunc
}

// Get issues a GET and decodes the JSON response into out
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT with a JSON body
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do sends a JSON request through the pipeline. Failures come back as
// *domain.APIError, never raw transport errors. If out is a *[]byte the raw
// response body is returned undecoded (PDF downloads).
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	req := &request{method: method, path: path, out: out}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return domain.Normalize(fmt.Errorf("failed to encode request body: %w", err))
		}
		req.body = payload
		req.contentType = "application/json"
	}
	return c.send(ctx, req, false)
}

func (c *Client) send(ctx context.Context, req *request, retried bool) error {
	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return domain.Normalize(err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return domain.Normalize(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(resp.Body)
		apiErr := domain.Normalize(&domain.ResponseError{StatusCode: resp.StatusCode, Body: raw})

		// Auth errors are resolved locally via refresh-and-retry; exactly one
		// retry per original request prevents refresh loops.
		if (apiErr.Code == domain.CodeAuthRequired || apiErr.Code == domain.CodeInvalidToken) && !retried {
			return c.recoverAuth(ctx, req, apiErr)
		}
		return apiErr
	}

	if req.out == nil {
		return nil
	}
	if raw, ok := req.out.(*[]byte); ok {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return domain.Normalize(err)
		}
		*raw = data
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(req.out); err != nil {
		return domain.Normalize(fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

func (c *Client) newHTTPRequest(ctx context.Context, req *request) (*http.Request, error) {
	var body io.Reader
	if req.body != nil {
		if req.onProgress != nil {
			body = newProgressReader(req.body, req.onProgress)
		} else {
			body = bytes.NewReader(req.body)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return nil, err
	}
	if req.body != nil {
		httpReq.ContentLength = int64(len(req.body))
	}
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	// Attach the bearer credential when present; read per attempt so the
	// auth-recovery replay picks up the refreshed token.
	if token := c.tokens.AccessToken(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	return httpReq, nil
}

// recoverAuth handles an AUTH_REQUIRED/INVALID_TOKEN failure for a request
// that has not been retried yet.
func (c *Client) recoverAuth(ctx context.Context, req *request, apiErr *domain.APIError) error {
	refreshToken := c.tokens.RefreshToken()
	if refreshToken == "" {
		c.terminate("no refresh token stored")
		return apiErr
	}

	c.mu.Lock()
	if c.refreshing {
		// A refresh is already in flight: queue behind it and replay once it
		// settles. If it fails, everyone queued fails together.
		ch := make(chan refreshOutcome, 1)
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()

		select {
		case outcome := <-ch:
			if outcome.err != nil {
				return apiErr
			}
			return c.send(ctx, req, true)
		case <-ctx.Done():
			return domain.Normalize(ctx.Err())
		}
	}
	c.refreshing = true
	c.mu.Unlock()

	tokens, err := c.refresher.Refresh(ctx, refreshToken)
	if err == nil {
		if persistErr := c.tokens.SetTokens(tokens); persistErr != nil {
			err = fmt.Errorf("failed to persist refreshed tokens: %w", persistErr)
		}
	}
	if err != nil {
		c.settleRefresh(refreshOutcome{err: err})
		log.Printf("token refresh failed: %v", err)
		c.terminate("token refresh failed")
		return apiErr
	}

	c.settleRefresh(refreshOutcome{token: tokens.AccessToken})
	return c.send(ctx, req, true)
}

// settleRefresh clears the in-flight flag and notifies queued waiters in
// arrival order.
func (c *Client) settleRefresh(outcome refreshOutcome) {
	c.mu.Lock()
	c.refreshing = false
	waiters := c.waiters
	c.waiters = nil
	c.mu.Unlock()

	for _, ch := range waiters {
		ch <- outcome
	}
}

func (c *Client) terminate(reason string) {
	if err := c.tokens.ClearTokens(); err != nil {
		log.Printf("failed to clear tokens: %v", err)
	}
	c.events.Terminate(reason)
}
