package verdict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.verdict.dev/v1"

// RetryConfig controls retry behavior for transient request failures.
type RetryConfig struct {
	Backoff []time.Duration
}

// DefaultRetryConfig returns the default retry configuration: 3 retries with
// exponential backoff [1s, 2s, 4s].
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Backoff: []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
	}
}

// apiClient handles authenticated JSON exchanges with the service. All
// resource services share one instance.
type apiClient struct {
	baseURL    string
	httpClient *http.Client
	retry      RetryConfig
	limiter    *rate.Limiter
	tokens     *tokenSource
}

func newAPIClient(baseURL string, httpClient *http.Client, retry RetryConfig, limiter *rate.Limiter, tokens *tokenSource) *apiClient {
	return &apiClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		retry:      retry,
		limiter:    limiter,
		tokens:     tokens,
	}
}

// do sends one JSON request and decodes the response into out (which may be
// nil). Transient failures are retried with backoff; non-transient API
// errors return immediately.
func (a *apiClient) do(ctx context.Context, method, path string, in, out any) error {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	backoff := a.retry.Backoff
	var lastErr error
	for i := 0; i <= len(backoff); i++ {
		err := a.exchange(ctx, method, path, in, out)
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return err
		}
		lastErr = err
		if i < len(backoff) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff[i]):
			}
		}
	}

	return fmt.Errorf("after %d retries: %w", len(backoff), lastErr)
}

// exchange performs one attempt, refreshing the bearer token once when the
// API rejects it.
func (a *apiClient) exchange(ctx context.Context, method, path string, in, out any) error {
	err := a.send(ctx, method, path, in, out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		a.tokens.Invalidate()
		err = a.send(ctx, method, path, in, out)
	}
	return err
}

// apiErrorBody is the JSON error envelope the service uses for failures.
type apiErrorBody struct {
	Error string `json:"error"`
}

func (a *apiClient) send(ctx context.Context, method, path string, in, out any) error {
	token, err := a.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("authorize: %w", err)
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		var envelope apiErrorBody
		msg := strings.TrimSpace(string(respBody))
		if json.Unmarshal(respBody, &envelope) == nil && envelope.Error != "" {
			msg = envelope.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}
