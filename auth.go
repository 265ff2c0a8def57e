package verdict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// tokenSkew is how early a token is considered expired, so a request never
// goes out with a token about to lapse mid-flight.
const tokenSkew = 60 * time.Second

// tokenSource exchanges the API key for a short-lived bearer token. Tokens
// are cached in memory and, when a cache path is set, on disk so separate
// processes reuse them.
type tokenSource struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cachePath  string // "" disables the disk cache
	now        func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

type tokenRequest struct {
	APIKey string `json:"api_key"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func newTokenSource(apiKey, baseURL string, httpClient *http.Client, cachePath string) *tokenSource {
	return &tokenSource{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		cachePath:  cachePath,
		now:        time.Now,
	}
}

// defaultCredentialsPath places the token cache under the user's home
// directory, or disables the disk cache when the home cannot be resolved.
func defaultCredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".verdict", "credentials.json")
}

// Token returns a bearer token for the API, exchanging the key only when no
// cached token is still valid.
func (t *tokenSource) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.valid() {
		return t.token, nil
	}
	if t.loadCache(); t.valid() {
		return t.token, nil
	}
	if t.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	resp, err := t.exchange(ctx)
	if err != nil {
		return "", err
	}
	t.token = resp.AccessToken
	t.expiry = resp.ExpiresAt
	t.saveCache(resp)
	return t.token, nil
}

// Invalidate discards the cached token so the next request performs a fresh
// exchange. The transport calls this when the API rejects a token.
func (t *tokenSource) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = ""
	t.expiry = time.Time{}
	if t.cachePath != "" {
		_ = os.Remove(t.cachePath)
	}
}

func (t *tokenSource) valid() bool {
	return t.token != "" && t.now().Add(tokenSkew).Before(t.expiry)
}

func (t *tokenSource) exchange(ctx context.Context) (*tokenResponse, error) {
	body, err := json.Marshal(tokenRequest{APIKey: t.apiKey})
	if err != nil {
		return nil, fmt.Errorf("marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.baseURL+"/auth/tokens", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "exchange token", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	return &tr, nil
}

// loadCache adopts a token from disk when one is present and unexpired.
// Missing or unreadable caches are ignored.
func (t *tokenSource) loadCache() {
	if t.cachePath == "" {
		return
	}
	data, err := os.ReadFile(t.cachePath)
	if err != nil {
		return
	}
	var tr tokenResponse
	if err := json.Unmarshal(data, &tr); err != nil {
		return
	}
	t.token = tr.AccessToken
	t.expiry = tr.ExpiresAt
}

// saveCache persists the token, best effort. 0600 because the token grants
// API access.
func (t *tokenSource) saveCache(tr *tokenResponse) {
	if t.cachePath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(t.cachePath), 0o700); err != nil {
		return
	}
	data, err := json.Marshal(tr)
	if err != nil {
		return
	}
	_ = os.WriteFile(t.cachePath, data, 0o600)
}
