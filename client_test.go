package verdict

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("test-key")

	if c.Logger() == nil {
		t.Fatal("Logger() = nil")
	}
	if c.Logger() != c.Logger() {
		t.Error("Logger() returns different instances")
	}
	if c.Logs == nil || c.Prompts == nil || c.Datasets == nil || c.Models == nil || c.Runs == nil || c.Metrics == nil {
		t.Error("not all services are wired")
	}

	logs, ok := c.Logs.(*logsService)
	if !ok {
		t.Fatalf("Logs = %T, want *logsService", c.Logs)
	}
	if logs.api.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", logs.api.baseURL, DefaultBaseURL)
	}
	if len(logs.api.retry.Backoff) != 3 {
		t.Errorf("retry backoff = %v, want three steps", logs.api.retry.Backoff)
	}
}

func TestNewClientMissingKeyReported(t *testing.T) {
	var buf bytes.Buffer
	c := NewClient("", WithDiagnostics(zerolog.New(&buf)))

	if c == nil || c.Logger() == nil {
		t.Fatal("client must be usable even without a key")
	}
	if !strings.Contains(buf.String(), "no API key provided") {
		t.Errorf("diagnostics missing key report, got %q", buf.String())
	}
}

func TestNewClientOptions(t *testing.T) {
	c := NewClient("test-key",
		WithBaseURL("https://staging.example.com/v1"),
		WithCredentialsPath(""),
	)

	logs := c.Logs.(*logsService)
	if logs.api.baseURL != "https://staging.example.com/v1" {
		t.Errorf("baseURL = %q", logs.api.baseURL)
	}
	if logs.api.tokens.cachePath != "" {
		t.Errorf("cachePath = %q, want disk cache disabled", logs.api.tokens.cachePath)
	}
}

func TestNewClientFromEnv(t *testing.T) {
	t.Setenv("VERDICT_API_KEY", "env-key")
	t.Setenv("VERDICT_BASE_URL", "https://staging.example.com/v1")

	c, err := NewClientFromEnv()
	if err != nil {
		t.Fatalf("NewClientFromEnv: %v", err)
	}
	logs := c.Logs.(*logsService)
	if logs.api.baseURL != "https://staging.example.com/v1" {
		t.Errorf("baseURL = %q, want the environment value", logs.api.baseURL)
	}
	if logs.api.tokens.apiKey != "env-key" {
		t.Errorf("apiKey = %q, want the environment value", logs.api.tokens.apiKey)
	}
}

func TestNewClientFromEnvExplicitOptionWins(t *testing.T) {
	t.Setenv("VERDICT_API_KEY", "env-key")
	t.Setenv("VERDICT_BASE_URL", "https://staging.example.com/v1")

	c, err := NewClientFromEnv(WithBaseURL("https://override.example.com/v1"))
	if err != nil {
		t.Fatalf("NewClientFromEnv: %v", err)
	}
	logs := c.Logs.(*logsService)
	if logs.api.baseURL != "https://override.example.com/v1" {
		t.Errorf("baseURL = %q, want the explicit option to win", logs.api.baseURL)
	}
}

func TestClientEndToEndLog(t *testing.T) {
	var createdBody map[string]any
	var gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/tokens", func(w http.ResponseWriter, r *http.Request) {
		var req tokenRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.APIKey != "test-key" {
			http.Error(w, "bad key", http.StatusForbidden)
			return
		}
		json.NewEncoder(w).Encode(tokenResponse{
			AccessToken: "bearer-1",
			ExpiresAt:   time.Now().Add(time.Hour),
		})
	})
	mux.HandleFunc("/logs", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&createdBody)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	var buf bytes.Buffer
	c := NewClient("test-key",
		WithBaseURL(srv.URL),
		WithHTTPClient(srv.Client()),
		WithCredentialsPath(""),
		WithDiagnostics(zerolog.New(&buf)),
	)
	logger := c.Logger().Init(LoggerConfig{AppName: "support-bot", Environment: "prod"})

	id := logger.Log(context.Background(), LogParams{UserQuery: "q", ModelOutput: "a"})
	if id == "" {
		t.Fatalf("Log returned empty ID, diagnostics: %q", buf.String())
	}
	if gotAuth != "Bearer bearer-1" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if createdBody["id"] != id {
		t.Errorf("submitted id = %v, want returned %q", createdBody["id"], id)
	}
	if createdBody["app_name"] != "support-bot" {
		t.Errorf("submitted app_name = %v", createdBody["app_name"])
	}
}
