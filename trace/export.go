package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Exporter delivers completed traces somewhere durable.
type Exporter interface {
	ExportTrace(ctx context.Context, t *Trace) error
}

// FileExporter writes each trace as an indented JSON file named after the
// trace ID, for local inspection without any service access.
type FileExporter struct {
	dir string
}

// NewFileExporter creates a FileExporter writing under dir, or under
// ".verdict/traces" when dir is empty.
func NewFileExporter(dir string) *FileExporter {
	if dir == "" {
		dir = filepath.Join(".verdict", "traces")
	}
	return &FileExporter{dir: dir}
}

func (e *FileExporter) ExportTrace(_ context.Context, t *Trace) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("create trace dir: %w", err)
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal trace: %w", err)
	}
	path := filepath.Join(e.dir, t.ID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write trace: %w", err)
	}
	return nil
}

// HTTPExporter posts traces to the service's span ingest endpoint.
type HTTPExporter struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// HTTPOption configures an HTTPExporter.
type HTTPOption func(*HTTPExporter)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(e *HTTPExporter) { e.httpClient = c }
}

// NewHTTPExporter creates an exporter posting to baseURL, authenticating
// with the given API key.
func NewHTTPExporter(baseURL, apiKey string, opts ...HTTPOption) *HTTPExporter {
	e := &HTTPExporter{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *HTTPExporter) ExportTrace(ctx context.Context, t *Trace) error {
	body, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal trace: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.baseURL+"/spans", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("span ingest returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
