package verdict

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"text/template"
	"time"
)

// Prompt is a stored prompt template. The user prompt body may contain Go
// text/template actions; see Render.
type Prompt struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	SystemPrompt string    `json:"system_prompt,omitempty"`
	UserPrompt   string    `json:"user_prompt"`
	Version      int       `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Render executes the user prompt as a Go template with the given data.
func (p *Prompt) Render(data any) (string, error) {
	tmpl, err := template.New(p.Name).Parse(p.UserPrompt)
	if err != nil {
		return "", fmt.Errorf("parsing prompt %s: %w", p.Name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing prompt %s: %w", p.Name, err)
	}
	return buf.String(), nil
}

// PromptsService manages stored prompts.
type PromptsService struct {
	api *apiClient
}

type createPromptRequest struct {
	Name         string `json:"name"`
	SystemPrompt string `json:"system_prompt,omitempty"`
	UserPrompt   string `json:"user_prompt"`
}

// Create stores a new prompt and returns it with its assigned ID and version.
func (s *PromptsService) Create(ctx context.Context, name, systemPrompt, userPrompt string) (*Prompt, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	req := createPromptRequest{Name: name, SystemPrompt: systemPrompt, UserPrompt: userPrompt}
	var p Prompt
	if err := s.api.do(ctx, http.MethodPost, "/prompts", req, &p); err != nil {
		return nil, fmt.Errorf("create prompt: %w", err)
	}
	return &p, nil
}

// Get fetches a prompt by ID.
func (s *PromptsService) Get(ctx context.Context, id string) (*Prompt, error) {
	var p Prompt
	if err := s.api.do(ctx, http.MethodGet, "/prompts/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, fmt.Errorf("get prompt: %w", err)
	}
	return &p, nil
}

type listPromptsResponse struct {
	Prompts []Prompt `json:"prompts"`
}

// List returns all stored prompts.
func (s *PromptsService) List(ctx context.Context) ([]Prompt, error) {
	var resp listPromptsResponse
	if err := s.api.do(ctx, http.MethodGet, "/prompts", nil, &resp); err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	return resp.Prompts, nil
}

// Update replaces a prompt's content. The service bumps the version and
// returns the stored result.
func (s *PromptsService) Update(ctx context.Context, p *Prompt) (*Prompt, error) {
	if p.ID == "" {
		return nil, &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	var updated Prompt
	if err := s.api.do(ctx, http.MethodPatch, "/prompts/"+url.PathEscape(p.ID), p, &updated); err != nil {
		return nil, fmt.Errorf("update prompt: %w", err)
	}
	return &updated, nil
}

// Delete removes a prompt.
func (s *PromptsService) Delete(ctx context.Context, id string) error {
	if err := s.api.do(ctx, http.MethodDelete, "/prompts/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("delete prompt: %w", err)
	}
	return nil
}
