package verdict

import (
	"context"
	"fmt"
	"net/http"
)

// Model is a model available for evaluation runs.
type Model struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// ModelsService lists the models the service can evaluate against.
type ModelsService struct {
	api *apiClient
}

type listModelsResponse struct {
	Models []Model `json:"models"`
}

// List returns the available models.
func (s *ModelsService) List(ctx context.Context) ([]Model, error) {
	var resp listModelsResponse
	if err := s.api.do(ctx, http.MethodGet, "/models", nil, &resp); err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return resp.Models, nil
}
