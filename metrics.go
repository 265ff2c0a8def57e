package verdict

import (
	"context"
	"fmt"
	"net/http"
)

// Metric is a scoring function evaluation runs can apply to each case.
type Metric struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// MetricsService lists the metrics available to evaluation runs.
type MetricsService struct {
	api *apiClient
}

type listMetricsResponse struct {
	Metrics []Metric `json:"metrics"`
}

// List returns the available metrics.
func (s *MetricsService) List(ctx context.Context) ([]Metric, error) {
	var resp listMetricsResponse
	if err := s.api.do(ctx, http.MethodGet, "/metrics", nil, &resp); err != nil {
		return nil, fmt.Errorf("list metrics: %w", err)
	}
	return resp.Metrics, nil
}
