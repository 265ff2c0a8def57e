package verdict

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// DatasetRow is one evaluation case: an input, the expected answer, and
// free-form metadata.
type DatasetRow struct {
	ID       string         `json:"id"`
	Input    string         `json:"input"`
	Expected string         `json:"expected,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Dataset is a named collection of evaluation cases.
type Dataset struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Rows        []DatasetRow `json:"rows,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// DatasetsService manages evaluation datasets.
type DatasetsService struct {
	api *apiClient
}

type createDatasetRequest struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Rows        []DatasetRow `json:"rows,omitempty"`
}

// Create stores a new dataset. Rows without an ID get one assigned
// client-side so callers can reference them before the response lands.
func (s *DatasetsService) Create(ctx context.Context, name, description string, rows []DatasetRow) (*Dataset, error) {
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	req := createDatasetRequest{Name: name, Description: description, Rows: withRowIDs(rows)}
	var ds Dataset
	if err := s.api.do(ctx, http.MethodPost, "/datasets", req, &ds); err != nil {
		return nil, fmt.Errorf("create dataset: %w", err)
	}
	return &ds, nil
}

// Get fetches a dataset, rows included.
func (s *DatasetsService) Get(ctx context.Context, id string) (*Dataset, error) {
	var ds Dataset
	if err := s.api.do(ctx, http.MethodGet, "/datasets/"+url.PathEscape(id), nil, &ds); err != nil {
		return nil, fmt.Errorf("get dataset: %w", err)
	}
	return &ds, nil
}

type listDatasetsResponse struct {
	Datasets []Dataset `json:"datasets"`
}

// List returns all datasets without their rows.
func (s *DatasetsService) List(ctx context.Context) ([]Dataset, error) {
	var resp listDatasetsResponse
	if err := s.api.do(ctx, http.MethodGet, "/datasets", nil, &resp); err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	return resp.Datasets, nil
}

type appendRowsRequest struct {
	Rows []DatasetRow `json:"rows"`
}

// AppendRows adds cases to an existing dataset and returns its new state.
func (s *DatasetsService) AppendRows(ctx context.Context, id string, rows []DatasetRow) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, &ValidationError{Field: "rows", Reason: "must not be empty"}
	}
	var ds Dataset
	req := appendRowsRequest{Rows: withRowIDs(rows)}
	if err := s.api.do(ctx, http.MethodPatch, "/datasets/"+url.PathEscape(id)+"/rows", req, &ds); err != nil {
		return nil, fmt.Errorf("append rows: %w", err)
	}
	return &ds, nil
}

// Delete removes a dataset and its rows.
func (s *DatasetsService) Delete(ctx context.Context, id string) error {
	if err := s.api.do(ctx, http.MethodDelete, "/datasets/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	return nil
}

func withRowIDs(rows []DatasetRow) []DatasetRow {
	out := make([]DatasetRow, len(rows))
	for i, row := range rows {
		if row.ID == "" {
			row.ID = uuid.NewString()
		}
		out[i] = row
	}
	return out
}
