package verdict

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"time"
)

// RunStatus tracks an evaluation run.
type RunStatus string

const (
	RunPending   RunStatus = "RUN_PENDING"
	RunRunning   RunStatus = "RUN_RUNNING"
	RunCompleted RunStatus = "RUN_COMPLETED"
	RunFailed    RunStatus = "RUN_FAILED"
)

// Finished reports whether the run will not change anymore.
func (s RunStatus) Finished() bool {
	return s == RunCompleted || s == RunFailed
}

// RunResult holds the metric scores for one dataset row.
type RunResult struct {
	RowID        string             `json:"row_id"`
	MetricScores map[string]float64 `json:"metric_scores"`
}

// Run is one evaluation: a prompt and model applied to every row of a
// dataset, scored by the requested metrics.
type Run struct {
	ID        string      `json:"id"`
	DatasetID string      `json:"dataset_id"`
	PromptID  string      `json:"prompt_id"`
	ModelID   string      `json:"model_id"`
	MetricIDs []string    `json:"metric_ids,omitempty"`
	Status    RunStatus   `json:"status"`
	Results   []RunResult `json:"results,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// CreateRunParams names the pieces an evaluation run is built from.
type CreateRunParams struct {
	DatasetID string   `json:"dataset_id"`
	PromptID  string   `json:"prompt_id"`
	ModelID   string   `json:"model_id"`
	MetricIDs []string `json:"metric_ids,omitempty"`
}

// RunsService starts and inspects evaluation runs.
type RunsService struct {
	api *apiClient
}

// Create starts a run. The returned run is usually still pending; fetch it
// again with Get to see results.
func (s *RunsService) Create(ctx context.Context, params CreateRunParams) (*Run, error) {
	if params.DatasetID == "" {
		return nil, &ValidationError{Field: "DatasetID", Reason: "must not be empty"}
	}
	if params.PromptID == "" {
		return nil, &ValidationError{Field: "PromptID", Reason: "must not be empty"}
	}
	if params.ModelID == "" {
		return nil, &ValidationError{Field: "ModelID", Reason: "must not be empty"}
	}
	var run Run
	if err := s.api.do(ctx, http.MethodPost, "/runs", params, &run); err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	return &run, nil
}

// Get fetches a run, results included once it has finished.
func (s *RunsService) Get(ctx context.Context, id string) (*Run, error) {
	var run Run
	if err := s.api.do(ctx, http.MethodGet, "/runs/"+url.PathEscape(id), nil, &run); err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return &run, nil
}

type listRunsResponse struct {
	Runs []Run `json:"runs"`
}

// List returns all runs, most recent first, without per-row results.
func (s *RunsService) List(ctx context.Context) ([]Run, error) {
	var resp listRunsResponse
	if err := s.api.do(ctx, http.MethodGet, "/runs", nil, &resp); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return resp.Runs, nil
}

// MetricComparison summarizes how one metric moved between two runs.
type MetricComparison struct {
	Metric  string
	MeanA   float64
	MeanB   float64
	StdDevA float64
	StdDevB float64
	// Delta is MeanB - MeanA, positive when run B scored higher.
	Delta float64
}

// CompareRuns computes per-metric mean and standard deviation across two
// runs' results. Metrics present in only one run still appear, with zeros on
// the missing side. The comparisons come back sorted by metric name.
func CompareRuns(a, b *Run) []MetricComparison {
	scoresA := collectScores(a)
	scoresB := collectScores(b)

	names := make(map[string]struct{})
	for name := range scoresA {
		names[name] = struct{}{}
	}
	for name := range scoresB {
		names[name] = struct{}{}
	}

	comparisons := make([]MetricComparison, 0, len(names))
	for name := range names {
		meanA, stdA := meanStdDev(scoresA[name])
		meanB, stdB := meanStdDev(scoresB[name])
		comparisons = append(comparisons, MetricComparison{
			Metric:  name,
			MeanA:   meanA,
			MeanB:   meanB,
			StdDevA: stdA,
			StdDevB: stdB,
			Delta:   meanB - meanA,
		})
	}
	sort.Slice(comparisons, func(i, j int) bool { return comparisons[i].Metric < comparisons[j].Metric })
	return comparisons
}

func collectScores(run *Run) map[string][]float64 {
	scores := make(map[string][]float64)
	if run == nil {
		return scores
	}
	for _, result := range run.Results {
		for name, score := range result.MetricScores {
			scores[name] = append(scores[name], score)
		}
	}
	return scores
}

// meanStdDev returns the mean and population standard deviation, both 0 for
// an empty sample.
func meanStdDev(samples []float64) (mean, stddev float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	for _, s := range samples {
		mean += s
	}
	mean /= float64(len(samples))

	var variance float64
	for _, s := range samples {
		d := s - mean
		variance += d * d
	}
	variance /= float64(len(samples))
	return mean, math.Sqrt(variance)
}
