package verdict

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// LogsService provides access to log records and their detection results.
// The log recorder consumes this interface, so tests can substitute a fake
// without a network.
type LogsService interface {
	// CreateLog submits a new log record. The record's ID and CreatedAt are
	// set by the caller.
	CreateLog(ctx context.Context, rec *LogRecord) error
	// ListLogs returns the stored logs for an app and environment.
	ListLogs(ctx context.Context, appName, environment string) ([]LogEntry, error)
	// GetDetections fetches the detection bundle for a log. The bundle's
	// log status reflects how far processing has gotten; it is returned
	// even before any detection has finished.
	GetDetections(ctx context.Context, logID string) (*DetectionResult, error)
}

type logsService struct {
	api *apiClient
}

func (s *logsService) CreateLog(ctx context.Context, rec *LogRecord) error {
	if err := s.api.do(ctx, http.MethodPost, "/logs", rec, nil); err != nil {
		return fmt.Errorf("create log: %w", err)
	}
	return nil
}

type listLogsResponse struct {
	Logs []LogEntry `json:"logs"`
}

func (s *logsService) ListLogs(ctx context.Context, appName, environment string) ([]LogEntry, error) {
	q := url.Values{}
	q.Set("app_name", appName)
	q.Set("environment", environment)

	var resp listLogsResponse
	if err := s.api.do(ctx, http.MethodGet, "/logs?"+q.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return resp.Logs, nil
}

func (s *logsService) GetDetections(ctx context.Context, logID string) (*DetectionResult, error) {
	var result DetectionResult
	if err := s.api.do(ctx, http.MethodGet, "/logs/"+url.PathEscape(logID)+"/detections", nil, &result); err != nil {
		return nil, fmt.Errorf("get detections: %w", err)
	}
	return &result, nil
}
