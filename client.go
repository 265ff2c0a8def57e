// Package verdict is the Go client for the Verdict logging and evaluation
// service. It records AI model interactions, requests asynchronous
// detections (hallucination, document relevancy) on them, and retrieves the
// results.
//
// Usage:
//
//	client := verdict.NewClient(os.Getenv("VERDICT_API_KEY"))
//	logger := client.Logger().Init(verdict.LoggerConfig{
//	    AppName:             "support-bot",
//	    Environment:         "prod",
//	    Detections:          []verdict.DetectionType{verdict.DetectionHallucination},
//	    DetectionSampleRate: verdict.Float64(0.5),
//	})
//
//	logID := logger.Log(ctx, verdict.LogParams{
//	    UserQuery:   question,
//	    ModelOutput: answer,
//	    Documents:   []any{passage1, passage2},
//	})
//	if result := logger.PollForDetections(ctx, logID); result != nil {
//	    fmt.Println(result.IsHallucinated)
//	}
//
// Logger methods report problems through a diagnostic side channel instead
// of returning errors; see Logger for the contract.
package verdict

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Client is the entry point to the SDK. The zero value is not usable; create
// one with NewClient or NewClientFromEnv.
type Client struct {
	logger *Logger

	// Logs is the raw log store API. Most callers want Logger instead,
	// which adds sampling, validation, and detection reconciliation on top.
	Logs LogsService
	// Prompts manages stored prompt templates.
	Prompts *PromptsService
	// Datasets manages evaluation datasets.
	Datasets *DatasetsService
	// Models lists the models available for evaluation runs.
	Models *ModelsService
	// Runs starts and inspects evaluation runs.
	Runs *RunsService
	// Metrics lists the metrics runs can score against.
	Metrics *MetricsService
}

// NewClient creates a client authenticating with the given API key. It
// always returns a usable client: a missing key is reported and every API
// call will then fail (and be reported) rather than panic.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	cfg := clientConfig{
		baseURL:     DefaultBaseURL,
		retryConfig: DefaultRetryConfig(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.diagnosticsSet {
		cfg.diagnostics = defaultDiagnostics()
	}
	if !cfg.credentialsPathSet {
		cfg.credentialsPath = defaultCredentialsPath()
	}

	rep := newReporter(cfg.diagnostics)
	if apiKey == "" {
		rep.failure("client.new", &ConfigurationError{Reason: "no API key provided"})
	}

	tokens := newTokenSource(apiKey, cfg.baseURL, cfg.httpClient, cfg.credentialsPath)
	api := newAPIClient(cfg.baseURL, cfg.httpClient, cfg.retryConfig, cfg.limiter, tokens)
	logs := &logsService{api: api}

	return &Client{
		logger:   newLoggerWith(logs, rep),
		Logs:     logs,
		Prompts:  &PromptsService{api: api},
		Datasets: &DatasetsService{api: api},
		Models:   &ModelsService{api: api},
		Runs:     &RunsService{api: api},
		Metrics:  &MetricsService{api: api},
	}
}

// Logger returns the log recorder. Every call returns the same instance;
// configure it once with Init.
func (c *Client) Logger() *Logger {
	return c.logger
}

// EnvConfig holds client settings read from the environment.
type EnvConfig struct {
	APIKey  string `envconfig:"VERDICT_API_KEY"`
	BaseURL string `envconfig:"VERDICT_BASE_URL"`
}

// NewClientFromEnv creates a client from VERDICT_API_KEY and, when set,
// VERDICT_BASE_URL. Explicit options are applied after the environment and
// win over it.
func NewClientFromEnv(opts ...ClientOption) (*Client, error) {
	var env EnvConfig
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if env.BaseURL != "" {
		opts = append([]ClientOption{WithBaseURL(env.BaseURL)}, opts...)
	}
	return NewClient(env.APIKey, opts...), nil
}
