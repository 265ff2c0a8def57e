package verdict

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ClientOption configures a Client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	baseURL     string
	httpClient  *http.Client
	retryConfig RetryConfig
	limiter     *rate.Limiter

	diagnostics    zerolog.Logger
	diagnosticsSet bool

	credentialsPath    string
	credentialsPathSet bool
}

// WithBaseURL overrides the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) ClientOption {
	return func(cfg *clientConfig) { cfg.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cfg *clientConfig) { cfg.httpClient = c }
}

// WithRetryConfig sets custom retry behavior for transient request failures.
func WithRetryConfig(rc RetryConfig) ClientOption {
	return func(cfg *clientConfig) { cfg.retryConfig = rc }
}

// WithRateLimit caps outgoing requests at rps with the given burst. The
// client does not rate limit by default.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(cfg *clientConfig) { cfg.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithDiagnostics replaces the logger behind the diagnostic side channel.
// By default diagnostics go to stderr as timestamped JSON lines.
func WithDiagnostics(log zerolog.Logger) ClientOption {
	return func(cfg *clientConfig) {
		cfg.diagnostics = log
		cfg.diagnosticsSet = true
	}
}

// WithCredentialsPath sets where exchanged bearer tokens are cached on disk.
// An empty path keeps tokens in memory only. The default is
// ~/.verdict/credentials.json.
func WithCredentialsPath(path string) ClientOption {
	return func(cfg *clientConfig) {
		cfg.credentialsPath = path
		cfg.credentialsPathSet = true
	}
}

// pollConfig holds per-poll configuration.
type pollConfig struct {
	timeout  time.Duration
	interval time.Duration
}

// PollOption configures a single PollForDetections invocation.
type PollOption func(*pollConfig)

// WithPollTimeout sets the overall deadline for this poll, overriding
// DefaultPollTimeout.
func WithPollTimeout(d time.Duration) PollOption {
	return func(cfg *pollConfig) { cfg.timeout = d }
}

// WithPollInterval sets the pause between status queries, overriding
// DefaultPollInterval.
func WithPollInterval(d time.Duration) PollOption {
	return func(cfg *pollConfig) { cfg.interval = d }
}
