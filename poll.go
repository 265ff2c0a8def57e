package verdict

import (
	"context"
	"fmt"
	"time"
)

const (
	// DefaultPollTimeout bounds how long PollForDetections waits overall.
	DefaultPollTimeout = 300 * time.Second
	// DefaultPollInterval is the fixed pause between status queries.
	DefaultPollInterval = 2 * time.Second
)

// PollForDetections waits until the service reaches a terminal status for
// the given log and returns its detection bundle.
//
// The loop queries, and when the status is not yet terminal sleeps for the
// poll interval and queries again. The interval is deliberately fixed rather
// than backed off: detection latency is bounded server-side, so hammering is
// not a risk and a late result should be picked up promptly. Query failures
// do not abort the wait; the deadline (and context cancellation) are the
// only ways out. On timeout, cancellation, or an unusable argument the
// problem is reported and nil is returned.
func (l *Logger) PollForDetections(ctx context.Context, logID string, opts ...PollOption) *DetectionResult {
	cfg := pollConfig{
		timeout:  DefaultPollTimeout,
		interval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if l.snapshot() == nil {
		l.reporter.failure("logger.poll", &ConfigurationError{Reason: "logger not configured, call Init first"})
		return nil
	}
	if logID == "" {
		l.reporter.failure("logger.poll", &ValidationError{Field: "logID", Reason: "must not be empty"})
		return nil
	}

	deadline := l.now().Add(cfg.timeout)
	for {
		result, err := l.logs.GetDetections(ctx, logID)
		if err != nil {
			l.reporter.transient("logger.poll", err)
		} else if result != nil && result.Log.Status.Terminal() {
			return result
		}

		if l.now().After(deadline) {
			l.reporter.failure("logger.poll", &TimeoutError{LogID: logID, Waited: cfg.timeout})
			return nil
		}
		if err := l.sleep(ctx, cfg.interval); err != nil {
			l.reporter.failure("logger.poll", fmt.Errorf("wait for detections: %w", err))
			return nil
		}
	}
}

// sleepContext pauses for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
