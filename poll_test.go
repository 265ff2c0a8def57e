package verdict

import (
	"context"
	"strings"
	"testing"
	"time"
)

// pollHarness pins the poller's clock. Sleeps advance the fake time instead
// of blocking, so deadline behavior is deterministic.
type pollHarness struct {
	now    time.Time
	sleeps []time.Duration
}

func newPollHarness(l *Logger) *pollHarness {
	h := &pollHarness{now: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)}
	l.now = func() time.Time { return h.now }
	l.sleep = func(ctx context.Context, d time.Duration) error {
		h.sleeps = append(h.sleeps, d)
		h.now = h.now.Add(d)
		return nil
	}
	return h
}

func pendingResult(id string) *DetectionResult {
	return &DetectionResult{
		Log: LogEntry{LogRecord: LogRecord{ID: id}, Status: StatusDetectionInProgress},
	}
}

func completedResult(id string) *DetectionResult {
	return &DetectionResult{
		Log:            LogEntry{LogRecord: LogRecord{ID: id}, Status: StatusDetectionCompleted},
		IsHallucinated: true,
	}
}

func TestPollForDetectionsTerminalOnThirdQuery(t *testing.T) {
	fake := &fakeLogs{detections: []detectionResponse{
		{result: pendingResult("log-1")},
		{result: pendingResult("log-1")},
		{result: completedResult("log-1")},
	}}
	l, _ := newTestLogger(fake)
	l.Init(validConfig())
	h := newPollHarness(l)

	result := l.PollForDetections(context.Background(), "log-1")
	if result == nil {
		t.Fatal("PollForDetections returned nil, want completed bundle")
	}
	if result.Log.Status != StatusDetectionCompleted || !result.IsHallucinated {
		t.Errorf("result = %+v, want the scripted completed bundle", result)
	}
	if fake.queryCount() != 3 {
		t.Errorf("queries = %d, want 3", fake.queryCount())
	}
	if len(h.sleeps) != 2 {
		t.Fatalf("sleeps = %d, want 2 (never after the terminal query)", len(h.sleeps))
	}
	for i, d := range h.sleeps {
		if d != DefaultPollInterval {
			t.Errorf("sleep %d = %v, want fixed %v", i, d, DefaultPollInterval)
		}
	}
}

func TestPollForDetectionsImmediateTerminal(t *testing.T) {
	fake := &fakeLogs{detections: []detectionResponse{
		{result: completedResult("log-1")},
	}}
	l, _ := newTestLogger(fake)
	l.Init(validConfig())
	h := newPollHarness(l)

	if result := l.PollForDetections(context.Background(), "log-1"); result == nil {
		t.Fatal("PollForDetections returned nil")
	}
	if fake.queryCount() != 1 || len(h.sleeps) != 0 {
		t.Errorf("queries = %d sleeps = %d, want 1 query and no sleeps", fake.queryCount(), len(h.sleeps))
	}
}

func TestPollForDetectionsNoDetectionsPendingIsTerminal(t *testing.T) {
	fake := &fakeLogs{detections: []detectionResponse{
		{result: &DetectionResult{
			Log: LogEntry{LogRecord: LogRecord{ID: "log-1"}, Status: StatusLogCreatedNoDetections},
		}},
	}}
	l, _ := newTestLogger(fake)
	l.Init(validConfig())
	newPollHarness(l)

	result := l.PollForDetections(context.Background(), "log-1")
	if result == nil {
		t.Fatal("PollForDetections returned nil for a log without detections")
	}
	if result.Log.Status != StatusLogCreatedNoDetections {
		t.Errorf("status = %q", result.Log.Status)
	}
}

func TestPollForDetectionsWaitsThroughEarlyStatuses(t *testing.T) {
	earlyStatuses := []LogStatus{
		StatusLogNotFound,
		StatusLogCreationInProgress,
		StatusDetectionInProgress,
	}
	for _, status := range earlyStatuses {
		t.Run(string(status), func(t *testing.T) {
			fake := &fakeLogs{detections: []detectionResponse{
				{result: &DetectionResult{Log: LogEntry{Status: status}}},
				{result: completedResult("log-1")},
			}}
			l, _ := newTestLogger(fake)
			l.Init(validConfig())
			newPollHarness(l)

			if result := l.PollForDetections(context.Background(), "log-1"); result == nil {
				t.Fatalf("returned nil, %q should be waited through", status)
			}
			if fake.queryCount() != 2 {
				t.Errorf("queries = %d, want 2", fake.queryCount())
			}
		})
	}
}

func TestPollForDetectionsTimeout(t *testing.T) {
	fake := &fakeLogs{detections: []detectionResponse{
		{result: pendingResult("log-1")},
	}}
	l, buf := newTestLogger(fake)
	l.Init(validConfig())
	h := newPollHarness(l)

	result := l.PollForDetections(context.Background(), "log-1",
		WithPollTimeout(time.Second),
		WithPollInterval(400*time.Millisecond),
	)

	if result != nil {
		t.Errorf("result = %+v, want nil on timeout", result)
	}
	// Queries land at 0ms, 400ms, 800ms, and 1200ms; the last one is past
	// the one second deadline.
	if fake.queryCount() != 4 {
		t.Errorf("queries = %d, want 4", fake.queryCount())
	}
	if len(h.sleeps) != 3 {
		t.Errorf("sleeps = %d, want 3", len(h.sleeps))
	}
	if !strings.Contains(buf.String(), "no terminal detection status") {
		t.Errorf("diagnostics missing timeout report, got %q", buf.String())
	}
}

func TestPollForDetectionsTransientErrors(t *testing.T) {
	fake := &fakeLogs{detections: []detectionResponse{
		{err: &APIError{Status: 502, Message: "bad gateway"}},
		{err: &TransportError{Op: "GET /logs/log-1/detections", Err: context.DeadlineExceeded}},
		{result: completedResult("log-1")},
	}}
	l, buf := newTestLogger(fake)
	l.Init(validConfig())
	newPollHarness(l)

	result := l.PollForDetections(context.Background(), "log-1")
	if result == nil {
		t.Fatal("PollForDetections returned nil, transient errors must not abort the wait")
	}
	if fake.queryCount() != 3 {
		t.Errorf("queries = %d, want 3", fake.queryCount())
	}
	if got := strings.Count(buf.String(), "transient fault"); got != 2 {
		t.Errorf("transient reports = %d, want 2: %q", got, buf.String())
	}
	if strings.Contains(buf.String(), "operation failed") {
		t.Errorf("no failure should be reported on success, got %q", buf.String())
	}
}

func TestPollForDetectionsUnconfigured(t *testing.T) {
	fake := &fakeLogs{}
	l, buf := newTestLogger(fake)

	if result := l.PollForDetections(context.Background(), "log-1"); result != nil {
		t.Errorf("result = %+v, want nil", result)
	}
	if fake.queryCount() != 0 {
		t.Errorf("queries = %d, want 0 before configuration", fake.queryCount())
	}
	if !strings.Contains(buf.String(), "not configured") {
		t.Errorf("diagnostics missing configuration error, got %q", buf.String())
	}
}

func TestPollForDetectionsEmptyLogID(t *testing.T) {
	fake := &fakeLogs{}
	l, buf := newTestLogger(fake)
	l.Init(validConfig())

	if result := l.PollForDetections(context.Background(), ""); result != nil {
		t.Errorf("result = %+v, want nil", result)
	}
	if fake.queryCount() != 0 {
		t.Errorf("queries = %d, want 0 for an empty ID", fake.queryCount())
	}
	if !strings.Contains(buf.String(), "logID") {
		t.Errorf("diagnostics missing field name, got %q", buf.String())
	}
}

func TestPollForDetectionsContextCancelled(t *testing.T) {
	fake := &fakeLogs{detections: []detectionResponse{
		{result: pendingResult("log-1")},
	}}
	l, buf := newTestLogger(fake)
	l.Init(validConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := l.PollForDetections(ctx, "log-1")
	if result != nil {
		t.Errorf("result = %+v, want nil after cancellation", result)
	}
	if fake.queryCount() != 1 {
		t.Errorf("queries = %d, want 1 (cancellation lands in the sleep)", fake.queryCount())
	}
	if !strings.Contains(buf.String(), "wait for detections") {
		t.Errorf("diagnostics missing cancellation report, got %q", buf.String())
	}
}
