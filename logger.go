package verdict

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LoggerConfig configures the log recorder via Logger.Init.
//
// SampleRate is the fraction of Log calls actually recorded and defaults to
// 1 (record everything). DetectionSampleRate is the fraction of recorded
// logs the service runs detections on and defaults to 0.
type LoggerConfig struct {
	AppName     string
	Environment string
	Tags        map[string]any
	SampleRate  *float64

	Detections          []DetectionType
	DetectionSampleRate *float64

	// Deprecated: set Detections to include DetectionHallucination.
	HallucinationDetection *bool
	// Deprecated: the service no longer supports inconsistency detection.
	InconsistencyDetection *bool
	// Deprecated: use DetectionSampleRate.
	HallucinationDetectionSampleRate *float64
}

// LogParams describes one model interaction to record. Documents elements
// may be strings, Document values, or maps with a "page_content" key.
//
// The detection fields mirror LoggerConfig: a call that sets any of them
// replaces the configured detection settings for that call only, and a call
// that sets none inherits them.
type LogParams struct {
	UserQuery      string
	ModelOutput    string
	Documents      []any
	MessageHistory []map[string]any
	Instructions   []string
	Tags           map[string]any

	Detections          []DetectionType
	DetectionSampleRate *float64

	// Deprecated: set Detections to include DetectionHallucination.
	HallucinationDetection *bool
	// Deprecated: the service no longer supports inconsistency detection.
	InconsistencyDetection *bool
	// Deprecated: use DetectionSampleRate.
	HallucinationDetectionSampleRate *float64
}

// loggerState is the configuration snapshot taken by a successful Init.
type loggerState struct {
	appName     string
	environment string
	tags        map[string]any
	sampleRate  float64
	detections  detectionSettings
}

// Logger records model interactions and fetches their detection results.
//
// A Logger never returns an error and never panics: failed operations report
// through the diagnostic side channel and return a sentinel value (an empty
// ID from Log, nil from PollForDetections). Obtain one from Client.Logger
// and call Init before logging.
type Logger struct {
	logs     LogsService
	reporter *reporter

	sampler sampler
	newID   func() string
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error

	mu    sync.Mutex
	state *loggerState // nil until Init succeeds
}

func newLoggerWith(logs LogsService, rep *reporter) *Logger {
	return &Logger{
		logs:     logs,
		reporter: rep,
		sampler:  newSampler(nil),
		newID:    uuid.NewString,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Init configures the logger and returns it, so setup chains onto
// Client.Logger. Init is all-or-nothing: on any invalid configuration the
// problem is reported and the previous configuration, if any, stays active.
func (l *Logger) Init(cfg LoggerConfig) *Logger {
	settings, notice, err := resolveDetections(detectionParams{
		detections:          cfg.Detections,
		detectionSampleRate: cfg.DetectionSampleRate,
		hallucination:       cfg.HallucinationDetection,
		inconsistency:       cfg.InconsistencyDetection,
		hallucinationRate:   cfg.HallucinationDetectionSampleRate,
	})
	if err != nil {
		l.reporter.failure("logger.init", err)
		return l
	}
	if err := validateLoggerConfig(cfg); err != nil {
		l.reporter.failure("logger.init", err)
		return l
	}
	if notice != "" {
		l.reporter.deprecation(notice)
	}

	sampleRate := 1.0
	if cfg.SampleRate != nil {
		sampleRate = *cfg.SampleRate
	}

	state := &loggerState{
		appName:     cfg.AppName,
		environment: cfg.Environment,
		tags:        copyTags(cfg.Tags),
		sampleRate:  sampleRate,
		detections:  settings,
	}

	l.mu.Lock()
	l.state = state
	l.mu.Unlock()
	return l
}

// Configured reports whether Init has succeeded.
func (l *Logger) Configured() bool {
	return l.snapshot() != nil
}

// Log records one interaction and returns the new log's ID. The ID is
// generated client-side, so it is usable immediately for polling even while
// the service is still persisting the record.
//
// An empty string comes back in two cases: the call failed (a problem was
// reported) or the call was sampled out (nothing was reported). At most one
// record is submitted per call.
func (l *Logger) Log(ctx context.Context, p LogParams) string {
	state := l.snapshot()
	if state == nil {
		l.reporter.failure("logger.log", &ConfigurationError{Reason: "logger not configured, call Init first"})
		return ""
	}

	settings := state.detections
	call := detectionParams{
		detections:          p.Detections,
		detectionSampleRate: p.DetectionSampleRate,
		hallucination:       p.HallucinationDetection,
		inconsistency:       p.InconsistencyDetection,
		hallucinationRate:   p.HallucinationDetectionSampleRate,
	}
	var notice string
	if call.used() {
		resolved, n, err := resolveDetections(call)
		if err != nil {
			l.reporter.failure("logger.log", err)
			return ""
		}
		settings = resolved
		notice = n
	}

	if err := validateDocuments(p.Documents); err != nil {
		l.reporter.failure("logger.log", err)
		return ""
	}
	if err := checkDetectionRequirements(settings, p); err != nil {
		l.reporter.failure("logger.log", err)
		return ""
	}
	if notice != "" {
		l.reporter.deprecation(notice)
	}

	if !l.sampler.Keep(state.sampleRate) {
		l.reporter.debug("logger.log", "sampled out")
		return ""
	}

	rec := &LogRecord{
		ID:                  l.newID(),
		AppName:             state.appName,
		Environment:         state.environment,
		CreatedAt:           l.now().UTC(),
		UserQuery:           p.UserQuery,
		ModelOutput:         p.ModelOutput,
		Documents:           p.Documents,
		MessageHistory:      p.MessageHistory,
		Instructions:        p.Instructions,
		Tags:                mergeTags(state.tags, p.Tags),
		Detections:          settings.detections,
		DetectionSampleRate: settings.sampleRate,
	}

	if err := l.logs.CreateLog(ctx, rec); err != nil {
		l.reporter.failure("logger.log", err)
		return ""
	}
	return rec.ID
}

func (l *Logger) snapshot() *loggerState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func copyTags(tags map[string]any) map[string]any {
	if len(tags) == 0 {
		return nil
	}
	out := make(map[string]any, len(tags))
	for k, v := range tags {
		out[k] = v
	}
	return out
}

// mergeTags overlays call tags on configured tags without mutating either.
// Call tags win on key collisions.
func mergeTags(configured, call map[string]any) map[string]any {
	if len(configured) == 0 && len(call) == 0 {
		return nil
	}
	out := make(map[string]any, len(configured)+len(call))
	for k, v := range configured {
		out[k] = v
	}
	for k, v := range call {
		out[k] = v
	}
	return out
}
