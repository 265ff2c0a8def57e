// Package trace captures span trees around AI calls and hands completed
// traces to exporters. It is deliberately small: no OpenTelemetry types, no
// globals, and an explicit lifecycle so nothing is lost at process exit.
//
// Usage:
//
//	lc := &trace.Lifecycle{}
//	tracer := trace.New(trace.Config{ServiceName: "support-bot", Environment: "prod"},
//	    trace.WithExporter(trace.NewFileExporter("")),
//	    trace.WithLifecycle(lc),
//	)
//
//	ctx, span := tracer.StartSpan(ctx, "answer-question")
//	child := func(ctx context.Context) {
//	    ctx, s := tracer.StartSpan(ctx, "retrieve")
//	    defer s.End()
//	    // ...
//	}
//	child(ctx)
//	span.End()
//
//	defer lc.Shutdown(context.Background())
package trace

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Config identifies the service emitting traces.
type Config struct {
	ServiceName string
	Environment string
}

// Span is one timed operation. Spans nest through the context: starting a
// span under a context that already carries one makes it a child.
type Span struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Kind       string         `json:"kind,omitempty"`
	StartedAt  time.Time      `json:"started_at"`
	EndedAt    time.Time      `json:"ended_at"`
	Status     string         `json:"status,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
	Children   []*Span        `json:"children,omitempty"`

	tracer *Tracer
	parent *Span
	mu     sync.Mutex
	ended  bool
}

// Trace is a completed span tree with its origin metadata.
type Trace struct {
	ID          string    `json:"id"`
	ServiceName string    `json:"service_name"`
	Environment string    `json:"environment"`
	Root        *Span     `json:"root"`
	CapturedAt  time.Time `json:"captured_at"`
}

// Tracer builds span trees and queues each completed root for export.
type Tracer struct {
	cfg       Config
	exporters []Exporter
	now       func() time.Time
	newID     func() string

	mu        sync.Mutex
	completed []*Trace
}

// Option configures a Tracer.
type Option func(*Tracer)

// WithExporter adds a destination for completed traces. Multiple exporters
// each receive every trace.
func WithExporter(e Exporter) Option {
	return func(t *Tracer) { t.exporters = append(t.exporters, e) }
}

// WithLifecycle registers the tracer's Shutdown on lc, so a single
// lc.Shutdown call at process exit flushes pending traces.
func WithLifecycle(lc *Lifecycle) Option {
	return func(t *Tracer) { lc.OnShutdown(t.Shutdown) }
}

// New creates a Tracer.
func New(cfg Config, opts ...Option) *Tracer {
	t := &Tracer{
		cfg:   cfg,
		now:   time.Now,
		newID: shortID,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func shortID() string {
	return uuid.New().String()[:8]
}

type spanKey struct{}

// FromContext returns the span the context carries, or nil. Use it to
// annotate the current operation without threading *Span through every call.
func FromContext(ctx context.Context) *Span {
	span, _ := ctx.Value(spanKey{}).(*Span)
	return span
}

// SpanOption configures a span at start time.
type SpanOption func(*Span)

// WithKind labels what the span wraps, e.g. "llm", "retrieval", "tool".
func WithKind(kind string) SpanOption {
	return func(s *Span) { s.Kind = kind }
}

// WithAttributes seeds the span's attributes.
func WithAttributes(attrs map[string]any) SpanOption {
	return func(s *Span) {
		if s.Attributes == nil {
			s.Attributes = make(map[string]any, len(attrs))
		}
		for k, v := range attrs {
			s.Attributes[k] = v
		}
	}
}

// StartSpan begins a span and returns a context carrying it. End the span
// when the operation finishes; ending a root span queues its tree for
// export.
func (t *Tracer) StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, *Span) {
	span := &Span{
		ID:        t.newID(),
		Name:      name,
		StartedAt: t.now(),
		tracer:    t,
		parent:    FromContext(ctx),
	}
	for _, opt := range opts {
		opt(span)
	}

	if span.parent != nil {
		span.parent.mu.Lock()
		span.parent.Children = append(span.parent.Children, span)
		span.parent.mu.Unlock()
	}

	return context.WithValue(ctx, spanKey{}, span), span
}

// SetStatus records how the operation ended, e.g. "ok" or "error".
func (s *Span) SetStatus(status string) {
	s.mu.Lock()
	s.Status = status
	s.mu.Unlock()
}

// SetAttribute records one attribute on the span.
func (s *Span) SetAttribute(key string, value any) {
	s.mu.Lock()
	if s.Attributes == nil {
		s.Attributes = make(map[string]any)
	}
	s.Attributes[key] = value
	s.mu.Unlock()
}

// End stamps the span's end time, once. Ending a root span hands the
// completed tree to the tracer; exporters see it on the next Flush.
func (s *Span) End() {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	s.EndedAt = s.tracer.now()
	s.mu.Unlock()

	if s.parent == nil {
		s.tracer.finish(s)
	}
}

func (t *Tracer) finish(root *Span) {
	tr := &Trace{
		ID:          root.ID,
		ServiceName: t.cfg.ServiceName,
		Environment: t.cfg.Environment,
		Root:        root,
		CapturedAt:  t.now(),
	}
	t.mu.Lock()
	t.completed = append(t.completed, tr)
	t.mu.Unlock()
}

// Flush delivers all completed traces to every exporter. Traces that fail to
// export are dropped, not retried; the first error is returned after all
// deliveries were attempted.
func (t *Tracer) Flush(ctx context.Context) error {
	t.mu.Lock()
	pending := t.completed
	t.completed = nil
	t.mu.Unlock()

	var firstErr error
	for _, tr := range pending {
		for _, exporter := range t.exporters {
			if err := exporter.ExportTrace(ctx, tr); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Shutdown flushes pending traces. It exists so a Tracer can register with a
// Lifecycle.
func (t *Tracer) Shutdown(ctx context.Context) error {
	return t.Flush(ctx)
}
