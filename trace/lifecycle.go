package trace

import (
	"context"
	"sync"
)

// Lifecycle collects shutdown hooks from the components built during
// startup and runs them exactly once, most recently registered first, the
// same order defers would run. The zero value is ready to use.
type Lifecycle struct {
	mu    sync.Mutex
	hooks []func(context.Context) error
	done  bool
}

// OnShutdown registers a hook. Hooks registered after Shutdown has run are
// ignored.
func (l *Lifecycle) OnShutdown(hook func(context.Context) error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done {
		return
	}
	l.hooks = append(l.hooks, hook)
}

// Shutdown runs the registered hooks in reverse registration order. Every
// hook runs even when earlier ones fail; the first error is returned.
// Second and later calls do nothing.
func (l *Lifecycle) Shutdown(ctx context.Context) error {
	l.mu.Lock()
	if l.done {
		l.mu.Unlock()
		return nil
	}
	l.done = true
	hooks := l.hooks
	l.hooks = nil
	l.mu.Unlock()

	var firstErr error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
