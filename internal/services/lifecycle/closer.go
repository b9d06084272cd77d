// Package lifecycle tears the application down in reverse start-up
// order once the run context ends.
package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Hook releases one component. It receives a context bounded by the
// grace period and must return once the component is down.
type Hook func(ctx context.Context) error

// Closer collects teardown hooks while the application starts and runs
// them last-registered-first on shutdown. Registering after Close has
// started is a no-op.
type Closer struct {
	grace time.Duration
	log   *zap.Logger

	mu      sync.Mutex
	stack   []namedHook
	closing bool
}

type namedHook struct {
	name string
	hook Hook
}

const defaultGrace = 15 * time.Second

func NewCloser(grace time.Duration, log *zap.Logger) *Closer {
	if grace <= 0 {
		grace = defaultGrace
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Closer{grace: grace, log: log}
}

// OnStop pushes a teardown hook. Components register in the order they
// start, so dependents (the HTTP server) go down before their
// dependencies (the database pool).
func (c *Closer) OnStop(name string, hook Hook) {
	if hook == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closing {
		c.log.Warn("teardown hook registered during shutdown, ignoring",
			zap.String("component", name))
		return
	}
	c.stack = append(c.stack, namedHook{name: name, hook: hook})
}

// NotifyContext derives the application's run context: it ends when the
// parent ends or when SIGINT/SIGTERM arrives, whichever comes first.
func (c *Closer) NotifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			c.log.Info("termination signal", zap.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// Close pops and runs every hook under a single grace-period deadline.
// A failing hook is logged and does not stop the ones below it; all
// failures come back joined.
func (c *Closer) Close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, c.grace)
	defer cancel()

	c.mu.Lock()
	c.closing = true
	stack := c.stack
	c.stack = nil
	c.mu.Unlock()

	var errs []error
	for i := len(stack) - 1; i >= 0; i-- {
		h := stack[i]
		started := time.Now()
		if err := h.hook(ctx); err != nil {
			c.log.Error("component teardown failed",
				zap.String("component", h.name), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		c.log.Info("component stopped",
			zap.String("component", h.name),
			zap.Duration("took", time.Since(started)))
	}
	return errors.Join(errs...)
}
