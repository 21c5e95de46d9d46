// Package scheduler runs periodic tasks behind cancelable handles.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task is one unit of periodic work. A non-nil error schedules a retry
// after a backoff delay, or at the next regular tick if that comes first.
type Task func(ctx context.Context) error

// Config describes the cadence of a periodic task.
type Config struct {
	Name     string
	Interval time.Duration
	// InitialBackoff is the first retry delay after a failure. It doubles
	// per consecutive failure and never exceeds Interval. Zero means a
	// failed run waits a full Interval like a successful one.
	InitialBackoff time.Duration
	// Timeout bounds a single run. Zero means Interval.
	Timeout time.Duration
}

// Handle owns one running periodic task.
type Handle struct {
	cfg     Config
	task    Task
	logger  *slog.Logger
	cancel  context.CancelFunc
	trigger chan struct{}
	done    chan struct{}
	once    sync.Once
}

// Start runs task immediately and then every cfg.Interval, measured from
// the first run, until the handle is canceled or ctx is done. Interval must
// be positive.
func Start(ctx context.Context, cfg Config, task Task, logger *slog.Logger) *Handle {
	if cfg.Interval <= 0 {
		panic("non-positive interval for scheduler.Start")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = cfg.Interval
	}

	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		cfg:     cfg,
		task:    task,
		logger:  logger.With("task", cfg.Name),
		cancel:  cancel,
		trigger: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	go h.loop(ctx)

	return h
}

// Cancel stops the task and waits for an in-flight run to return.
func (h *Handle) Cancel() {
	h.once.Do(h.cancel)
	<-h.done
}

// Trigger requests an immediate run without moving the regular schedule. It
// never blocks; requests made while a run is pending collapse into one.
func (h *Handle) Trigger() {
	select {
	case h.trigger <- struct{}{}:
	default:
	}
}

// Done is closed once the task loop has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

func (h *Handle) loop(ctx context.Context) {
	defer close(h.done)

	h.logger.Debug("periodic task started", "interval", h.cfg.Interval)

	// Regular runs stay on the grid start + k*Interval whatever the runs
	// take. A retry after a failure may come earlier than the next tick.
	tick := time.Now()
	var retryAt time.Time
	failures := 0

	for {
		due := tick
		if !retryAt.IsZero() && retryAt.Before(due) {
			due = retryAt
		}

		timer := time.NewTimer(time.Until(due))
		select {
		case <-ctx.Done():
			timer.Stop()
			h.logger.Debug("periodic task stopped")
			return
		case <-timer.C:
		case <-h.trigger:
			timer.Stop()
		}

		err := h.runOnce(ctx)
		if ctx.Err() != nil {
			h.logger.Debug("periodic task stopped")
			return
		}

		now := time.Now()
		tick = h.nextTick(tick, now)

		if err != nil {
			failures++
			delay := h.backoff(failures)
			retryAt = now.Add(delay)
			h.logger.Warn("task run failed",
				"attempt", failures,
				"retry_in", delay,
				"error", err,
			)
		} else {
			failures = 0
			retryAt = time.Time{}
		}
	}
}

// nextTick returns the first grid point after now, skipping ticks missed
// while a run was in flight.
func (h *Handle) nextTick(tick, now time.Time) time.Time {
	if tick.After(now) {
		return tick
	}
	missed := now.Sub(tick)/h.cfg.Interval + 1
	return tick.Add(missed * h.cfg.Interval)
}

func (h *Handle) runOnce(ctx context.Context) error {
	runCtx, cancel := context.WithTimeout(ctx, h.cfg.Timeout)
	defer cancel()

	return h.task(runCtx)
}

func (h *Handle) backoff(attempt int) time.Duration {
	if h.cfg.InitialBackoff <= 0 {
		return h.cfg.Interval
	}
	backoff := h.cfg.InitialBackoff
	for i := 1; i < attempt && backoff < h.cfg.Interval; i++ {
		backoff *= 2
	}
	if backoff > h.cfg.Interval {
		backoff = h.cfg.Interval
	}
	return backoff
}
