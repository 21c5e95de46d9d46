// Package dashboard owns the live state of a dashboard view: a stats
// snapshot and the recent activity list, each kept fresh by its own
// periodic fetch.
//
// A Controller is mounted once and closed once. Mount starts the two
// pollers; Close cancels both and waits for them, after which no response
// can change the view's state.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"validprop/internal/config"
	"validprop/internal/domain"
	"validprop/internal/metrics"
	"validprop/internal/notifier"
	"validprop/internal/scheduler"
)

const (
	SourceStats    = "stats"
	SourceActivity = "activity"
)

var (
	ErrAlreadyMounted = errors.New("dashboard already mounted")
	ErrClosed         = errors.New("dashboard closed")
	ErrBadInterval    = errors.New("dashboard poll intervals must be positive")
)

// Source is the remote API the dashboard reads from.
type Source interface {
	DashboardStats(ctx context.Context) (domain.DashboardStats, error)
	RecentActivity(ctx context.Context) ([]domain.ActivityEntry, error)
}

// StatsObserver is told about every stats snapshot that was applied.
type StatsObserver interface {
	StatsRefreshed(ctx context.Context, stats domain.DashboardStats, receivedAt time.Time) error
}

// View is a point-in-time copy of the controller state.
type View struct {
	Stats    Result[domain.DashboardStats]
	Activity Result[[]domain.ActivityEntry]
}

// StatsPending reports whether nothing but the loading indicator should be
// shown: the first stats response has not arrived and none has failed.
func (v View) StatsPending() bool {
	return v.Stats.IsLoading()
}

// StatsUnavailable reports whether stats failed before any snapshot arrived.
func (v View) StatsUnavailable() bool {
	return v.Stats.IsFailed() && !v.Stats.HasData
}

// Option configures a Controller.
type Option func(*Controller)

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

func WithObserver(o StatsObserver) Option {
	return func(c *Controller) { c.observer = o }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithID sets the view id instead of generating one.
func WithID(id string) Option {
	return func(c *Controller) {
		if id != "" {
			c.id = id
		}
	}
}

// StatsOnly mounts the stats poller alone. Activity stays loading.
func StatsOnly() Option {
	return func(c *Controller) { c.statsOnly = true }
}

type Controller struct {
	id        string
	statsOnly bool
	source    Source
	cfg       config.DashboardConfig
	logger    *slog.Logger
	metrics   *metrics.Metrics
	observer  StatsObserver
	notifier  *notifier.Notifier
	now       func() time.Time

	mu       sync.RWMutex
	stats    Result[domain.DashboardStats]
	activity Result[[]domain.ActivityEntry]
	mounted  bool
	closed   bool

	statsTask    *scheduler.Handle
	activityTask *scheduler.Handle
}

func New(source Source, cfg config.DashboardConfig, logger *slog.Logger, opts ...Option) *Controller {
	c := &Controller{
		id:       uuid.NewString(),
		source:   source,
		cfg:      cfg,
		notifier: notifier.New(),
		now:      time.Now,
		stats:    Loading[domain.DashboardStats](),
		activity: Loading[[]domain.ActivityEntry](),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logger.With("component", "dashboard", "view_id", c.id)
	return c
}

// ID identifies this view in logs.
func (c *Controller) ID() string {
	return c.id
}

// Mount starts both pollers. They run until Close is called or ctx is done.
func (c *Controller) Mount(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.mounted {
		return ErrAlreadyMounted
	}
	if c.cfg.StatsInterval <= 0 || (!c.statsOnly && c.cfg.ActivityInterval <= 0) {
		return ErrBadInterval
	}
	c.mounted = true

	c.statsTask = scheduler.Start(ctx, scheduler.Config{
		Name:           SourceStats,
		Interval:       c.cfg.StatsInterval,
		InitialBackoff: c.cfg.Retry.InitialBackoff,
	}, c.pollStats, c.logger)

	if !c.statsOnly {
		c.activityTask = scheduler.Start(ctx, scheduler.Config{
			Name:           SourceActivity,
			Interval:       c.cfg.ActivityInterval,
			InitialBackoff: c.cfg.Retry.InitialBackoff,
		}, c.pollActivity, c.logger)
	}

	c.metrics.ViewMounted()
	c.logger.Debug("dashboard mounted",
		"stats_interval", c.cfg.StatsInterval,
		"activity_interval", c.cfg.ActivityInterval,
	)

	return nil
}

// Close cancels both pollers and waits for them. Subscribers' channels are
// closed. Calling Close more than once is safe.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	statsTask, activityTask := c.statsTask, c.activityTask
	mounted := c.mounted
	c.mu.Unlock()

	if statsTask != nil {
		statsTask.Cancel()
	}
	if activityTask != nil {
		activityTask.Cancel()
	}
	c.notifier.Close()

	if mounted {
		c.metrics.ViewClosed()
		c.logger.Debug("dashboard closed")
	}
}

// Refresh asks both pollers to fetch now. Their regular cadence is kept.
func (c *Controller) Refresh() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed || !c.mounted {
		return
	}
	c.statsTask.Trigger()
	if c.activityTask != nil {
		c.activityTask.Trigger()
	}
}

// View returns the current state.
func (c *Controller) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return View{Stats: c.stats, Activity: c.activity}
}

// Subscribe returns a channel pinged after every state change. It is
// closed when the controller closes.
func (c *Controller) Subscribe() chan struct{} {
	return c.notifier.Subscribe()
}

func (c *Controller) Unsubscribe(ch chan struct{}) {
	c.notifier.Unsubscribe(ch)
}

func (c *Controller) pollStats(ctx context.Context) error {
	start := time.Now()
	stats, err := c.source.DashboardStats(ctx)
	c.metrics.ObservePoll(SourceStats, start, err)

	if err != nil {
		c.apply(func() { c.stats = c.stats.Fail(err) })
		return err
	}

	receivedAt := c.now()
	if !c.apply(func() { c.stats = Ready(stats, receivedAt) }) {
		return nil
	}

	if c.observer != nil {
		if err := c.observer.StatsRefreshed(ctx, stats, receivedAt); err != nil {
			c.logger.Error("stats observer failed", "error", err)
		}
	}

	return nil
}

func (c *Controller) pollActivity(ctx context.Context) error {
	start := time.Now()
	entries, err := c.source.RecentActivity(ctx)
	c.metrics.ObservePoll(SourceActivity, start, err)

	if err != nil {
		c.apply(func() { c.activity = c.activity.Fail(err) })
		return err
	}

	if entries == nil {
		entries = []domain.ActivityEntry{}
	}
	receivedAt := c.now()
	c.apply(func() { c.activity = Ready(entries, receivedAt) })

	return nil
}

// apply runs fn under the state lock unless the controller is closed, then
// notifies subscribers. It reports whether fn ran.
func (c *Controller) apply(fn func()) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	fn()
	c.mu.Unlock()

	c.notifier.Broadcast()
	return true
}
