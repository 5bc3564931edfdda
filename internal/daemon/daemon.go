// Package daemon re-renders a calendar view on a cron schedule.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultSchedule re-renders once a minute
const DefaultSchedule = "* * * * *"

// ErrAlreadyRunning is returned when a render is still in progress
var ErrAlreadyRunning = errors.New("render already in progress")

// RenderFunc renders the view for the tick time now
type RenderFunc func(ctx context.Context, now time.Time) error

// Status describes the daemon for display
type Status struct {
	Schedule string
	Running  bool
	Runs     int
	Failures int
	LastRun  time.Time
	NextRun  time.Time
}

// Daemon represents the watch process
type Daemon struct {
	spec     string
	schedule cron.Schedule
	render   RenderFunc
	logger   *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	now      func() time.Time

	mu       sync.Mutex // Protects the fields below
	running  bool       // Flag to prevent overlapping renders
	runs     int
	failures int
	lastRun  time.Time
}

// NewDaemon creates a daemon for a standard 5-field cron spec. An empty spec
// selects DefaultSchedule.
func NewDaemon(spec string, render RenderFunc, logger *zap.Logger) (*Daemon, error) {
	if spec == "" {
		spec = DefaultSchedule
	}
	if render == nil {
		return nil, fmt.Errorf("render function is required")
	}

	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid watch schedule %q: %w", spec, err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Daemon{
		spec:     spec,
		schedule: schedule,
		render:   render,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		now:      time.Now,
	}, nil
}

// Start renders once, then on every scheduled tick until Stop is called or
// SIGINT/SIGTERM arrives.
func (d *Daemon) Start() error {
	d.logger.Info("Watch started",
		zap.String("schedule", d.spec),
		zap.Time("next_run", d.NextRun()))

	d.runLogged(d.now())

	c := cron.New(cron.WithLogger(cronLogger{d.logger}))
	if _, err := c.AddFunc(d.spec, func() { d.runLogged(d.now()) }); err != nil {
		return fmt.Errorf("failed to schedule render: %w", err)
	}
	c.Start()
	defer func() {
		// Wait for a render in flight to finish
		<-c.Stop().Done()
	}()

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-d.ctx.Done():
		d.logger.Info("Watch stopped")
	case sig := <-sigChan:
		d.logger.Info("Received signal, shutting down",
			zap.String("signal", sig.String()))
		d.Stop()
	}
	return nil
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

// RunNow renders immediately unless a render is already running
func (d *Daemon) RunNow() error {
	return d.run(d.now())
}

// NextRun returns the next scheduled tick after the current time
func (d *Daemon) NextRun() time.Time {
	return d.schedule.Next(d.now())
}

// Status returns the daemon status
func (d *Daemon) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	return Status{
		Schedule: d.spec,
		Running:  d.running,
		Runs:     d.runs,
		Failures: d.failures,
		LastRun:  d.lastRun,
		NextRun:  d.schedule.Next(d.now()),
	}
}

func (d *Daemon) runLogged(now time.Time) {
	if err := d.run(now); err != nil {
		if errors.Is(err, ErrAlreadyRunning) {
			d.logger.Warn("Render still running, skipping tick", zap.Time("tick", now))
			return
		}
		d.logger.Error("Render failed", zap.Time("tick", now), zap.Error(err))
	}
}

func (d *Daemon) run(now time.Time) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return ErrAlreadyRunning
	}
	d.running = true
	d.mu.Unlock()

	err := d.render(d.ctx, now)

	d.mu.Lock()
	d.running = false
	d.runs++
	d.lastRun = now
	if err != nil {
		d.failures++
	}
	d.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}
	d.logger.Debug("Rendered", zap.Time("tick", now))
	return nil
}

// cronLogger routes cron's own messages to zap
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
