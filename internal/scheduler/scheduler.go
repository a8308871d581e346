package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/healthmon/internal/classify"
	"github.com/hamed0406/healthmon/internal/domain"
	"github.com/hamed0406/healthmon/internal/policy"
	"github.com/hamed0406/healthmon/internal/probe"
)

const (
	DefaultTimeout  = 5 * time.Second
	DefaultInterval = 60 * time.Second
)

// Sink receives each completed Report.
type Sink interface {
	Emit(ctx context.Context, r domain.Report)
}

// The SinkFunc type is an adapter to allow the use of ordinary functions as Sinks.
type SinkFunc func(ctx context.Context, r domain.Report)

func (f SinkFunc) Emit(ctx context.Context, r domain.Report) { f(ctx, r) }

type Option func(*Scheduler)

// WithMaxTicks stops continuous mode after n emitted reports (0 = unbounded).
func WithMaxTicks(n int) Option {
	return func(s *Scheduler) { s.maxTicks = n }
}

// WithClock replaces time.Now for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.Clock = now }
}

// Scheduler runs probe → classify ticks, once or on an interval.
type Scheduler struct {
	Logger      *zap.Logger
	Probers     probe.ByKind
	Policy      policy.ThresholdPolicy
	Timeout     time.Duration
	Concurrency int
	Clock       func() time.Time

	maxTicks int
	state    atomic.Int32
}

func New(
	logger *zap.Logger,
	probers probe.ByKind,
	pol policy.ThresholdPolicy,
	timeout time.Duration,
	concurrency int,
	opts ...Option,
) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	s := &Scheduler{
		Logger:      logger,
		Probers:     probers,
		Policy:      pol,
		Timeout:     timeout,
		Concurrency: concurrency,
		Clock:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// State is where the scheduler is in its lifecycle.
func (s *Scheduler) State() State { return State(s.state.Load()) }

func (s *Scheduler) setState(st State) {
	prev := State(s.state.Swap(int32(st)))
	if prev != st {
		s.Logger.Debug("scheduler_state", zap.Stringer("from", prev), zap.Stringer("to", st))
	}
}

// Validate reports every target that cannot be probed.
func (s *Scheduler) Validate(targets []domain.Target) error {
	if len(targets) == 0 {
		return fmt.Errorf("%w: no targets to check", domain.ErrConfiguration)
	}
	var errs []error
	for _, t := range targets {
		if !s.Probers.Supports(t.Kind) {
			errs = append(errs, fmt.Errorf("%w: no prober for %s target %q", domain.ErrConfiguration, t.Kind, t))
		}
	}
	return errors.Join(errs...)
}

// RunOnce runs a single tick over targets.
func (s *Scheduler) RunOnce(ctx context.Context, targets []domain.Target) (domain.Report, error) {
	if err := s.Validate(targets); err != nil {
		return domain.Report{}, err
	}
	defer s.setState(StateStopped)
	s.setState(StateRunningTick)
	return s.tick(ctx, targets)
}

// RunContinuous probes the single target every interval, measured from the
// end of one tick to the start of the next, until ctx is done. A tick that
// is cancelled part way through is discarded. Cancellation is not an error.
func (s *Scheduler) RunContinuous(ctx context.Context, targets []domain.Target, interval time.Duration, sink Sink) error {
	if len(targets) != 1 {
		return fmt.Errorf("%w: continuous mode monitors exactly one target, got %d", domain.ErrConfiguration, len(targets))
	}
	if interval <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %s", domain.ErrConfiguration, interval)
	}
	if err := s.Validate(targets); err != nil {
		return err
	}
	defer func() {
		s.setState(StateStopped)
		s.Logger.Info("scheduler_stopped")
	}()

	for ticks := 0; ; {
		if ctx.Err() != nil {
			return nil
		}
		s.setState(StateRunningTick)
		r, err := s.tick(ctx, targets)
		if err != nil {
			return nil
		}
		sink.Emit(ctx, r)
		ticks++
		if s.maxTicks > 0 && ticks >= s.maxTicks {
			return nil
		}

		s.setState(StateSleeping)
		if !wait(ctx, interval) {
			return nil
		}
	}
}

func (s *Scheduler) tick(ctx context.Context, targets []domain.Target) (domain.Report, error) {
	id := uuid.NewString()
	start := time.Now()
	s.Logger.Info("tick_started", zap.String("report_id", id), zap.Int("targets", len(targets)))

	per := make([][]domain.Measurement, len(targets))
	probeOne := func(i int) {
		per[i] = s.Probers.Probe(ctx, targets[i], s.Timeout)
	}
	if s.Concurrency <= 1 || len(targets) == 1 {
		for i := range targets {
			if ctx.Err() != nil {
				break
			}
			probeOne(i)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(s.Concurrency)
		for i := range targets {
			i := i
			g.Go(func() error {
				probeOne(i)
				return nil
			})
		}
		_ = g.Wait()
	}

	if err := ctx.Err(); err != nil {
		s.Logger.Info("tick_discarded", zap.String("report_id", id), zap.Error(err))
		return domain.Report{}, err
	}

	var ms []domain.Measurement
	for _, p := range per {
		ms = append(ms, p...)
	}
	r := domain.Report{
		ID:        id,
		Timestamp: s.Clock(),
		Verdicts:  classify.All(ms, s.Policy),
	}
	for _, m := range ms {
		if m.Kind == domain.KindProcessSnapshot {
			r.Processes = append(r.Processes, m.Processes...)
		}
		s.logMeasurement(id, m)
	}
	r.Alerts = classify.Alerts(r.Verdicts)

	sum := r.Summary()
	s.Logger.Info("tick_finished",
		zap.String("report_id", id),
		zap.Int("up", sum.Up),
		zap.Int("down", sum.Down),
		zap.Int("alerts", len(r.Alerts)),
		zap.Duration("took", time.Since(start)),
	)
	return r, nil
}

func (s *Scheduler) logMeasurement(id string, m domain.Measurement) {
	fields := []zap.Field{
		zap.String("report_id", id),
		zap.String("target", m.Target.String()),
		zap.String("kind", string(m.Kind)),
		zap.String("raw", m.Raw),
	}
	if m.Detail != "" {
		fields = append(fields, zap.String("detail", m.Detail))
	}
	if m.LowConfidence {
		fields = append(fields, zap.Bool("low_confidence", true))
	}
	if m.Err != nil {
		s.Logger.Warn("probe_failed", append(fields, zap.Error(m.Err))...)
		return
	}
	s.Logger.Debug("probe_measured", fields...)
}

// wait sleeps for d unless ctx ends first; it reports whether d elapsed.
func wait(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
