package probe

import (
	"context"
	"errors"
	"time"

	"github.com/hamed0406/healthmon/internal/domain"
)

// RetryProber repeats a probe while any of its measurements failed.
type RetryProber struct {
	Inner    Prober
	Attempts int
	Backoff  time.Duration
}

func (r *RetryProber) Probe(ctx context.Context, target domain.Target, timeout time.Duration) []domain.Measurement {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var last []domain.Measurement
	for i := 0; i < attempts; i++ {
		last = r.Inner.Probe(ctx, target, timeout)
		if !anyFailed(last) {
			return last
		}
		if i < attempts-1 && !sleep(ctx, r.Backoff) {
			break
		}
	}
	if attempts > 1 {
		last = annotate(last, attempts)
	}
	return last
}

func anyFailed(ms []domain.Measurement) bool {
	for _, m := range ms {
		if m.Failed() {
			return true
		}
	}
	return false
}

// annotate returns copies of ms with the retry count appended to failure messages.
func annotate(ms []domain.Measurement, attempts int) []domain.Measurement {
	out := make([]domain.Measurement, len(ms))
	for i, m := range ms {
		if m.Err != nil {
			var pe *domain.ProbeError
			if errors.As(m.Err, &pe) {
				m.Err = domain.NewProbeError(pe.Kind, pe.Cause, "%s (after %d attempts)", pe.Message, attempts)
			}
		}
		out[i] = m
	}
	return out
}

// sleep waits for d or until ctx is done; it reports whether the full wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
