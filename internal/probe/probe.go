package probe

import (
	"context"
	"time"

	"github.com/hamed0406/healthmon/internal/domain"
)

// Prober measures one target.
//
// Expected failures (timeouts, refused connections, output that cannot be
// parsed) never escape as errors: they come back as Measurements with Err set
// and a sentinel Raw value. An endpoint probe yields exactly one Measurement;
// a host probe yields one per resource metric followed by a process snapshot.
type Prober interface {
	Probe(ctx context.Context, target domain.Target, timeout time.Duration) []domain.Measurement
}

// The ProberFunc type is an adapter to allow the use of ordinary functions as Probers.
type ProberFunc func(ctx context.Context, target domain.Target, timeout time.Duration) []domain.Measurement

func (f ProberFunc) Probe(ctx context.Context, target domain.Target, timeout time.Duration) []domain.Measurement {
	return f(ctx, target, timeout)
}
