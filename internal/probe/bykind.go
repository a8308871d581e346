package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/hamed0406/healthmon/internal/domain"
)

// ByKind routes each target to the prober registered for its kind.
type ByKind map[domain.TargetKind]Prober

func NewByKind(endpoint, host Prober) ByKind {
	b := ByKind{}
	if endpoint != nil {
		b[domain.TargetEndpoint] = endpoint
	}
	if host != nil {
		b[domain.TargetHost] = host
	}
	return b
}

// Supports reports whether a prober is registered for kind.
func (b ByKind) Supports(kind domain.TargetKind) bool {
	_, ok := b[kind]
	return ok
}

// Probe panics for unregistered kinds; callers check Supports up front.
func (b ByKind) Probe(ctx context.Context, target domain.Target, timeout time.Duration) []domain.Measurement {
	p, ok := b[target.Kind]
	if !ok {
		panic(fmt.Sprintf("probe: no prober registered for %q targets", target.Kind))
	}
	return p.Probe(ctx, target, timeout)
}
