package probe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"time"

	"github.com/hamed0406/healthmon/internal/domain"
)

// DefaultTopN is how many processes a host probe samples.
const DefaultTopN = 5

// loadToPercent scales the one-minute load average into a CPU estimate when
// the primary CPU source is unavailable. Rough placeholder, not a model.
const loadToPercent = 25.0

// Sampler reads host resource figures on one platform.
type Sampler interface {
	Platform() string
	CPU(ctx context.Context) (float64, error)
	Memory(ctx context.Context) (float64, error)
	Disk(ctx context.Context) (float64, error)
	Processes(ctx context.Context, n int) ([]domain.ProcessSample, error)
	LoadAverage(ctx context.Context) (float64, error)
}

// SamplerFor picks the sampler for goos. Unknown platforms get one whose
// metrics all fail with ErrUnsupportedPlatform.
func SamplerFor(goos string, run Runner, read ReadFile) Sampler {
	switch goos {
	case "linux":
		return &LinuxSampler{Run: run, Read: read}
	case "darwin":
		return &DarwinSampler{Run: run}
	default:
		return unsupportedSampler{goos: goos}
	}
}

// ResourceProber measures the local host through a Sampler.
type ResourceProber struct {
	Sampler Sampler
	TopN    int
}

// NewResourceProber returns a prober for the platform the binary runs on.
func NewResourceProber(topN int) *ResourceProber {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &ResourceProber{
		Sampler: SamplerFor(runtime.GOOS, ExecRunner{}, osReadFile),
		TopN:    topN,
	}
}

// Probe yields cpu, memory and disk measurements followed by a process snapshot.
func (r *ResourceProber) Probe(ctx context.Context, target domain.Target, timeout time.Duration) []domain.Measurement {
	return []domain.Measurement{
		r.cpu(ctx, target, timeout),
		r.metric(ctx, target, timeout, domain.KindMemory, r.Sampler.Memory),
		r.metric(ctx, target, timeout, domain.KindDisk, r.Sampler.Disk),
		r.processes(ctx, target, timeout),
	}
}

func (r *ResourceProber) metric(ctx context.Context, target domain.Target, timeout time.Duration, kind domain.Kind, read func(context.Context) (float64, error)) domain.Measurement {
	m := domain.Measurement{Target: target, Kind: kind, TakenAt: time.Now()}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	v, err := read(cctx)
	if err != nil {
		m.Raw = domain.RawUnavailable
		m.Err = asProbeError(err, kind)
		return m
	}
	m.Value = clampPercent(v)
	m.Raw = strconv.FormatFloat(m.Value, 'f', 1, 64)
	return m
}

func (r *ResourceProber) cpu(ctx context.Context, target domain.Target, timeout time.Duration) domain.Measurement {
	m := r.metric(ctx, target, timeout, domain.KindCPU, r.Sampler.CPU)
	if m.Err == nil {
		return m
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	load, err := r.Sampler.LoadAverage(cctx)
	if err != nil {
		m.Detail = fmt.Sprintf("load average unavailable: %v", err)
		return m
	}
	m.Err = nil
	m.Value = math.Min(load*loadToPercent, 100)
	m.Raw = strconv.FormatFloat(m.Value, 'f', 1, 64)
	m.LowConfidence = true
	m.Detail = fmt.Sprintf("load1=%.2f", load)
	return m
}

func (r *ResourceProber) processes(ctx context.Context, target domain.Target, timeout time.Duration) domain.Measurement {
	m := domain.Measurement{Target: target, Kind: domain.KindProcessSnapshot, TakenAt: time.Now()}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ps, err := r.Sampler.Processes(cctx, r.TopN)
	if err != nil {
		m.Raw = domain.RawUnavailable
		m.Err = asProbeError(err, domain.KindProcessSnapshot)
		return m
	}
	m.Processes = ps
	m.Value = float64(len(ps))
	m.Raw = strconv.Itoa(len(ps))
	return m
}

func asProbeError(err error, kind domain.Kind) error {
	var pe *domain.ProbeError
	if errors.As(err, &pe) {
		return pe
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewProbeError(domain.ErrProbeTimeout, err, "%s sampling timed out", kind)
	}
	return domain.NewProbeError(domain.ErrProbeParse, err, "%v", err)
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

type unsupportedSampler struct{ goos string }

func (u unsupportedSampler) Platform() string { return u.goos }

func (u unsupportedSampler) err() error {
	return domain.NewProbeError(domain.ErrUnsupportedPlatform, nil, "not supported on %s", u.goos)
}

func (u unsupportedSampler) CPU(context.Context) (float64, error) { return 0, u.err() }

func (u unsupportedSampler) Memory(context.Context) (float64, error) { return 0, u.err() }

func (u unsupportedSampler) Disk(context.Context) (float64, error) { return 0, u.err() }

func (u unsupportedSampler) LoadAverage(context.Context) (float64, error) { return 0, u.err() }

func (u unsupportedSampler) Processes(context.Context, int) ([]domain.ProcessSample, error) {
	return nil, u.err()
}
