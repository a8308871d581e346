package probe

import (
	"bufio"
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/hamed0406/healthmon/internal/domain"
)

// LinuxSampler reads procps tools and /proc.
type LinuxSampler struct {
	Run  Runner
	Read ReadFile
}

func (s *LinuxSampler) Platform() string { return "linux" }

func (s *LinuxSampler) CPU(ctx context.Context) (float64, error) {
	out, err := s.Run.Run(ctx, "top", "-bn1")
	if err != nil {
		return 0, err
	}
	return cpuFromTop(out, "Cpu(s)")
}

func (s *LinuxSampler) Memory(context.Context) (float64, error) {
	b, err := s.Read("/proc/meminfo")
	if err != nil {
		return 0, err
	}
	return memFromMeminfo(b)
}

func (s *LinuxSampler) Disk(ctx context.Context) (float64, error) {
	out, err := s.Run.Run(ctx, "df", "-P", "/")
	if err != nil {
		return 0, err
	}
	return diskFromDF(out)
}

func (s *LinuxSampler) Processes(ctx context.Context, n int) ([]domain.ProcessSample, error) {
	out, err := s.Run.Run(ctx, "ps", "aux", "--sort=-%cpu")
	if err != nil {
		return nil, err
	}
	return parsePS(out, n)
}

func (s *LinuxSampler) LoadAverage(context.Context) (float64, error) {
	b, err := s.Read("/proc/loadavg")
	if err != nil {
		return 0, err
	}
	return firstFloat(string(b))
}

// memFromMeminfo returns (MemTotal - MemAvailable) / MemTotal as a percentage.
func memFromMeminfo(b []byte) (float64, error) {
	vals := map[string]float64{}
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		key, rest, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		f := strings.Fields(rest)
		if len(f) == 0 {
			continue
		}
		if v, err := strconv.ParseFloat(f[0], 64); err == nil {
			vals[key] = v
		}
	}
	total, avail := vals["MemTotal"], vals["MemAvailable"]
	if total <= 0 {
		return 0, domain.NewProbeError(domain.ErrProbeParse, nil, "MemTotal missing from /proc/meminfo")
	}
	if _, ok := vals["MemAvailable"]; !ok {
		return 0, domain.NewProbeError(domain.ErrProbeParse, nil, "MemAvailable missing from /proc/meminfo")
	}
	return (total - avail) / total * 100, nil
}
