package probe

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/hamed0406/healthmon/internal/domain"
)

const darwinPageSize = 4096

var pageSizeRe = regexp.MustCompile(`page size of (\d+) bytes`)

// DarwinSampler reads the macOS userland tools.
type DarwinSampler struct {
	Run Runner
}

func (s *DarwinSampler) Platform() string { return "darwin" }

func (s *DarwinSampler) CPU(ctx context.Context) (float64, error) {
	out, err := s.Run.Run(ctx, "top", "-l", "1", "-n", "0")
	if err != nil {
		return 0, err
	}
	return cpuFromTop(out, "CPU usage")
}

func (s *DarwinSampler) Memory(ctx context.Context) (float64, error) {
	out, err := s.Run.Run(ctx, "sysctl", "-n", "hw.memsize")
	if err != nil {
		return 0, err
	}
	total, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil || total <= 0 {
		return 0, domain.NewProbeError(domain.ErrProbeParse, err, "hw.memsize %q", strings.TrimSpace(string(out)))
	}
	vm, err := s.Run.Run(ctx, "vm_stat")
	if err != nil {
		return 0, err
	}
	free, pageSize, err := freePages(vm)
	if err != nil {
		return 0, err
	}
	return (total - free*pageSize) / total * 100, nil
}

func (s *DarwinSampler) Disk(ctx context.Context) (float64, error) {
	out, err := s.Run.Run(ctx, "df", "-P", "/")
	if err != nil {
		return 0, err
	}
	return diskFromDF(out)
}

// Processes sorts in Go since BSD ps has no --sort.
func (s *DarwinSampler) Processes(ctx context.Context, n int) ([]domain.ProcessSample, error) {
	out, err := s.Run.Run(ctx, "ps", "aux")
	if err != nil {
		return nil, err
	}
	return parsePS(out, n)
}

func (s *DarwinSampler) LoadAverage(ctx context.Context) (float64, error) {
	out, err := s.Run.Run(ctx, "sysctl", "-n", "vm.loadavg")
	if err != nil {
		return 0, err
	}
	return firstFloat(string(out))
}

// freePages returns the "Pages free" count and the page size from vm_stat.
func freePages(out []byte) (pages, pageSize float64, err error) {
	pageSize = darwinPageSize
	if m := pageSizeRe.FindSubmatch(out); m != nil {
		if v, perr := strconv.ParseFloat(string(m[1]), 64); perr == nil {
			pageSize = v
		}
	}
	line, ok := findLine(out, "Pages free")
	if !ok {
		return 0, 0, domain.NewProbeError(domain.ErrProbeParse, nil, "no \"Pages free\" line in vm_stat output")
	}
	_, rest, _ := strings.Cut(line, ":")
	rest = strings.TrimSuffix(strings.TrimSpace(rest), ".")
	pages, perr := strconv.ParseFloat(rest, 64)
	if perr != nil {
		return 0, 0, domain.NewProbeError(domain.ErrProbeParse, perr, "vm_stat free pages %q", rest)
	}
	return pages, pageSize, nil
}
