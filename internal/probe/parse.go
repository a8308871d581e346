package probe

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/hamed0406/healthmon/internal/domain"
)

// cpuFromTop finds the summary line starting with marker in top output and
// returns 100 minus the idle share, or the user share if no idle is printed.
// Both "3.1 us, 95.5 id" (procps) and "3.57% user, 89.28% idle" (macOS)
// layouts are understood.
func cpuFromTop(out []byte, marker string) (float64, error) {
	line, ok := findLine(out, marker)
	if !ok {
		return 0, domain.NewProbeError(domain.ErrProbeParse, nil, "no %q line in top output", marker)
	}
	_, rest, ok := strings.Cut(line, ":")
	if !ok {
		return 0, domain.NewProbeError(domain.ErrProbeParse, nil, "malformed top line %q", line)
	}
	shares := map[string]float64{}
	for _, part := range strings.Split(rest, ",") {
		f := strings.Fields(strings.ReplaceAll(part, "%", " "))
		if len(f) != 2 {
			continue
		}
		v, err := strconv.ParseFloat(f[0], 64)
		if err != nil {
			continue
		}
		shares[f[1]] = v
	}
	for _, k := range []string{"id", "idle"} {
		if v, ok := shares[k]; ok {
			return 100 - v, nil
		}
	}
	for _, k := range []string{"us", "user"} {
		if v, ok := shares[k]; ok {
			return v, nil
		}
	}
	return 0, domain.NewProbeError(domain.ErrProbeParse, nil, "no cpu shares in %q", line)
}

// diskFromDF returns the Capacity/Use% column of `df -P` for the first filesystem row.
func diskFromDF(out []byte) (float64, error) {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) < 2 {
		return 0, domain.NewProbeError(domain.ErrProbeParse, nil, "df printed no filesystem row")
	}
	f := strings.Fields(lines[1])
	if len(f) < 5 {
		return 0, domain.NewProbeError(domain.ErrProbeParse, nil, "malformed df row %q", lines[1])
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(f[4], "%"), 64)
	if err != nil {
		return 0, domain.NewProbeError(domain.ErrProbeParse, err, "df use column %q", f[4])
	}
	return v, nil
}

// firstFloat parses the first whitespace separated number in s, skipping
// braces as printed by `sysctl -n vm.loadavg`.
func firstFloat(s string) (float64, error) {
	for _, f := range strings.Fields(strings.Trim(strings.TrimSpace(s), "{}")) {
		if v, err := strconv.ParseFloat(f, 64); err == nil {
			return v, nil
		}
	}
	return 0, domain.NewProbeError(domain.ErrProbeParse, nil, "no number in %q", strings.TrimSpace(s))
}

func findLine(out []byte, marker string) (string, bool) {
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		if strings.Contains(sc.Text(), marker) {
			return sc.Text(), true
		}
	}
	return "", false
}
