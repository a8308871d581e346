package probe

import (
	"bufio"
	"bytes"
	"sort"
	"strconv"
	"strings"

	"github.com/hamed0406/healthmon/internal/domain"
)

const maxCommandLen = 50

// parsePS reads `ps aux` output and returns the n busiest processes, highest
// CPU first. Rows that do not have the usual eleven columns are skipped.
func parsePS(out []byte, n int) ([]domain.ProcessSample, error) {
	var ps []domain.ProcessSample
	sc := bufio.NewScanner(bytes.NewReader(out))
	header := false
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if !header && fields[0] == "USER" {
			header = true
			continue
		}
		if len(fields) < 11 {
			continue
		}
		pid, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		cpu, err1 := strconv.ParseFloat(fields[2], 64)
		mem, err2 := strconv.ParseFloat(fields[3], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		ps = append(ps, domain.ProcessSample{
			User:    fields[0],
			PID:     pid,
			CPU:     cpu,
			Mem:     mem,
			Command: truncate(strings.Join(fields[10:], " "), maxCommandLen),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, domain.NewProbeError(domain.ErrProbeParse, err, "read process list: %v", err)
	}
	if !header && len(ps) == 0 && len(bytes.TrimSpace(out)) > 0 {
		return nil, domain.NewProbeError(domain.ErrProbeParse, nil, "process list not understood")
	}

	sort.SliceStable(ps, func(i, j int) bool { return ps[i].CPU > ps[j].CPU })
	if n > 0 && len(ps) > n {
		ps = ps[:n]
	}
	return ps, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
