// Package classify turns measurements into verdicts.
package classify

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hamed0406/healthmon/internal/domain"
	"github.com/hamed0406/healthmon/internal/policy"
)

// Classify derives the Verdict for m. The result depends only on the
// measurement's kind, raw value and error, and on p.
func Classify(m domain.Measurement, p policy.ThresholdPolicy) domain.Verdict {
	v := domain.Verdict{
		Target:    m.Target,
		Kind:      m.Kind,
		Code:      m.Raw,
		CheckedAt: m.TakenAt,
	}
	switch m.Kind {
	case domain.KindHTTPStatus:
		classifyHTTP(&v, m)
	case domain.KindCPU, domain.KindMemory, domain.KindDisk:
		classifyResource(&v, m, p)
	case domain.KindProcessSnapshot:
		classifyProcesses(&v, m)
	default:
		panic(fmt.Sprintf("classify: unhandled measurement kind %q", m.Kind))
	}
	return v
}

// All classifies ms in order.
func All(ms []domain.Measurement, p policy.ThresholdPolicy) []domain.Verdict {
	out := make([]domain.Verdict, 0, len(ms))
	for _, m := range ms {
		out = append(out, Classify(m, p))
	}
	return out
}

// Alerts collects the alert lines of vs, keeping their order.
func Alerts(vs []domain.Verdict) []string {
	var out []string
	for _, v := range vs {
		if v.Alert != "" {
			out = append(out, v.Alert)
		}
	}
	return out
}

func classifyHTTP(v *domain.Verdict, m domain.Measurement) {
	if m.Err != nil {
		v.Status = domain.StatusDown
		v.Message = m.Err.Error()
		if v.Code == "" {
			v.Code = domain.RawUnavailable
		}
		return
	}
	code, err := strconv.Atoi(strings.TrimSpace(m.Raw))
	if err != nil {
		v.Status = domain.StatusDown
		v.Code = domain.RawUnavailable
		v.Message = fmt.Sprintf("Unable to connect or receive response (got %q)", m.Raw)
		return
	}
	v.Code = strconv.Itoa(code)
	switch {
	case code >= 200 && code < 300:
		v.Status = domain.StatusUp
		v.Message = "Application is functioning correctly"
	case code >= 300 && code < 400:
		v.Status = domain.StatusUp
		v.Message = "Application is up (redirect)"
	case code >= 400 && code < 500:
		v.Status = domain.StatusDown
		v.Message = fmt.Sprintf("Client error (HTTP %d)", code)
	case code >= 500 && code < 600:
		v.Status = domain.StatusDown
		v.Message = fmt.Sprintf("Server error (HTTP %d)", code)
	default:
		v.Status = domain.StatusUnknown
		v.Message = fmt.Sprintf("Unexpected status code: %d", code)
	}
}

func classifyResource(v *domain.Verdict, m domain.Measurement, p policy.ThresholdPolicy) {
	metric := m.Kind.Metric()
	name := policy.Title(metric)
	if m.Err != nil {
		v.Status = domain.StatusUnknown
		v.Message = fmt.Sprintf("%s usage unavailable: %s", name, m.Err.Error())
		if v.Code == "" {
			v.Code = domain.RawUnavailable
		}
		return
	}

	v.Status = domain.StatusUp
	v.Code = fmt.Sprintf("%.1f", m.Value)
	v.Estimated = m.LowConfidence
	v.Message = fmt.Sprintf("%s usage %.1f%%", name, m.Value)
	if m.LowConfidence {
		v.Message += " (estimated from load average)"
	}

	limit, ok := p.Limit(metric)
	if !ok {
		panic(fmt.Sprintf("classify: policy has no limit for %q", metric))
	}
	if m.Value > limit {
		v.Alert = fmt.Sprintf("%s usage is HIGH: %.1f%% (threshold: %s%%)", name, m.Value, policy.FormatLimit(limit))
	}
}

func classifyProcesses(v *domain.Verdict, m domain.Measurement) {
	if m.Err != nil {
		v.Status = domain.StatusUnknown
		v.Message = "Process listing unavailable: " + m.Err.Error()
		if v.Code == "" {
			v.Code = domain.RawUnavailable
		}
		return
	}
	v.Status = domain.StatusUp
	v.Code = strconv.Itoa(len(m.Processes))
	v.Message = fmt.Sprintf("%d processes sampled", len(m.Processes))
}
