package domain

import "time"

// Report is everything one scheduling tick produced.
type Report struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Verdicts  []Verdict       `json:"verdicts"`
	Processes []ProcessSample `json:"processes,omitempty"`
	Alerts    []string        `json:"alerts,omitempty"`
}

type Summary struct {
	Up, Down, Unknown, Total int
}

// Summary counts endpoint verdicts only; resource verdicts report alerts instead.
func (r Report) Summary() Summary {
	var s Summary
	for _, v := range r.Verdicts {
		if v.Kind != KindHTTPStatus {
			continue
		}
		s.Total++
		switch v.Status {
		case StatusUp:
			s.Up++
		case StatusDown:
			s.Down++
		default:
			s.Unknown++
		}
	}
	return s
}

// Endpoints returns the endpoint verdicts in report order.
func (r Report) Endpoints() []Verdict {
	return r.filter(func(v Verdict) bool { return v.Kind == KindHTTPStatus })
}

// Resources returns the cpu/memory/disk verdicts in report order.
func (r Report) Resources() []Verdict {
	return r.filter(func(v Verdict) bool { return v.Kind.Metric() != "" })
}

// HasHost reports whether the local host was sampled in this tick.
func (r Report) HasHost() bool {
	for _, v := range r.Verdicts {
		if v.Target.Kind == TargetHost {
			return true
		}
	}
	return false
}

func (r Report) filter(keep func(Verdict) bool) []Verdict {
	var out []Verdict
	for _, v := range r.Verdicts {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
