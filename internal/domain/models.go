package domain

import (
	"encoding/json"
	"time"
)

type TargetKind string

const (
	TargetEndpoint TargetKind = "endpoint"
	TargetHost     TargetKind = "host"
)

// Target is either a URL to request or the local host marker.
type Target struct {
	Kind TargetKind `json:"kind"`
	URL  string     `json:"url,omitempty"`
}

func Endpoint(url string) Target { return Target{Kind: TargetEndpoint, URL: url} }

func LocalHost() Target { return Target{Kind: TargetHost} }

func (t Target) String() string {
	if t.Kind == TargetHost {
		return "localhost"
	}
	return t.URL
}

// Kind discriminates what a Measurement holds.
type Kind string

const (
	KindHTTPStatus      Kind = "http_status"
	KindCPU             Kind = "cpu_pct"
	KindMemory          Kind = "memory_pct"
	KindDisk            Kind = "disk_pct"
	KindProcessSnapshot Kind = "process_snapshot"
)

// Metric returns the threshold key for resource kinds ("" otherwise).
func (k Kind) Metric() string {
	switch k {
	case KindCPU:
		return "cpu"
	case KindMemory:
		return "memory"
	case KindDisk:
		return "disk"
	}
	return ""
}

// Raw value sentinels for failed measurements.
const (
	RawTimeout     = "TIMEOUT"
	RawUnavailable = "N/A"
	RawError       = "ERROR"
)

// Measurement is the typed result of one probe invocation. It is created
// fresh for each invocation and never modified afterwards.
type Measurement struct {
	Target    Target
	Kind      Kind
	Raw       string
	Value     float64
	Processes []ProcessSample
	Err       error
	// LowConfidence marks a degraded estimate (e.g. CPU derived from load average).
	LowConfidence bool
	// Detail carries extra diagnostic text (latency, DNS class, retries).
	Detail  string
	TakenAt time.Time
}

func (m Measurement) Failed() bool { return m.Err != nil }

type Status int8

const (
	StatusUnknown Status = iota
	StatusUp
	StatusDown
)

func (s Status) String() string {
	switch s {
	case StatusUp:
		return "UP"
	case StatusDown:
		return "DOWN"
	default:
		return "UNKNOWN"
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v {
	case "UP":
		*s = StatusUp
	case "DOWN":
		*s = StatusDown
	default:
		*s = StatusUnknown
	}
	return nil
}

// Verdict is a classified Measurement.
type Verdict struct {
	Target    Target    `json:"target"`
	Kind      Kind      `json:"kind"`
	Status    Status    `json:"status"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Alert     string    `json:"alert,omitempty"`
	Estimated bool      `json:"estimated,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// ProcessSample is one row of a top-N process listing.
type ProcessSample struct {
	User    string  `json:"user"`
	PID     int     `json:"pid"`
	CPU     float64 `json:"cpu_pct"`
	Mem     float64 `json:"mem_pct"`
	Command string  `json:"command"`
}
