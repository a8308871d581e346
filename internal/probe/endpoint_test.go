package probe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hamed0406/healthmon/internal/domain"
)

func probeOne(t *testing.T, p *EndpointProber, url string, timeout time.Duration) domain.Measurement {
	t.Helper()
	ms := p.Probe(context.Background(), domain.Endpoint(url), timeout)
	if len(ms) != 1 {
		t.Fatalf("endpoint probe must yield one measurement, got %d", len(ms))
	}
	return ms[0]
}

func TestEndpointProber_StatusOK(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("ok"))
	}))
	defer s.Close()

	m := probeOne(t, NewEndpointProber(), s.URL, 2*time.Second)
	if m.Err != nil {
		t.Fatalf("want no error, got %v", m.Err)
	}
	if m.Raw != "200" || m.Kind != domain.KindHTTPStatus {
		t.Fatalf("want raw 200 http_status, got %q %s", m.Raw, m.Kind)
	}
	if m.TakenAt.IsZero() || !strings.HasPrefix(m.Detail, "latency_ms=") {
		t.Fatalf("want timestamp and latency detail, got %+v", m)
	}
}

func TestEndpointProber_Status503(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", 503)
	}))
	defer s.Close()

	m := probeOne(t, NewEndpointProber(), s.URL, 2*time.Second)
	if m.Err != nil || m.Raw != "503" {
		t.Fatalf("want raw 503 without error, got %q %v", m.Raw, m.Err)
	}
}

func TestEndpointProber_RedirectNotFollowed(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/elsewhere", http.StatusFound)
	}))
	defer s.Close()

	m := probeOne(t, NewEndpointProber(), s.URL, 2*time.Second)
	if m.Raw != "302" {
		t.Fatalf("want 302, got %q", m.Raw)
	}
}

func TestEndpointProber_SelfSignedCertificateAccepted(t *testing.T) {
	s := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(204)
	}))
	defer s.Close()

	m := probeOne(t, NewEndpointProber(), s.URL, 2*time.Second)
	if m.Err != nil || m.Raw != "204" {
		t.Fatalf("want 204 over untrusted TLS, got %q %v", m.Raw, m.Err)
	}
}

func TestEndpointProber_TimeoutSetsSentinel(t *testing.T) {
	release := make(chan struct{})
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer s.Close()
	defer close(release)

	m := probeOne(t, NewEndpointProber(), s.URL, 50*time.Millisecond)
	if !errors.Is(m.Err, domain.ErrProbeTimeout) {
		t.Fatalf("want ErrProbeTimeout, got %v", m.Err)
	}
	if m.Raw != domain.RawTimeout {
		t.Fatalf("want raw TIMEOUT, got %q", m.Raw)
	}
	if m.Err.Error() != "Request timeout after 50ms" {
		t.Fatalf("unexpected message %q", m.Err.Error())
	}
}

func TestEndpointProber_ConnectionRefusedIsDiagnosed(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := s.URL
	s.Close()

	p := NewEndpointProber()
	var asked string
	p.Diagnose = func(_ context.Context, host string) DNSStatus {
		asked = host
		return DNSStatus{Domain: host, Class: DNSNXDomain}
	}

	m := probeOne(t, p, url, time.Second)
	if !errors.Is(m.Err, domain.ErrProbeConnection) {
		t.Fatalf("want ErrProbeConnection, got %v", m.Err)
	}
	if m.Raw != domain.RawUnavailable {
		t.Fatalf("want raw N/A, got %q", m.Raw)
	}
	if asked != "127.0.0.1" {
		t.Fatalf("diagnosis should receive the host, got %q", asked)
	}
	if !strings.Contains(m.Err.Error(), "Unable to connect") || !strings.Contains(m.Err.Error(), "dns=NXDOMAIN") {
		t.Fatalf("unexpected message %q", m.Err.Error())
	}
}

func TestEndpointProber_MalformedURL(t *testing.T) {
	p := NewEndpointProber()
	p.Diagnose = nil
	m := probeOne(t, p, "http://[::1", time.Second)
	if !errors.Is(m.Err, domain.ErrProbeParse) || m.Raw != domain.RawError {
		t.Fatalf("want parse failure with ERROR sentinel, got %q %v", m.Raw, m.Err)
	}
	if !strings.HasPrefix(m.Err.Error(), "Error: ") {
		t.Fatalf("unexpected message %q", m.Err.Error())
	}
}

func TestSeconds(t *testing.T) {
	cases := map[time.Duration]string{
		5 * time.Second:         "5 seconds",
		time.Second:             "1 second",
		1500 * time.Millisecond: "1.5s",
	}
	for in, want := range cases {
		if got := seconds(in); got != want {
			t.Fatalf("seconds(%v)=%q want %q", in, got, want)
		}
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestEndpointProber_DiagnosisStaysWithinHardDeadline(t *testing.T) {
	p := &EndpointProber{
		Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			time.Sleep(100 * time.Millisecond)
			return nil, errors.New("connection reset by peer")
		}),
		Grace: 100 * time.Millisecond,
		Diagnose: func(ctx context.Context, host string) DNSStatus {
			select {
			case <-ctx.Done():
			case <-time.After(5 * time.Second):
			}
			return DNSStatus{Domain: host, Class: DNSNXDomain}
		},
	}

	start := time.Now()
	m := probeOne(t, p, "http://unreachable.example", 200*time.Millisecond)
	elapsed := time.Since(start)

	if elapsed > time.Second {
		t.Fatalf("probe ran %v, want it bounded by timeout+grace (300ms)", elapsed)
	}
	if !errors.Is(m.Err, domain.ErrProbeConnection) || m.Raw != domain.RawUnavailable {
		t.Fatalf("want connection failure with N/A, got %q %v", m.Raw, m.Err)
	}
}
