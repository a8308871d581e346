package probe

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/hamed0406/healthmon/internal/domain"
)

// DefaultGrace is how long past the request timeout a stuck call may run
// before it is abandoned and reported as a timeout.
const DefaultGrace = 2 * time.Second

// EndpointProber requests a URL and records only its status code.
//
// Certificate validation is disabled: the question asked is "does it answer",
// not "is it trustworthy", so an expired or self-signed certificate still
// counts as available. Redirects are not followed so 3xx codes are reported.
type EndpointProber struct {
	Transport http.RoundTripper
	Grace     time.Duration
	// Diagnose, when set, is consulted after a connection failure and its
	// class appended to the message.
	Diagnose func(ctx context.Context, host string) DNSStatus
}

func NewEndpointProber() *EndpointProber {
	return &EndpointProber{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			TLSClientConfig:     &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // availability check only
			DisableKeepAlives:   true,
			TLSHandshakeTimeout: 10 * time.Second,
		},
		Grace:    DefaultGrace,
		Diagnose: CheckDNS,
	}
}

func (e *EndpointProber) Probe(ctx context.Context, target domain.Target, timeout time.Duration) []domain.Measurement {
	return []domain.Measurement{e.check(ctx, target, timeout)}
}

func (e *EndpointProber) check(ctx context.Context, target domain.Target, timeout time.Duration) domain.Measurement {
	start := time.Now()
	m := domain.Measurement{Target: target, Kind: domain.KindHTTPStatus, TakenAt: start}

	// Hard stop: the client timeout should fire first, the context only
	// catches calls that ignore it.
	cctx, cancel := context.WithTimeout(ctx, timeout+e.Grace)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, http.MethodGet, target.URL, nil)
	if err != nil {
		m.Raw = domain.RawError
		m.Err = domain.NewProbeError(domain.ErrProbeParse, err, "Error: %v", err)
		return m
	}

	client := &http.Client{
		Transport: e.Transport,
		Timeout:   timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Do(req)
	latency := time.Since(start)
	if err != nil {
		m.Err = e.classifyError(ctx, cctx, target, timeout, err)
		if errors.Is(m.Err, domain.ErrProbeTimeout) {
			m.Raw = domain.RawTimeout
		} else {
			m.Raw = domain.RawUnavailable
		}
		m.Detail = fmt.Sprintf("latency_ms=%.1f", latency.Seconds()*1000)
		return m
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	m.Raw = strconv.Itoa(resp.StatusCode)
	m.Value = float64(resp.StatusCode)
	m.Detail = fmt.Sprintf("latency_ms=%.1f", latency.Seconds()*1000)
	return m
}

// classifyError names the failure. The DNS diagnosis shares cctx, the
// probe's hard deadline, and is skipped once that deadline has passed.
func (e *EndpointProber) classifyError(ctx, cctx context.Context, target domain.Target, timeout time.Duration, err error) error {
	if isTimeout(err) {
		return domain.NewProbeError(domain.ErrProbeTimeout, err, "Request timeout after %s", seconds(timeout))
	}
	if ctx.Err() != nil {
		return domain.NewProbeError(domain.ErrProbeConnection, err, "Check cancelled before a response arrived")
	}
	msg := "Unable to connect or receive response"
	if e.Diagnose != nil && cctx.Err() == nil {
		dns := e.Diagnose(cctx, hostOf(target.URL))
		if dns.Class != DNSResolves && cctx.Err() == nil {
			msg = fmt.Sprintf("%s (dns=%s)", msg, dns.Class)
		}
	}
	return domain.NewProbeError(domain.ErrProbeConnection, err, "%s", msg)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// seconds prints "5 seconds" for whole seconds and the duration otherwise.
func seconds(d time.Duration) string {
	if d%time.Second == 0 {
		n := int(d / time.Second)
		if n == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", n)
	}
	return d.String()
}
