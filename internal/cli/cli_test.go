package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hamed0406/healthmon/internal/domain"
	"github.com/hamed0406/healthmon/internal/probe"
)

// fakeHost reports fixed resource figures.
func fakeHost(cpu float64) func(int) probe.Prober {
	return func(int) probe.Prober {
		return probe.ProberFunc(func(_ context.Context, target domain.Target, _ time.Duration) []domain.Measurement {
			now := time.Now()
			return []domain.Measurement{
				{Target: target, Kind: domain.KindCPU, Raw: strconv.FormatFloat(cpu, 'f', 1, 64), Value: cpu, TakenAt: now},
				{Target: target, Kind: domain.KindMemory, Raw: "40.0", Value: 40, TakenAt: now},
				{Target: target, Kind: domain.KindDisk, Raw: "10.0", Value: 10, TakenAt: now},
				{Target: target, Kind: domain.KindProcessSnapshot, Raw: "0", TakenAt: now},
			}
		})
	}
}

func execute(t *testing.T, host func(int) probe.Prober, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := defaultApp(&out, &errOut)
	if host != nil {
		a.newHost = host
	}
	cmd := newRootCmd(a)
	cmd.SetArgs(append(args, "--log-dir", t.TempDir(), "--env-file", filepath.Join(t.TempDir(), "none.env")))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func statusServer(t *testing.T, code int, hits *atomic.Int32) string {
	t.Helper()
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.WriteHeader(code)
	}))
	t.Cleanup(s.Close)
	return s.URL
}

func TestEndpoints_OneShotSummary(t *testing.T) {
	up := statusServer(t, 200, nil)
	down := statusServer(t, 503, nil)

	out, _, err := execute(t, nil, "endpoints", up, down)
	if err != nil {
		t.Fatalf("endpoints: %v", err)
	}
	if !strings.Contains(out, "SUMMARY: 1 UP | 1 DOWN | Total: 2") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "Server error (HTTP 503)") {
		t.Fatalf("missing classification:\n%s", out)
	}
}

func TestEndpoints_ContinuousRejectsTwoURLs(t *testing.T) {
	var hits atomic.Int32
	a := statusServer(t, 200, &hits)
	b := statusServer(t, 200, &hits)

	_, _, err := execute(t, nil, "endpoints", "--continuous", a, b)
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("want ErrConfiguration, got %v", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("no URL should be probed, got %d requests", hits.Load())
	}
}

func TestEndpoints_ContinuousCount(t *testing.T) {
	var hits atomic.Int32
	u := statusServer(t, 200, &hits)

	out, _, err := execute(t, nil, "endpoints", "--continuous", "--interval", "0.01", "--count", "2", u)
	if err != nil {
		t.Fatalf("endpoints: %v", err)
	}
	if hits.Load() != 2 {
		t.Fatalf("want 2 probes, got %d", hits.Load())
	}
	if !strings.Contains(out, "Starting continuous monitoring of "+u) || strings.Count(out, "[✓] "+u) != 2 {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestEndpoints_FromFile(t *testing.T) {
	u := statusServer(t, 204, nil)
	path := filepath.Join(t.TempDir(), "urls.txt")
	if err := os.WriteFile(path, []byte("# staging\n\n"+u+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err := execute(t, nil, "endpoints", "--file", path)
	if err != nil {
		t.Fatalf("endpoints: %v", err)
	}
	if !strings.Contains(out, "SUMMARY: 1 UP | 0 DOWN | Total: 1") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestEndpoints_InputErrors(t *testing.T) {
	if _, _, err := execute(t, nil, "endpoints"); !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("no URLs: want ErrConfiguration, got %v", err)
	}
	missing := filepath.Join(t.TempDir(), "missing.txt")
	if _, _, err := execute(t, nil, "endpoints", "--file", missing); !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("missing file: want ErrConfiguration, got %v", err)
	}
	if _, _, err := execute(t, nil, "endpoints", "--timeout", "0", "https://example.com"); !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("zero timeout: want ErrConfiguration, got %v", err)
	}
}

func TestSystem_ThresholdAlert(t *testing.T) {
	out, _, err := execute(t, fakeHost(75), "system", "--thresholds", "cpu=50")
	if err != nil {
		t.Fatalf("system: %v", err)
	}
	if !strings.Contains(out, "CPU usage is HIGH: 75.0% (threshold: 50%)") {
		t.Fatalf("missing alert:\n%s", out)
	}
}

func TestSystem_BadThresholds(t *testing.T) {
	_, _, err := execute(t, fakeHost(10), "system", "--thresholds", "cpu=high,gpu=3")
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("want ErrConfiguration, got %v", err)
	}
}

func TestSystem_PersistsReport(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "health.log")
	out, _, err := execute(t, fakeHost(10), "system", "--log", logPath)
	if err != nil {
		t.Fatalf("system: %v", err)
	}
	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "No alerts - All metrics within thresholds") || strings.Contains(string(b), "\x1b[") {
		t.Fatalf("unexpected log content:\n%s", b)
	}
	if !strings.Contains(out, "Report logged to: "+logPath) {
		t.Fatalf("missing confirmation:\n%s", out)
	}
}

func TestSystem_UnwritableLogDoesNotFail(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "no", "such", "dir", "health.log")
	out, errOut, err := execute(t, fakeHost(10), "system", "--log", logPath)
	if err != nil {
		t.Fatalf("persist failure must not abort: %v", err)
	}
	if !strings.Contains(out, "SYSTEM HEALTH MONITORING REPORT") || !strings.Contains(errOut, "Error writing to log file") {
		t.Fatalf("unexpected output:\n%s\nstderr:\n%s", out, errOut)
	}
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, nil, "version")
	if err != nil || !strings.Contains(out, "healthmon "+Version) {
		t.Fatalf("unexpected version output %q err=%v", out, err)
	}
}

func TestEndpoints_RepeatedURLCountsTwice(t *testing.T) {
	var hits atomic.Int32
	u := statusServer(t, 200, &hits)

	out, _, err := execute(t, nil, "endpoints", u, u)
	if err != nil {
		t.Fatalf("endpoints: %v", err)
	}
	if !strings.Contains(out, "SUMMARY: 2 UP | 0 DOWN | Total: 2") || hits.Load() != 2 {
		t.Fatalf("want both entries checked, hits=%d output:\n%s", hits.Load(), out)
	}
}

func TestEndpoints_ContinuousRejectsRepeatedURL(t *testing.T) {
	var hits atomic.Int32
	u := statusServer(t, 200, &hits)

	out, _, err := execute(t, nil, "endpoints", "--continuous", "--count", "1", u, u)
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("want ErrConfiguration, got %v", err)
	}
	if hits.Load() != 0 || strings.Contains(out, "Starting continuous") {
		t.Fatalf("nothing may be probed, hits=%d output:\n%s", hits.Load(), out)
	}
}
