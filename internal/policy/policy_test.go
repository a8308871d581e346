package policy

import (
	"errors"
	"testing"

	"go.uber.org/multierr"

	"github.com/hamed0406/healthmon/internal/domain"
)

func TestParse_OverlaysDefaults(t *testing.T) {
	p, err := Parse("cpu=50")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v, _ := p.Limit("cpu"); v != 50 {
		t.Fatalf("cpu limit want 50 got %v", v)
	}
	for _, m := range []string{"memory", "disk"} {
		if v, _ := p.Limit(m); v != DefaultLimit {
			t.Fatalf("%s limit want default got %v", m, v)
		}
	}
}

func TestParse_EmptyIsDefault(t *testing.T) {
	p, err := Parse("")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.String() != "CPU=80%, Memory=80%, Disk=80%" {
		t.Fatalf("unexpected default rendering %q", p.String())
	}
}

func TestParse_AllFields(t *testing.T) {
	p, err := Parse(" cpu = 90, memory=85.5 ,disk=70 ")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.String() != "CPU=90%, Memory=85.5%, Disk=70%" {
		t.Fatalf("unexpected rendering %q", p.String())
	}
}

func TestParse_ReportsEveryProblem(t *testing.T) {
	_, err := Parse("cpu,memory=abc,disk=70")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("want ErrConfiguration, got %v", err)
	}
	if n := len(multierr.Errors(err)); n != 2 {
		t.Fatalf("want 2 combined errors, got %d: %v", n, err)
	}
}

func TestNew_RejectsUnknownAndNegative(t *testing.T) {
	_, err := New(map[string]float64{"gpu": 10, "disk": -1})
	if err == nil {
		t.Fatalf("expected error")
	}
	if n := len(multierr.Errors(err)); n != 2 {
		t.Fatalf("want 2 combined errors, got %d: %v", n, err)
	}
}

func TestPolicy_IsIndependentCopy(t *testing.T) {
	in := map[string]float64{"cpu": 60}
	p, err := New(in)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	in["cpu"] = 1
	if v, _ := p.Limit("cpu"); v != 60 {
		t.Fatalf("policy must not alias caller map, got %v", v)
	}
}
