// Package policy holds the numeric limits resource measurements are judged against.
package policy

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/hamed0406/healthmon/internal/domain"
)

const DefaultLimit = 80.0

// Metrics lists the keys a ThresholdPolicy understands, in report order.
var Metrics = []string{"cpu", "memory", "disk"}

// ThresholdPolicy maps a metric name to its limit. The zero value is not
// usable; build one with Default, Parse or New. Values are copied in and
// never handed out by reference, so a policy can be shared across ticks.
type ThresholdPolicy struct {
	limits map[string]float64
}

func Default() ThresholdPolicy {
	p := ThresholdPolicy{limits: make(map[string]float64, len(Metrics))}
	for _, m := range Metrics {
		p.limits[m] = DefaultLimit
	}
	return p
}

// New overlays the given limits on the defaults.
func New(overrides map[string]float64) (ThresholdPolicy, error) {
	p := Default()
	var errs error
	for k, v := range overrides {
		key := strings.ToLower(strings.TrimSpace(k))
		if !known(key) {
			errs = multierr.Append(errs, fmt.Errorf("%w: unknown threshold %q", domain.ErrConfiguration, k))
			continue
		}
		if v < 0 {
			errs = multierr.Append(errs, fmt.Errorf("%w: threshold %s must not be negative", domain.ErrConfiguration, key))
			continue
		}
		p.limits[key] = v
	}
	if errs != nil {
		return ThresholdPolicy{}, errs
	}
	return p, nil
}

// Parse reads "cpu=90,memory=85,disk=80". Unspecified keys keep the default.
// All malformed pairs are reported together.
func Parse(s string) (ThresholdPolicy, error) {
	overrides, err := ParseOverrides(s)
	if err != nil {
		return ThresholdPolicy{}, err
	}
	return New(overrides)
}

// ParseOverrides reads "key=value" pairs without checking the keys.
func ParseOverrides(s string) (map[string]float64, error) {
	overrides := map[string]float64{}
	var errs error
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, val, ok := strings.Cut(pair, "=")
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: threshold %q is not key=value", domain.ErrConfiguration, pair))
			continue
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%w: threshold %q: %v", domain.ErrConfiguration, pair, err))
			continue
		}
		overrides[strings.TrimSpace(key)] = n
	}
	if errs != nil {
		return nil, errs
	}
	return overrides, nil
}

// Limit returns the limit for metric and whether it is configured.
func (p ThresholdPolicy) Limit(metric string) (float64, bool) {
	v, ok := p.limits[metric]
	return v, ok
}

// String renders "CPU=80%, Memory=80%, Disk=80%".
func (p ThresholdPolicy) String() string {
	parts := make([]string, 0, len(Metrics))
	for _, m := range Metrics {
		parts = append(parts, fmt.Sprintf("%s=%s%%", Title(m), FormatLimit(p.limits[m])))
	}
	return strings.Join(parts, ", ")
}

// FormatLimit prints whole limits without a fractional part ("80", "80.5").
func FormatLimit(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Title returns the display name of a metric key.
func Title(metric string) string {
	switch metric {
	case "cpu":
		return "CPU"
	case "memory":
		return "Memory"
	case "disk":
		return "Disk"
	}
	return metric
}

func known(key string) bool {
	for _, m := range Metrics {
		if m == key {
			return true
		}
	}
	return false
}
