package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/hamed0406/healthmon/internal/domain"
	"github.com/hamed0406/healthmon/internal/policy"
)

type Config struct {
	Timeout       time.Duration      // per-probe timeout
	Interval      time.Duration      // pause between continuous ticks
	Thresholds    map[string]float64 // overrides on top of policy defaults
	ReportLog     string             // append-only text report file, empty = off
	LogDir        string             // structured log directory
	RetryAttempts int                // attempts per endpoint probe
	RetryBackoff  time.Duration      // backoff between attempts
	TopN          int                // processes in a host report
	Concurrency   int                // targets probed in parallel
	Listen        string             // status server address, empty = off
	APIKeys       []string           // status server keys, empty = open
	RPM           int                // status server requests per minute per client
	Burst         int
	Targets       []string // from the config file

	problems []error
}

func Default() Config {
	return Config{
		Timeout:       5 * time.Second,
		Interval:      60 * time.Second,
		Thresholds:    map[string]float64{},
		LogDir:        "logs",
		RetryAttempts: 1,
		RetryBackoff:  300 * time.Millisecond,
		TopN:          5,
		Concurrency:   1,
		RPM:           120,
		Burst:         60,
	}
}

// FromEnv returns the defaults overlaid with HEALTHMON_* and the status
// server variables. Unparsable values are kept aside and reported by Validate.
func FromEnv() Config {
	c := Default()
	c.applyEnv()
	return c
}

// Load overlays the YAML file at path (if any) and then the environment.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		if err := c.applyFile(path); err != nil {
			return Config{}, err
		}
	}
	c.applyEnv()
	return c, nil
}

// LoadDotEnv loads variables from the given .env files, skipping missing ones.
// Variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: load %s: %w", domain.ErrConfiguration, p, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	if v, ok := c.seconds("HEALTHMON_TIMEOUT"); ok {
		c.Timeout = v
	}
	if v, ok := c.seconds("HEALTHMON_INTERVAL"); ok {
		c.Interval = v
	}
	if v := os.Getenv("HEALTHMON_THRESHOLDS"); v != "" {
		o, err := policy.ParseOverrides(v)
		if err != nil {
			c.problems = append(c.problems, fmt.Errorf("HEALTHMON_THRESHOLDS: %w", err))
		}
		for k, n := range o {
			c.Thresholds[k] = n
		}
	}
	if v := os.Getenv("HEALTHMON_LOG"); v != "" {
		c.ReportLog = v
	}
	if v := os.Getenv("LOG_DIR"); v != "" {
		c.LogDir = v
	}
	if n, ok := c.integer("RETRY_ATTEMPTS"); ok {
		c.RetryAttempts = n
	}
	if n, ok := c.integer("RETRY_BACKOFF_MS"); ok {
		c.RetryBackoff = time.Duration(n) * time.Millisecond
	}
	if n, ok := c.integer("HEALTHMON_TOP"); ok {
		c.TopN = n
	}
	if n, ok := c.integer("MAX_CONCURRENT_CHECKS"); ok {
		c.Concurrency = n
	}
	if v := os.Getenv("API_ADDR"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("API_KEYS"); v != "" {
		c.APIKeys = splitList(v)
	}
	if n, ok := c.integer("PUBLIC_RPM"); ok {
		c.RPM = n
	}
	if n, ok := c.integer("PUBLIC_BURST"); ok {
		c.Burst = n
	}
}

func (c *Config) integer(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		c.problems = append(c.problems, fmt.Errorf("%w: %s=%q is not an integer", domain.ErrConfiguration, key, v))
		return 0, false
	}
	return n, true
}

func (c *Config) seconds(key string) (time.Duration, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		c.problems = append(c.problems, fmt.Errorf("%w: %s=%q is not a number of seconds", domain.ErrConfiguration, key, v))
		return 0, false
	}
	return Seconds(f), true
}

// Seconds converts a possibly fractional number of seconds.
func Seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}

// Policy builds the threshold policy from the configured overrides.
func (c Config) Policy() (policy.ThresholdPolicy, error) {
	return policy.New(c.Thresholds)
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	errs := multierr.Combine(c.problems...)
	bad := func(format string, args ...any) {
		errs = multierr.Append(errs, fmt.Errorf("%w: "+format, append([]any{domain.ErrConfiguration}, args...)...))
	}
	if c.Timeout <= 0 {
		bad("timeout must be positive, got %s", c.Timeout)
	}
	if c.Interval <= 0 {
		bad("interval must be positive, got %s", c.Interval)
	}
	if c.RetryAttempts < 1 {
		bad("retries must be at least 1, got %d", c.RetryAttempts)
	}
	if c.RetryBackoff < 0 {
		bad("retry backoff must not be negative, got %s", c.RetryBackoff)
	}
	if c.TopN < 1 {
		bad("top must be at least 1, got %d", c.TopN)
	}
	if c.Concurrency < 1 {
		bad("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if _, err := c.Policy(); err != nil {
		errs = multierr.Append(errs, err)
	}
	return errs
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
