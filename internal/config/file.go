package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hamed0406/healthmon/internal/domain"
)

// fileConfig mirrors the YAML layout; pointers tell "absent" from zero.
type fileConfig struct {
	Timeout        *float64           `yaml:"timeout"`
	Interval       *float64           `yaml:"interval"`
	Thresholds     map[string]float64 `yaml:"thresholds"`
	Log            *string            `yaml:"log"`
	LogDir         *string            `yaml:"log_dir"`
	Retries        *int               `yaml:"retries"`
	RetryBackoffMS *int               `yaml:"retry_backoff_ms"`
	Top            *int               `yaml:"top"`
	Concurrency    *int               `yaml:"concurrency"`
	Listen         *string            `yaml:"listen"`
	APIKeys        []string           `yaml:"api_keys"`
	Targets        []string           `yaml:"targets"`
}

func (c *Config) applyFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read config: %w", domain.ErrConfiguration, err)
	}
	var f fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: parse config %s: %w", domain.ErrConfiguration, path, err)
	}

	if f.Timeout != nil {
		c.Timeout = Seconds(*f.Timeout)
	}
	if f.Interval != nil {
		c.Interval = Seconds(*f.Interval)
	}
	for k, v := range f.Thresholds {
		c.Thresholds[k] = v
	}
	if f.Log != nil {
		c.ReportLog = *f.Log
	}
	if f.LogDir != nil {
		c.LogDir = *f.LogDir
	}
	if f.Retries != nil {
		c.RetryAttempts = *f.Retries
	}
	if f.RetryBackoffMS != nil {
		c.RetryBackoff = time.Duration(*f.RetryBackoffMS) * time.Millisecond
	}
	if f.Top != nil {
		c.TopN = *f.Top
	}
	if f.Concurrency != nil {
		c.Concurrency = *f.Concurrency
	}
	if f.Listen != nil {
		c.Listen = *f.Listen
	}
	if len(f.APIKeys) > 0 {
		c.APIKeys = f.APIKeys
	}
	c.Targets = append(c.Targets, f.Targets...)
	return nil
}
