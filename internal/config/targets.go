package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/hamed0406/healthmon/internal/domain"
)

// LoadTargets reads one URL per line, skipping blank lines and # comments.
func LoadTargets(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: target file: %w", domain.ErrConfiguration, err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrConfiguration, path, err)
	}
	return out, nil
}

// NormalizeURL adds http:// to a bare host, as curl does.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, "://") {
		return raw
	}
	return "http://" + raw
}

// Endpoints turns raw URLs into endpoint targets in the order given.
// Repeated URLs stay repeated: each one is checked and counted.
func Endpoints(raw []string) []domain.Target {
	out := make([]domain.Target, 0, len(raw))
	for _, r := range raw {
		if u := NormalizeURL(r); u != "" {
			out = append(out, domain.Endpoint(u))
		}
	}
	return out
}
