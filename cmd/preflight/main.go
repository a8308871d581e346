// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/hamed0406/healthmon/internal/config"
)

// samplerTools lists the commands the host probe shells out to per platform.
var samplerTools = map[string][]string{
	"linux":  {"top", "df", "ps"},
	"darwin": {"top", "df", "ps", "sysctl", "vm_stat"},
}

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	if err := config.LoadDotEnv(".env"); err != nil {
		fail(err.Error())
	}
	cfg, err := config.Load(strings.TrimSpace(os.Getenv("HEALTHMON_CONFIG")))
	if err != nil {
		fail(err.Error())
	}
	if err := cfg.Validate(); err != nil {
		fail("configuration: " + err.Error())
	}
	ok(fmt.Sprintf("config valid (timeout=%s interval=%s)", cfg.Timeout, cfg.Interval))

	tools, known := samplerTools[runtime.GOOS]
	if !known {
		warn("host metrics are not supported on " + runtime.GOOS + "; system reports will show N/A.")
	}
	for _, t := range tools {
		if _, err := exec.LookPath(t); err != nil {
			warn(t + " not found in PATH; the matching host metric will show N/A.")
		} else {
			ok(t + " available")
		}
	}
	if runtime.GOOS == "linux" {
		if _, err := os.Stat("/proc/meminfo"); err != nil {
			warn("/proc/meminfo unreadable; memory usage will show N/A.")
		}
	}

	if cfg.Listen == "" {
		warn("API_ADDR is empty; the status server stays off unless --listen is given.")
	} else {
		ok("API_ADDR=" + cfg.Listen)
	}

	keys := strings.TrimSpace(os.Getenv("API_KEYS"))
	if strings.Contains(keys, " ") {
		warn("API_KEYS contains spaces; use comma-separated with no spaces, e.g. key1,key2")
	}
	if cfg.Listen != "" && len(cfg.APIKeys) == 0 {
		warn("API_KEYS empty; the status server will answer without authentication.")
	}

	if cfg.ReportLog == "" {
		warn("HEALTHMON_LOG empty; reports are printed but not appended to a file.")
	} else {
		ok("HEALTHMON_LOG=" + cfg.ReportLog)
	}

	ok("preflight passed")
}
