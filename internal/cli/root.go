// Package cli wires configuration, probers, the scheduler and the reporter
// behind the healthmon command tree.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/hamed0406/healthmon/internal/probe"
)

// app holds the process-wide writers and the prober constructors, which
// tests replace with fakes.
type app struct {
	stdout, stderr io.Writer
	newEndpoint    func() probe.Prober
	newHost        func(topN int) probe.Prober

	// persistent flags
	configPath  string
	envFile     string
	timeout     float64
	reportLog   string
	logDir      string
	debug       bool
	listen      string
	concurrency int
}

func defaultApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout:      stdout,
		stderr:      stderr,
		newEndpoint: func() probe.Prober { return probe.NewEndpointProber() },
		newHost:     func(topN int) probe.Prober { return probe.NewResourceProber(topN) },
	}
}

// Execute runs the command tree; ctx is cancelled on SIGINT/SIGTERM.
func Execute(ctx context.Context, stdout, stderr io.Writer) error {
	return newRootCmd(defaultApp(stdout, stderr)).ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "healthmon",
		Short: "Check application endpoints and local host resources",
		Long: `healthmon probes HTTP endpoints and the local host's CPU, memory and disk,
classifies each sample and prints a report, once or on an interval.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file")
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	pf.Float64VarP(&a.timeout, "timeout", "t", 5, "probe timeout in seconds")
	pf.StringVarP(&a.reportLog, "log", "l", "", "append each report (without colors) to this file")
	pf.StringVar(&a.logDir, "log-dir", "logs", "directory for the structured JSON log")
	pf.BoolVar(&a.debug, "debug", false, "log every measurement")
	pf.StringVar(&a.listen, "listen", "", "serve the latest report on this address in continuous mode (e.g. 127.0.0.1:8080)")
	pf.IntVar(&a.concurrency, "concurrency", 1, "targets probed in parallel")

	root.AddCommand(newEndpointsCmd(a), newSystemCmd(a), newVersionCmd(a))
	return root
}
