package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hamed0406/healthmon/internal/config"
	"github.com/hamed0406/healthmon/internal/domain"
)

type endpointFlags struct {
	file         string
	continuous   bool
	interval     float64
	retries      int
	retryBackoff time.Duration
	withHost     bool
	count        int
}

func newEndpointsCmd(a *app) *cobra.Command {
	var f endpointFlags
	cmd := &cobra.Command{
		Use:     "endpoints [url...]",
		Aliases: []string{"app", "urls"},
		Short:   "Check whether applications answer with a healthy HTTP status",
		Example: `  healthmon endpoints https://example.com
  healthmon endpoints https://example.com https://google.com
  healthmon endpoints --file urls.txt
  healthmon endpoints --continuous --interval 30 https://example.com
  healthmon endpoints --timeout 10 https://slow-server.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("interval") {
				cfg.Interval = config.Seconds(f.interval)
			}
			if flags.Changed("retries") {
				cfg.RetryAttempts = f.retries
			}
			if flags.Changed("retry-backoff") {
				cfg.RetryBackoff = f.retryBackoff
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			raw := args
			if f.file != "" {
				if raw, err = config.LoadTargets(f.file); err != nil {
					return err
				}
			} else if len(raw) == 0 {
				raw = cfg.Targets
			}
			targets := config.Endpoints(raw)
			if len(targets) == 0 {
				return fmt.Errorf("%w: no URLs provided", domain.ErrConfiguration)
			}
			if f.withHost {
				targets = append(targets, domain.LocalHost())
			}
			return a.run(cmd.Context(), cfg, targets, runMode{continuous: f.continuous, count: f.count})
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.file, "file", "f", "", "file containing URLs (one per line, # for comments)")
	fl.BoolVarP(&f.continuous, "continuous", "c", false, "monitor continuously (requires a single URL)")
	fl.Float64VarP(&f.interval, "interval", "i", 60, "seconds between checks in continuous mode")
	fl.IntVar(&f.retries, "retries", 1, "attempts per URL before it is reported down")
	fl.DurationVar(&f.retryBackoff, "retry-backoff", 300*time.Millisecond, "pause between attempts")
	fl.BoolVar(&f.withHost, "with-host", false, "also sample local host resources in the same report")
	fl.IntVar(&f.count, "count", 0, "stop continuous mode after this many checks (0 = until interrupted)")
	return cmd
}
