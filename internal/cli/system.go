package cli

import (
	"github.com/spf13/cobra"

	"github.com/hamed0406/healthmon/internal/config"
	"github.com/hamed0406/healthmon/internal/domain"
	"github.com/hamed0406/healthmon/internal/policy"
)

type systemFlags struct {
	continuous bool
	interval   float64
	thresholds string
	top        int
	count      int
}

func newSystemCmd(a *app) *cobra.Command {
	var f systemFlags
	cmd := &cobra.Command{
		Use:     "system",
		Aliases: []string{"host"},
		Short:   "Report CPU, memory and disk usage and the busiest processes",
		Example: `  healthmon system
  healthmon system --continuous --interval 60
  healthmon system --thresholds cpu=90,memory=85,disk=80
  healthmon system --continuous --interval 300 --log health.log`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("interval") {
				cfg.Interval = config.Seconds(f.interval)
			}
			if flags.Changed("top") {
				cfg.TopN = f.top
			}
			if flags.Changed("thresholds") {
				o, err := policy.ParseOverrides(f.thresholds)
				if err != nil {
					return err
				}
				for k, v := range o {
					cfg.Thresholds[k] = v
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return a.run(cmd.Context(), cfg, []domain.Target{domain.LocalHost()},
				runMode{continuous: f.continuous, count: f.count})
		},
	}
	fl := cmd.Flags()
	fl.BoolVarP(&f.continuous, "continuous", "c", false, "monitor continuously")
	fl.Float64VarP(&f.interval, "interval", "i", 60, "seconds between checks in continuous mode")
	fl.StringVar(&f.thresholds, "thresholds", "", "alert limits, e.g. cpu=80,memory=80,disk=80")
	fl.IntVar(&f.top, "top", 5, "number of top CPU-consuming processes to list")
	fl.IntVar(&f.count, "count", 0, "stop continuous mode after this many checks (0 = until interrupted)")
	return cmd
}
