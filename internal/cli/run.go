package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/healthmon/internal/config"
	"github.com/hamed0406/healthmon/internal/domain"
	"github.com/hamed0406/healthmon/internal/httpapi"
	"github.com/hamed0406/healthmon/internal/logging"
	"github.com/hamed0406/healthmon/internal/probe"
	"github.com/hamed0406/healthmon/internal/report"
	"github.com/hamed0406/healthmon/internal/repo/memory"
	"github.com/hamed0406/healthmon/internal/scheduler"
)

type runMode struct {
	continuous bool
	count      int
}

// loadConfig layers defaults, the config file, .env and environment, then
// the persistent flags the user actually set.
func (a *app) loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := config.LoadDotEnv(a.envFile); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("timeout") {
		cfg.Timeout = config.Seconds(a.timeout)
	}
	if flags.Changed("log") {
		cfg.ReportLog = a.reportLog
	}
	if flags.Changed("log-dir") {
		cfg.LogDir = a.logDir
	}
	if flags.Changed("listen") {
		cfg.Listen = a.listen
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = a.concurrency
	}
	return cfg, nil
}

func (a *app) run(ctx context.Context, cfg config.Config, targets []domain.Target, mode runMode) error {
	if mode.continuous && len(targets) != 1 {
		return fmt.Errorf("%w: continuous mode requires exactly one target, got %d", domain.ErrConfiguration, len(targets))
	}
	pol, err := cfg.Policy()
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.LogDir, a.debug)
	if err != nil {
		fmt.Fprintf(a.stderr, "Warning: structured log disabled: %v\n", err)
		logger = zap.NewNop()
	}
	defer func() { _ = logger.Sync() }()

	var endpoint probe.Prober = a.newEndpoint()
	if cfg.RetryAttempts > 1 {
		endpoint = &probe.RetryProber{Inner: endpoint, Attempts: cfg.RetryAttempts, Backoff: cfg.RetryBackoff}
	}
	probers := probe.NewByKind(endpoint, a.newHost(cfg.TopN))

	var opts []scheduler.Option
	if mode.count > 0 {
		opts = append(opts, scheduler.WithMaxTicks(mode.count))
	}
	sched := scheduler.New(logger, probers, pol, cfg.Timeout, cfg.Concurrency, opts...)

	emitter := &report.Emitter{
		Out:      a.stdout,
		Err:      a.stderr,
		Renderer: report.NewRenderer(a.stdout),
		LogPath:  cfg.ReportLog,
		Logger:   logger,
	}

	if !mode.continuous {
		if cfg.Listen != "" {
			logger.Info("status_server_skipped", zap.String("reason", "one-shot run"))
		}
		r, err := sched.RunOnce(ctx, targets)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Fprintln(a.stdout, "\nCheck interrupted.")
				return nil
			}
			return err
		}
		emitter.Emit(ctx, r)
		return nil
	}

	if cfg.Listen != "" {
		stop, err := a.serveStatus(cfg, logger, emitter)
		if err != nil {
			return err
		}
		defer stop()
	}

	a.banner(cfg, targets[0], pol.String())
	if err := sched.RunContinuous(ctx, targets, cfg.Interval, emitter); err != nil {
		return err
	}
	if ctx.Err() != nil {
		fmt.Fprintln(a.stdout, "\n\nMonitoring stopped by user.")
	}
	return nil
}

func (a *app) banner(cfg config.Config, target domain.Target, thresholds string) {
	if target.Kind == domain.TargetHost {
		fmt.Fprintln(a.stdout, "Starting continuous system health monitoring")
	} else {
		fmt.Fprintf(a.stdout, "Starting continuous monitoring of %s\n", target)
	}
	fmt.Fprintf(a.stdout, "Check interval: %s\n", seconds(cfg.Interval))
	if target.Kind == domain.TargetHost {
		fmt.Fprintf(a.stdout, "Thresholds: %s\n", thresholds)
	}
	if cfg.ReportLog != "" {
		fmt.Fprintf(a.stdout, "Logging to: %s\n", cfg.ReportLog)
	}
	if cfg.Listen != "" {
		fmt.Fprintf(a.stdout, "Status server: http://%s/api/report/latest\n", cfg.Listen)
	}
	fmt.Fprintln(a.stdout, "Press Ctrl+C to stop")
	fmt.Fprintln(a.stdout)
}

// serveStatus starts the status server and hooks it into the emitter.
func (a *app) serveStatus(cfg config.Config, logger *zap.Logger, emitter *report.Emitter) (func(), error) {
	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return nil, fmt.Errorf("%w: listen %s: %w", domain.ErrConfiguration, cfg.Listen, err)
	}
	hub := httpapi.NewHub(logger, nil)
	api := httpapi.NewServer(logger, memory.New(), hub)
	emitter.Publisher = api

	srv := &http.Server{
		Handler:           api.Router(cfg.APIKeys, cfg.RPM, cfg.Burst),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("api_listen", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api_serve_error", zap.Error(err))
		}
	}()

	return func() {
		hub.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("api_shutdown_error", zap.Error(err))
		}
	}, nil
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + " seconds"
}
