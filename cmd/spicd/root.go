// Package main provides the spicd power management daemon for Sony VAIO
// notebooks.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/spicd/internal/config"
	"github.com/jmylchreest/spicd/internal/daemon"
	"github.com/jmylchreest/spicd/internal/lock"
	"github.com/jmylchreest/spicd/internal/logging"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// errVersionShown ends the run after -V with a failure status.
var errVersionShown = errors.New("version shown")

// options holds the raw command-line values.
type options struct {
	debug          bool
	acBrightness   config.Number
	dcBrightness   config.Number
	acFrequency    config.Number
	dcFrequency    config.Number
	disableCPUFreq bool
	foreground     bool
	showVersion    bool
	help           bool
	paths          config.Paths
}

// app carries the options and outcome of one invocation.
type app struct {
	opts      options
	helpShown bool
}

// run executes spicd with args and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	a := &app{opts: options{
		acBrightness: config.NewNumber(config.DefaultACBrightness),
		dcBrightness: config.NewNumber(config.DefaultDCBrightness),
	}}
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err != nil {
		if !errors.Is(err, errVersionShown) {
			fmt.Fprintf(stderr, "spicd: %v\n", err)
		}
		return daemon.ExitCode(err)
	}
	if a.helpShown {
		return daemon.ExitStartup
	}
	return daemon.ExitOK
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spicd [OPTIONS]",
		Short: "Simple power management for Sony VAIO notebooks",
		Long: `spicd watches the AC adapter through the sonypi device and, when the
power source changes, sets the LCD brightness and the CPU speed to the
values configured for that source.

By default spicd detaches from the terminal and logs to syslog. Use
--foreground when running under a service manager.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.opts.showVersion {
				fmt.Fprintf(cmd.ErrOrStderr(), "spicd %s (commit: %s, built: %s)\n", version, commit, buildTime)
				return errVersionShown
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDaemon(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&a.opts.debug, "debug", "d", false,
		"debug mode")
	flags.VarP(&a.opts.dcBrightness, "dc-brightness", "D",
		"LCD brightness value without AC adaptor (0..255)")
	flags.VarP(&a.opts.acBrightness, "ac-brightness", "A",
		"LCD brightness value with AC adaptor (0..255)")
	flags.BoolVarP(&a.opts.disableCPUFreq, "disable-cpufreq", "C", false,
		"disable CPU frequency support")
	flags.VarP(&a.opts.dcFrequency, "dc-frequency", "m",
		"CPU frequency without AC adaptor (default: platform minimum)")
	flags.VarP(&a.opts.acFrequency, "ac-frequency", "M",
		"CPU frequency with AC adaptor (default: platform maximum)")
	flags.BoolVarP(&a.opts.foreground, "foreground", "F", false,
		"stay attached to the terminal and log to stderr")
	flags.BoolVarP(&a.opts.showVersion, "version", "V", false,
		"print version information")
	flags.BoolVarP(&a.opts.help, "help", "?", false,
		"print this usage")

	defaults := config.DefaultPaths()
	flags.StringVar(&a.opts.paths.SPICDevice, "spic-device", defaults.SPICDevice, "sonypi device")
	flags.StringVar(&a.opts.paths.CPUFreqDevice, "cpufreq-device", defaults.CPUFreqDevice, "CPU speed control file")
	flags.StringVar(&a.opts.paths.CPUFreqMin, "cpufreq-min", defaults.CPUFreqMin, "CPU minimum speed file")
	flags.StringVar(&a.opts.paths.CPUFreqMax, "cpufreq-max", defaults.CPUFreqMax, "CPU maximum speed file")
	flags.StringVar(&a.opts.paths.PIDFile, "pid-file", defaults.PIDFile, "pid file")
	for _, name := range []string{"spic-device", "cpufreq-device", "cpufreq-min", "cpufreq-max", "pid-file"} {
		_ = flags.MarkHidden(name)
	}

	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		w := c.ErrOrStderr()
		if c.Long != "" {
			fmt.Fprintf(w, "%s\n\n", c.Long)
		}
		fmt.Fprint(w, c.UsageString())
		a.helpShown = true
	})
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		fmt.Fprint(c.ErrOrStderr(), c.UsageString())
		return err
	})

	cmd.AddCommand(a.showConfigCmd())
	return cmd
}

// resolveConfig reads the platform bounds and builds the resolved
// configuration from the flags that were set.
func (a *app) resolveConfig(cmd *cobra.Command, logger *slog.Logger) (config.Config, config.Bounds) {
	bounds := config.ReadBounds(a.opts.paths.CPUFreqMin, a.opts.paths.CPUFreqMax, logger)

	cfg := config.Default(bounds)
	cfg.Paths = a.opts.paths
	cfg.Debug = a.opts.debug
	cfg.DisableCPUFreq = a.opts.disableCPUFreq
	cfg.Foreground = a.opts.foreground

	opts := config.Options{
		ACBrightness: &a.opts.acBrightness,
		DCBrightness: &a.opts.dcBrightness,
	}
	flags := cmd.Flags()
	if flags.Changed("ac-frequency") {
		opts.ACFrequency = &a.opts.acFrequency
	}
	if flags.Changed("dc-frequency") {
		opts.DCFrequency = &a.opts.dcFrequency
	}

	return config.Resolve(opts.Apply(cfg, logger), bounds, logger), bounds
}

// runDaemon performs the startup checks, detaches unless running in the
// foreground and runs the poll loop until a termination signal arrives.
func (a *app) runDaemon(cmd *cobra.Command) error {
	logger := logging.NewText(cmd.ErrOrStderr(), a.opts.debug)

	cfg, bounds := a.resolveConfig(cmd, logger)
	if bounds.Zero() && !cfg.DisableCPUFreq {
		logger.Warn("CPU frequency bounds unavailable, frequency values clamp to zero",
			"min", bounds.Min, "max", bounds.Max)
	}

	if err := lock.New(cfg.Paths.PIDFile).Check(); err != nil {
		return daemon.StartupError("check pid file", err)
	}

	if os.Getuid() != 0 {
		return daemon.StartupError("check privileges", errors.New("must be run as root"))
	}

	if !cfg.Foreground && !isDetached() {
		pid, err := detach()
		if err != nil {
			return daemon.StartupError("detach", err)
		}
		logger.Debug("daemon detached", "pid", pid)
		return nil
	}

	if isDetached() {
		enterBackground()
		syslogger, closer, err := logging.NewSyslog(cfg.Debug)
		if err != nil {
			logger.Warn("syslog unavailable, logging to stderr", "error", err)
		} else {
			defer func() { _ = closer.Close() }()
			logger = syslogger
		}
	}
	slog.SetDefault(logger)

	ctx, stop := daemon.ShutdownContext()
	defer stop()

	return daemon.New(cfg, logger).Run(ctx)
}
