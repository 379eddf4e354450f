package daemon

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jmylchreest/spicd/internal/config"
	"github.com/jmylchreest/spicd/internal/device"
	"github.com/jmylchreest/spicd/internal/lock"
)

// PowerDevice is an open SPIC channel.
type PowerDevice interface {
	PowerChannel
	io.Closer
}

// FrequencyDevice is an open CPU frequency channel.
type FrequencyDevice interface {
	FrequencySetter
	io.Closer
}

// Daemon runs the Watcher under the single-instance lock.
type Daemon struct {
	cfg    config.Config
	lock   *lock.PIDFile
	logger *slog.Logger
	pid    int

	openPower func(path string) (PowerDevice, error)
	openFreq  func(path string) (FrequencyDevice, error)

	pollInterval time.Duration
}

// New creates a Daemon for the resolved configuration.
func New(cfg config.Config, logger *slog.Logger) *Daemon {
	if logger == nil {
		logger = slog.Default()
	}
	return &Daemon{
		cfg:          cfg,
		lock:         lock.New(cfg.Paths.PIDFile),
		logger:       logger,
		pid:          os.Getpid(),
		openPower:    openSPIC,
		openFreq:     openCPUFreq,
		pollInterval: PollInterval,
	}
}

// Run records the pid, acquires the device channels and polls until ctx
// is cancelled. The pid file is removed before Run returns, whatever the
// outcome.
func (d *Daemon) Run(ctx context.Context) error {
	if err := d.lock.Acquire(d.pid); err != nil {
		return StartupError("acquire pid file", err)
	}
	defer func() {
		if err := d.lock.Release(); err != nil {
			d.logger.Warn("failed to remove pid file", "path", d.lock.Path(), "error", err)
		}
	}()

	d.logger.Info("daemon starting", "pid", d.pid)

	power, err := d.openPower(d.cfg.Paths.SPICDevice)
	if err != nil {
		d.logger.Error("failed to open sonypi device", "path", d.cfg.Paths.SPICDevice, "error", err)
		return StartupError("open sonypi device", err)
	}
	defer func() { _ = power.Close() }()

	if d.cfg.Debug {
		if br, ok := power.(interface{ Brightness() (uint8, error) }); ok {
			if v, err := br.Brightness(); err == nil {
				d.logger.Debug("current LCD brightness", "brightness", v)
			}
		}
	}

	freq := d.openFrequency()
	if freq != nil {
		defer func() { _ = freq.Close() }()
	}

	w, err := NewWatcher(power, freq, d.cfg, d.logger)
	if err != nil {
		return StartupError("create watcher", err)
	}
	w.pollInterval = d.pollInterval

	if err := w.Run(ctx); err != nil {
		d.logger.Error("device i/o failed, exiting", "error", err)
		return err
	}

	s := w.Session()
	d.logger.Info("exiting", "transitions", s.Transitions,
		"uptime", time.Since(s.StartedAt).Round(time.Second))
	return nil
}

// openFrequency opens the optional frequency channel. It returns nil when
// the channel is disabled or unavailable.
func (d *Daemon) openFrequency() FrequencyDevice {
	if d.cfg.DisableCPUFreq {
		d.logger.Debug("cpufreq support disabled")
		return nil
	}

	freq, err := d.openFreq(d.cfg.Paths.CPUFreqDevice)
	if err != nil {
		d.logger.Debug("cpufreq is not supported", "path", d.cfg.Paths.CPUFreqDevice, "error", err)
		return nil
	}
	return freq
}

func openSPIC(path string) (PowerDevice, error) {
	s, err := device.OpenSPIC(path)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func openCPUFreq(path string) (FrequencyDevice, error) {
	c, err := device.OpenCPUFreq(path)
	if err != nil {
		return nil, err
	}
	return c, nil
}
