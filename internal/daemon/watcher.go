package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmylchreest/spicd/internal/config"
)

// PollInterval is the fixed delay between poll cycles.
const PollInterval = 2 * time.Second

// PowerChannel reads the AC state and sets the LCD brightness.
type PowerChannel interface {
	ACPresent() (bool, error)
	SetBrightness(v uint8) error
}

// FrequencySetter requests a CPU speed in kHz.
type FrequencySetter interface {
	SetFrequency(khz uint64) error
}

// Watcher is the poll loop. It owns both device channels for its lifetime
// and is driven from a single goroutine.
type Watcher struct {
	logger *slog.Logger

	power PowerChannel
	// freq is nil when frequency adjustment is disabled
	freq FrequencySetter
	cfg  config.Config

	session      Session
	pollInterval time.Duration
}

// NewWatcher creates a Watcher. freq may be nil to adjust brightness only.
func NewWatcher(power PowerChannel, freq FrequencySetter, cfg config.Config, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	session, err := NewSession()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		logger:       logger.With("session", session.ID.String()),
		power:        power,
		freq:         freq,
		cfg:          cfg,
		session:      session,
		pollInterval: PollInterval,
	}, nil
}

// Session returns the session state.
func (w *Watcher) Session() Session {
	return w.session
}

// Run polls until ctx is cancelled or a device operation fails. Each wait
// starts when the previous cycle has finished.
// Cancellation returns nil; device failures return a runtime *Error.
func (w *Watcher) Run(ctx context.Context) error {
	wait := time.NewTimer(w.pollInterval)
	defer wait.Stop()

	w.logger.Debug("poll loop started", "interval", w.pollInterval, "cpufreq", w.freq != nil)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := w.Poll(); err != nil {
			return err
		}
		wait.Reset(w.pollInterval)

		select {
		case <-ctx.Done():
			return nil
		case <-wait.C:
		}
	}
}

// Poll runs one cycle: read the AC state and, if it changed since the
// previous cycle, apply the settings for the new power source. The first
// cycle only records the state.
func (w *Watcher) Poll() error {
	ac, err := w.power.ACPresent()
	if err != nil {
		return RuntimeError("read battery flags", err)
	}

	if w.session.First {
		w.session.First = false
		w.session.Last = ac
		w.logger.Debug("initial power source", "source", powerSource(ac))
		return nil
	}
	if ac == w.session.Last {
		return nil
	}
	w.session.Last = ac
	w.session.Transitions++

	return w.apply(ac)
}

// apply writes the brightness and frequency selected for the power source.
func (w *Watcher) apply(ac bool) error {
	brightness := w.cfg.Brightness(ac)
	freq := w.cfg.Frequency(ac)

	w.logger.Info("power source changed", "source", powerSource(ac), "transitions", w.session.Transitions)
	w.logger.Debug("setting LCD brightness", "brightness", brightness)

	if err := w.power.SetBrightness(brightness); err != nil {
		return RuntimeError("set brightness", err)
	}

	if w.freq == nil {
		return nil
	}

	w.logger.Debug("setting CPU speed", "khz", freq, "speed", config.FormatFrequency(freq))
	if err := w.freq.SetFrequency(freq); err != nil {
		return RuntimeError("set cpu frequency", err)
	}
	return nil
}
