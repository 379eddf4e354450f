package daemon

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jmylchreest/spicd/internal/config"
)

var errDevice = errors.New("input/output error")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default(config.Bounds{Min: 300000, Max: 1200000})
	cfg.ACBrightness = 200
	cfg.DCBrightness = 30
	cfg.Paths.PIDFile = filepath.Join(t.TempDir(), "spicd.pid")
	cfg.Paths.SPICDevice = "/dev/sonypi-test"
	cfg.Paths.CPUFreqDevice = "/proc/sys/cpu/0/speed-test"
	return cfg
}

// fakePower replays a sequence of AC readings. Once the sequence is
// exhausted the last value repeats.
type fakePower struct {
	mu       sync.Mutex
	readings []bool
	reads    int
	writes   []uint8
	closed   bool

	readErrAt int // 1-based read that fails; 0 never
	writeErr  error
	onRead    func(n int)
}

func newFakePower(readings ...bool) *fakePower {
	return &fakePower{readings: readings}
}

func (f *fakePower) ACPresent() (bool, error) {
	f.mu.Lock()
	f.reads++
	n := f.reads
	hook := f.onRead
	var v bool
	if len(f.readings) > 0 {
		v = f.readings[min(n, len(f.readings))-1]
	}
	fail := f.readErrAt != 0 && n >= f.readErrAt
	f.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	if fail {
		return false, errDevice
	}
	return v, nil
}

func (f *fakePower) SetBrightness(v uint8) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, v)
	return nil
}

func (f *fakePower) Brightness() (uint8, error) {
	return 128, nil
}

func (f *fakePower) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakePower) brightnessWrites() []uint8 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint8(nil), f.writes...)
}

type fakeFreq struct {
	mu     sync.Mutex
	writes []uint64
	err    error
	closed bool
}

func (f *fakeFreq) SetFrequency(khz uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, khz)
	return nil
}

func (f *fakeFreq) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeFreq) frequencyWrites() []uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint64(nil), f.writes...)
}
