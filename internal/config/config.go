// Package config resolves spicd settings from command-line values and the
// platform CPU frequency bounds.
package config

import (
	"log/slog"
)

// Brightness limits and per-source defaults.
const (
	MinBrightness = 0
	MaxBrightness = 255

	DefaultACBrightness = 255
	DefaultDCBrightness = 0
)

// Fixed device and state locations.
const (
	DefaultSPICDevice     = "/dev/sonypi"
	DefaultCPUFreqDevice  = "/proc/sys/cpu/0/speed"
	DefaultCPUFreqMinPath = "/proc/sys/cpu/0/speed-min"
	DefaultCPUFreqMaxPath = "/proc/sys/cpu/0/speed-max"
	DefaultPIDFile        = "/var/run/spicd.pid"
)

// Config is the resolved daemon configuration.
// Frequencies are in the unit of the cpufreq proc interface (kHz).
type Config struct {
	ACBrightness   int    `toml:"ac_brightness" yaml:"ac_brightness"`
	DCBrightness   int    `toml:"dc_brightness" yaml:"dc_brightness"`
	ACFrequency    uint64 `toml:"ac_frequency" yaml:"ac_frequency"`
	DCFrequency    uint64 `toml:"dc_frequency" yaml:"dc_frequency"`
	Debug          bool   `toml:"debug" yaml:"debug"`
	DisableCPUFreq bool   `toml:"disable_cpufreq" yaml:"disable_cpufreq"`
	Foreground     bool   `toml:"foreground" yaml:"foreground"`
	Paths          Paths  `toml:"paths" yaml:"paths"`
}

// Paths holds the kernel endpoints and the lock artifact location.
type Paths struct {
	SPICDevice    string `toml:"spic_device" yaml:"spic_device"`
	CPUFreqDevice string `toml:"cpufreq_device" yaml:"cpufreq_device"`
	CPUFreqMin    string `toml:"cpufreq_min" yaml:"cpufreq_min"`
	CPUFreqMax    string `toml:"cpufreq_max" yaml:"cpufreq_max"`
	PIDFile       string `toml:"pid_file" yaml:"pid_file"`
}

// DefaultPaths returns the stock locations used by the sonypi driver.
func DefaultPaths() Paths {
	return Paths{
		SPICDevice:    DefaultSPICDevice,
		CPUFreqDevice: DefaultCPUFreqDevice,
		CPUFreqMin:    DefaultCPUFreqMinPath,
		CPUFreqMax:    DefaultCPUFreqMaxPath,
		PIDFile:       DefaultPIDFile,
	}
}

// Default returns a Config with default values for the given bounds.
// On battery the CPU runs at the platform minimum, on AC at the maximum.
func Default(bounds Bounds) Config {
	return Config{
		ACBrightness: DefaultACBrightness,
		DCBrightness: DefaultDCBrightness,
		ACFrequency:  bounds.Max,
		DCFrequency:  bounds.Min,
		Paths:        DefaultPaths(),
	}
}

// Brightness returns the brightness for the given power source.
func (c Config) Brightness(acPresent bool) uint8 {
	if acPresent {
		return uint8(c.ACBrightness)
	}
	return uint8(c.DCBrightness)
}

// Frequency returns the CPU frequency for the given power source.
func (c Config) Frequency(acPresent bool) uint64 {
	if acPresent {
		return c.ACFrequency
	}
	return c.DCFrequency
}

// Resolve replaces out-of-range values with their defaults.
// Brightness falls back to the per-source default, frequency to the
// platform minimum (battery) or maximum (AC). Zero bounds are applied as
// read, so with both bounds at zero every frequency resolves to zero.
func Resolve(cfg Config, bounds Bounds, logger *slog.Logger) Config {
	if logger == nil {
		logger = slog.Default()
	}

	if !validBrightness(cfg.DCBrightness) {
		logger.Debug("DC brightness is out of range, using default",
			"value", cfg.DCBrightness, "default", DefaultDCBrightness)
		cfg.DCBrightness = DefaultDCBrightness
	}
	if !validBrightness(cfg.ACBrightness) {
		logger.Debug("AC brightness is out of range, using default",
			"value", cfg.ACBrightness, "default", DefaultACBrightness)
		cfg.ACBrightness = DefaultACBrightness
	}

	if !bounds.Contains(cfg.DCFrequency) {
		logger.Debug("DC frequency is out of range, using default",
			"value", cfg.DCFrequency, "default", bounds.Min)
		cfg.DCFrequency = bounds.Min
	}
	if !bounds.Contains(cfg.ACFrequency) {
		logger.Debug("AC frequency is out of range, using default",
			"value", cfg.ACFrequency, "default", bounds.Max)
		cfg.ACFrequency = bounds.Max
	}

	return cfg
}

func validBrightness(v int) bool {
	return v >= MinBrightness && v <= MaxBrightness
}
