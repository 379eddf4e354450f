package config

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// Number is a numeric command-line value. Input that does not parse as a
// signed 64-bit decimal is accepted and kept as out of range, so a bad
// value falls back to its default instead of failing startup.
type Number struct {
	raw   string
	value int64
	ok    bool
}

// NewNumber returns a Number holding v.
func NewNumber(v int64) Number {
	return Number{raw: strconv.FormatInt(v, 10), value: v, ok: true}
}

// Set implements pflag.Value. It never fails.
func (n *Number) Set(s string) error {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	n.raw = s
	n.value = v
	n.ok = err == nil
	return nil
}

// String returns the value as given.
func (n *Number) String() string {
	return n.raw
}

// Type implements pflag.Value.
func (n *Number) Type() string {
	return "int"
}

// Int returns the value as an int. It reports false when the input did not
// parse or does not fit.
func (n Number) Int() (int, bool) {
	if !n.ok || n.value < math.MinInt || n.value > math.MaxInt {
		return 0, false
	}
	return int(n.value), true
}

// Uint returns the value as a uint64. It reports false when the input did
// not parse or is negative.
func (n Number) Uint() (uint64, bool) {
	if !n.ok || n.value < 0 {
		return 0, false
	}
	return uint64(n.value), true
}

// Options are the numeric settings given on the command line.
// A nil field was not given.
type Options struct {
	ACBrightness *Number
	DCBrightness *Number
	ACFrequency  *Number
	DCFrequency  *Number
}

// Apply copies the options into cfg. A value that cannot be represented
// keeps the default already in cfg and is logged at debug; Resolve checks
// the others against their ranges.
func (o Options) Apply(cfg Config, logger *slog.Logger) Config {
	if logger == nil {
		logger = slog.Default()
	}

	if o.DCBrightness != nil {
		if v, ok := o.DCBrightness.Int(); ok {
			cfg.DCBrightness = v
		} else {
			logOutOfRange(logger, "DC brightness", o.DCBrightness, cfg.DCBrightness)
		}
	}
	if o.ACBrightness != nil {
		if v, ok := o.ACBrightness.Int(); ok {
			cfg.ACBrightness = v
		} else {
			logOutOfRange(logger, "AC brightness", o.ACBrightness, cfg.ACBrightness)
		}
	}
	if o.DCFrequency != nil {
		if v, ok := o.DCFrequency.Uint(); ok {
			cfg.DCFrequency = v
		} else {
			logOutOfRange(logger, "DC frequency", o.DCFrequency, cfg.DCFrequency)
		}
	}
	if o.ACFrequency != nil {
		if v, ok := o.ACFrequency.Uint(); ok {
			cfg.ACFrequency = v
		} else {
			logOutOfRange(logger, "AC frequency", o.ACFrequency, cfg.ACFrequency)
		}
	}
	return cfg
}

func logOutOfRange(logger *slog.Logger, name string, n *Number, def any) {
	logger.Debug(name+" is out of range, using default", "value", n.String(), "default", def)
}
