package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Bounds is the supported CPU frequency range of the platform.
type Bounds struct {
	Min uint64 `toml:"min" yaml:"min"`
	Max uint64 `toml:"max" yaml:"max"`
}

// Contains reports whether freq lies within [Min, Max].
func (b Bounds) Contains(freq uint64) bool {
	return freq >= b.Min && freq <= b.Max
}

// Zero reports whether either bound could not be read.
func (b Bounds) Zero() bool {
	return b.Min == 0 || b.Max == 0
}

// ReadBounds reads the minimum and maximum frequency files.
// A bound that cannot be read is 0.
func ReadBounds(minPath, maxPath string, logger *slog.Logger) Bounds {
	if logger == nil {
		logger = slog.Default()
	}
	return Bounds{
		Min: readBound(minPath, logger),
		Max: readBound(maxPath, logger),
	}
}

func readBound(path string, logger *slog.Logger) uint64 {
	v, err := ReadFrequencyFile(path)
	if err != nil {
		logger.Info("failed to read frequency bound", "path", path, "error", err)
		return 0
	}
	return v
}

// ReadFrequencyFile parses the leading decimal integer of a proc file.
func ReadFrequencyFile(path string) (uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0, errors.New("empty file")
	}

	v, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frequency %q: %w", fields[0], err)
	}
	return v, nil
}
