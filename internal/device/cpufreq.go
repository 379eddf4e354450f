package device

import (
	"fmt"
	"os"
	"strconv"
)

// CPUFreq is an open handle on the CPU speed proc file.
type CPUFreq struct {
	f    *os.File
	path string
}

// OpenCPUFreq opens the speed file for writing.
func OpenCPUFreq(path string) (*CPUFreq, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, err
	}
	return &CPUFreq{f: f, path: path}, nil
}

// SetFrequency requests a CPU speed, written as decimal ASCII at offset 0.
func (c *CPUFreq) SetFrequency(khz uint64) error {
	if _, err := c.f.WriteAt([]byte(strconv.FormatUint(khz, 10)), 0); err != nil {
		return fmt.Errorf("%s: %w", c.path, err)
	}
	return nil
}

// Close closes the speed file.
func (c *CPUFreq) Close() error {
	return c.f.Close()
}
