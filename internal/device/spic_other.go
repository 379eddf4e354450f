//go:build !linux

package device

import "errors"

// ErrUnsupported is returned on platforms without the sonypi driver.
var ErrUnsupported = errors.New("sonypi device is only available on linux")

// SPIC is an open handle on the sonypi device.
type SPIC struct{}

// OpenSPIC always fails off linux.
func OpenSPIC(path string) (*SPIC, error) {
	return nil, ErrUnsupported
}

// BatteryFlags reads the battery status register.
func (s *SPIC) BatteryFlags() (BatteryFlags, error) { return 0, ErrUnsupported }

// ACPresent reports whether the AC adapter is plugged in.
func (s *SPIC) ACPresent() (bool, error) { return false, ErrUnsupported }

// Brightness reads the current LCD brightness.
func (s *SPIC) Brightness() (uint8, error) { return 0, ErrUnsupported }

// SetBrightness sets the LCD brightness.
func (s *SPIC) SetBrightness(uint8) error { return ErrUnsupported }

// Close closes the device.
func (s *SPIC) Close() error { return nil }
