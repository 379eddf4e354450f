//go:build linux

package device

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// sonypi ioctl requests, all carrying a single __u8.
const (
	iocGetBrightness   = 0x80017600 // _IOR('v', 0, __u8)
	iocSetBrightness   = 0x40017600 // _IOW('v', 0, __u8)
	iocGetBatteryFlags = 0x80017607 // _IOR('v', 7, __u8)
)

// SPIC is an open handle on the sonypi device.
type SPIC struct {
	f    *os.File
	path string
}

// OpenSPIC opens the sonypi device read-write.
func OpenSPIC(path string) (*SPIC, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &SPIC{f: f, path: path}, nil
}

// BatteryFlags reads the battery status register.
func (s *SPIC) BatteryFlags() (BatteryFlags, error) {
	var v uint8
	if err := s.ioctl(iocGetBatteryFlags, &v); err != nil {
		return 0, fmt.Errorf("%s: %w", s.path, err)
	}
	return BatteryFlags(v), nil
}

// ACPresent reports whether the AC adapter is plugged in.
func (s *SPIC) ACPresent() (bool, error) {
	flags, err := s.BatteryFlags()
	if err != nil {
		return false, err
	}
	return flags.ACPresent(), nil
}

// Brightness reads the current LCD brightness.
func (s *SPIC) Brightness() (uint8, error) {
	var v uint8
	if err := s.ioctl(iocGetBrightness, &v); err != nil {
		return 0, fmt.Errorf("%s: %w", s.path, err)
	}
	return v, nil
}

// SetBrightness sets the LCD brightness.
func (s *SPIC) SetBrightness(v uint8) error {
	if err := s.ioctl(iocSetBrightness, &v); err != nil {
		return fmt.Errorf("%s: %w", s.path, err)
	}
	return nil
}

// Close closes the device.
func (s *SPIC) Close() error {
	return s.f.Close()
}

func (s *SPIC) ioctl(req uintptr, v *uint8) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, s.f.Fd(), req, uintptr(unsafe.Pointer(v)))
	if errno != 0 {
		return errno
	}
	return nil
}
