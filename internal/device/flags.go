package device

import "strings"

// BatteryFlags is the SPIC battery status byte.
type BatteryFlags uint8

// Battery status bits.
const (
	FlagBattery1 BatteryFlags = 0x01
	FlagBattery2 BatteryFlags = 0x02
	FlagAC       BatteryFlags = 0x04
)

// ACPresent reports whether the AC adapter is plugged in.
func (f BatteryFlags) ACPresent() bool {
	return f&FlagAC != 0
}

// String returns a compact list of the set bits, e.g. "b1|ac".
func (f BatteryFlags) String() string {
	var parts []string
	if f&FlagBattery1 != 0 {
		parts = append(parts, "b1")
	}
	if f&FlagBattery2 != 0 {
		parts = append(parts, "b2")
	}
	if f&FlagAC != 0 {
		parts = append(parts, "ac")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
