// Package device provides access to the kernel endpoints spicd drives:
// the Sony Programmable I/O Control device (battery flags and LCD
// brightness registers) and the CPU frequency proc file.
package device
