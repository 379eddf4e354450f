// Package daemon provides the spicd control loop and its lifecycle.
//
// A Watcher polls the AC adapter state through the SPIC device every two
// seconds. The first poll only records the state; every later change sets
// the LCD brightness and, when the frequency channel is available, the CPU
// speed to the values configured for the new power source. Any device I/O
// error ends the loop.
//
// Daemon wraps a Watcher with the single-instance pid file and device
// acquisition, and removes the pid file on every exit path.
package daemon
