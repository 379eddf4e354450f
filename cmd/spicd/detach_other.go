//go:build !unix

package main

import "errors"

func isDetached() bool { return false }

func detach() (int, error) {
	return 0, errors.New("background mode is not supported on this platform, use --foreground")
}

func enterBackground() {}
