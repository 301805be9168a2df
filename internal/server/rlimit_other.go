//go:build !linux && !darwin

package server

import "errors"

// RaiseOpenFileLimit is not supported on this platform.
func RaiseOpenFileLimit() (uint64, error) {
	return 0, errors.New("raising the open file limit is not supported on this platform")
}
