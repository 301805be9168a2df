//go:build linux || darwin

package server

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// RaiseOpenFileLimit lifts the soft RLIMIT_NOFILE to the hard limit and
// returns the resulting soft limit. Every relay client holds a descriptor.
func RaiseOpenFileLimit() (uint64, error) {
	var lim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &lim); err != nil {
		return 0, fmt.Errorf("getrlimit: %w", err)
	}
	if lim.Cur >= lim.Max {
		return lim.Cur, nil
	}

	raised := lim
	raised.Cur = lim.Max
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &raised); err != nil {
		return lim.Cur, fmt.Errorf("setrlimit: %w", err)
	}
	return raised.Cur, nil
}
