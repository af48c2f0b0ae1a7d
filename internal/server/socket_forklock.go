//go:build unix && !(linux || freebsd || netbsd || openbsd || dragonfly || solaris || illumos)

package server

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// socket creates a TCP socket and marks it close-on-exec while holding
// ForkLock, which os/exec takes before forking.
func socket() (int, error) {
	syscall.ForkLock.RLock()
	defer syscall.ForkLock.RUnlock()

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, err
	}
	unix.CloseOnExec(fd)
	return fd, nil
}
