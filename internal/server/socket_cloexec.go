//go:build linux || freebsd || netbsd || openbsd || dragonfly || solaris || illumos

package server

import "golang.org/x/sys/unix"

// socket creates a TCP socket that is close-on-exec from the start, so a
// worker spawned concurrently never inherits it.
func socket() (int, error) {
	return unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
}
