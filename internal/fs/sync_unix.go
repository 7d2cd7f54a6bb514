//go:build linux || freebsd

package fs

import "golang.org/x/sys/unix"

const haveFdatasync = true

// fdatasync performs a data-only file descriptor sync.
func fdatasync(fd int) error {
	return unix.Fdatasync(fd)
}
