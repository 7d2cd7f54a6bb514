//go:build unix && !linux && !freebsd

package fs

import "golang.org/x/sys/unix"

const haveFdatasync = true

// fdatasync falls back to fsync where fdatasync is unavailable.
func fdatasync(fd int) error {
	return unix.Fsync(fd)
}
