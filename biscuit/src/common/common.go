// Package common holds the low-level types shared by every layer of the
// kernel core, the way biscuit's own "common" package underlies proc, fs,
// and vm without any of them importing each other directly.
package common

// Err_t is the syscall-boundary error convention: 0 on success, a negative
// sentinel otherwise. The core never uses Go's error interface for things
// that cross into "userspace" results, matching xv6's int-return style.
type Err_t int

const (
	// Generic failure. xv6 syscalls are content with a single -1; callers
	// that need a reason report it separately (e.g. via Killed).
	Err_fail Err_t = -1
	Err_ok   Err_t = 0
)

func (e Err_t) Failed() bool {
	return e != Err_ok
}
