//go:build darwin

package sysmem

import "golang.org/x/sys/unix"

// readMemory reads hw.memsize. macOS has no cheap free-memory sysctl, so
// available is left to default to the total.
func readMemory() (total, avail uint64, ok bool) {
	mem, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return 0, 0, false
	}
	return mem, 0, true
}
