//go:build freebsd || openbsd || netbsd || dragonfly

package sysmem

import "golang.org/x/sys/unix"

// readMemory reads hw.physmem, falling back to hw.realmem on FreeBSD.
func readMemory() (total, avail uint64, ok bool) {
	for _, name := range []string{"hw.physmem", "hw.realmem"} {
		mem, err := unix.SysctlUint64(name)
		if err == nil && mem > 0 {
			return mem, 0, true
		}
	}
	return 0, 0, false
}
