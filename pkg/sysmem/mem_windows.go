//go:build windows

package sysmem

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// readMemory uses GlobalMemoryStatusEx.
func readMemory() (total, avail uint64, ok bool) {
	var status windows.MemoryStatusEx
	status.Length = uint32(unsafe.Sizeof(status))

	if err := windows.GlobalMemoryStatusEx(&status); err != nil {
		return 0, 0, false
	}
	return status.TotalPhys, status.AvailPhys, true
}
