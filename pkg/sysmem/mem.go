// Package sysmem detects how much memory the machine has, so the benchmark
// can refuse inputs whose auxiliary buffers would not fit.
package sysmem

// DefaultMemoryBytes is the fallback memory value (4 GB) used when
// platform-specific detection fails or is unsupported.
const DefaultMemoryBytes uint64 = 4 * 1024 * 1024 * 1024

// Result holds the result of memory detection.
type Result struct {
	// TotalBytes is the installed physical memory.
	TotalBytes uint64

	// AvailableBytes is the memory free right now. Platforms that do not
	// report it use TotalBytes.
	AvailableBytes uint64

	// Reliable is false when the values are the fallback default.
	Reliable bool
}

// Detect reads total and available memory from the operating system.
func Detect() Result {
	total, avail, ok := readMemory()
	if !ok || total == 0 {
		return Result{
			TotalBytes:     DefaultMemoryBytes,
			AvailableBytes: DefaultMemoryBytes,
		}
	}
	if avail == 0 || avail > total {
		avail = total
	}
	return Result{
		TotalBytes:     total,
		AvailableBytes: avail,
		Reliable:       true,
	}
}

// TotalBytes is a convenience function that returns just the total.
func TotalBytes() uint64 {
	return Detect().TotalBytes
}
