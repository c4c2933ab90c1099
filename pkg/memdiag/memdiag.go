// Package memdiag logs heap usage while a benchmark runs.
//
// Enable debug logging with SORTBENCH_MEM_DEBUG=1
// Enable pprof server with SORTBENCH_MEM_PPROF=1 (listens on :6060)
package memdiag

import (
	"net/http"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	// Registers pprof handlers on DefaultServeMux for the pprof HTTP server.
	_ "net/http/pprof"

	"github.com/naastyyshha/sortbench/pkg/humanfmt"
	"github.com/naastyyshha/sortbench/pkg/logging"
	"github.com/naastyyshha/sortbench/pkg/membudget"
)

// PprofAddr is where the pprof server listens when enabled. Loopback only.
const PprofAddr = "localhost:6060"

// Config holds configuration for memory diagnostics.
type Config struct {
	Enabled      bool
	PprofEnabled bool
	LogInterval  time.Duration
}

// DefaultConfig returns the default configuration, reading from environment.
func DefaultConfig() Config {
	return Config{
		Enabled:      os.Getenv("SORTBENCH_MEM_DEBUG") == "1",
		PprofEnabled: os.Getenv("SORTBENCH_MEM_PPROF") == "1",
		LogInterval:  5 * time.Second,
	}
}

// Tracker logs memory statistics per benchmark phase and keeps the peak heap.
type Tracker struct {
	config  Config
	stopCh  chan struct{}
	doneCh  chan struct{}
	started atomic.Bool

	mu       sync.Mutex
	phase    string
	peakHeap uint64
}

// NewTracker creates a new memory tracker.
func NewTracker(config Config) *Tracker {
	return &Tracker{
		config: config,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
		phase:  "init",
	}
}

// Start begins periodic memory logging if enabled.
func (t *Tracker) Start() {
	if !t.config.Enabled {
		return
	}
	if !t.started.CompareAndSwap(false, true) {
		return
	}

	log := logging.L()
	log.Info().Msg("memory diagnostics enabled")

	if t.config.PprofEnabled {
		go func() {
			log.Info().Str("addr", PprofAddr).Msg("starting pprof server")
			if err := http.ListenAndServe(PprofAddr, nil); err != nil {
				log.Error().Err(err).Msg("pprof server failed")
			}
		}()
	}

	go t.logLoop()
}

// Stop stops the tracker.
func (t *Tracker) Stop() {
	if !t.started.Load() {
		return
	}
	close(t.stopCh)
	<-t.doneCh
}

// SetPhase names the benchmark step that follows, e.g. "boxplot n=10000".
func (t *Tracker) SetPhase(phase string) {
	t.mu.Lock()
	t.phase = phase
	t.mu.Unlock()

	t.LogNow("phase_change")
}

// LogNow samples the heap, updates the peak and logs at debug level.
func (t *Tracker) LogNow(reason string) {
	if !t.config.Enabled {
		return
	}

	heap, phase, peak := t.sample()
	logging.L().Debug().
		Str("reason", reason).
		Str("phase", phase).
		Str("heap_alloc", humanfmt.BytesUint64(heap.HeapAlloc)).
		Str("heap_sys", humanfmt.BytesUint64(heap.HeapSys)).
		Str("peak_heap", humanfmt.BytesUint64(peak)).
		Uint32("num_gc", heap.NumGC).
		Msg("memory stats")
}

// LogWithBudget logs the heap next to what the budget believes is reserved.
func (t *Tracker) LogWithBudget(reason string, budget *membudget.Budget) {
	if !t.config.Enabled || budget == nil {
		return
	}

	heap, phase, peak := t.sample()
	logging.L().Debug().
		Str("reason", reason).
		Str("phase", phase).
		Str("heap_alloc", humanfmt.BytesUint64(heap.HeapAlloc)).
		Str("budget_inuse", humanfmt.BytesUint64(budget.InUse())).
		Str("budget_total", humanfmt.BytesUint64(budget.Total())).
		Str("peak_heap", humanfmt.BytesUint64(peak)).
		Msg("memory stats with budget")
}

// PeakHeap returns the peak heap allocation seen.
func (t *Tracker) PeakHeap() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.peakHeap
}

func (t *Tracker) sample() (runtime.MemStats, string, uint64) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	t.mu.Lock()
	defer t.mu.Unlock()
	if m.HeapAlloc > t.peakHeap {
		t.peakHeap = m.HeapAlloc
	}
	return m, t.phase, t.peakHeap
}

func (t *Tracker) logLoop() {
	defer close(t.doneCh)

	ticker := time.NewTicker(t.config.LogInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopCh:
			t.LogNow("shutdown")
			return
		case <-ticker.C:
			t.LogNow("periodic")
		}
	}
}
