package logging

import (
	"sync"
	"time"

	"github.com/naastyyshha/sortbench/pkg/humanfmt"
	"github.com/rs/zerolog"
)

// ProgressTracker tracks how many measurements of a benchmark run are done
// and estimates the time remaining. It is safe for concurrent use.
type ProgressTracker struct {
	total int64

	mu        sync.Mutex
	completed int64
	// Sweep sizes grow, so recent durations predict better than the mean.
	recentDurations []time.Duration
	maxRecent       int
}

// NewProgressTracker creates a new progress tracker.
func NewProgressTracker(total int64) *ProgressTracker {
	return &ProgressTracker{
		total:           total,
		recentDurations: make([]time.Duration, 0, 10),
		maxRecent:       10,
	}
}

// RecordCompletion records that a measurement took d.
func (pt *ProgressTracker) RecordCompletion(d time.Duration) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	pt.completed++
	if len(pt.recentDurations) >= pt.maxRecent {
		pt.recentDurations = pt.recentDurations[1:]
	}
	pt.recentDurations = append(pt.recentDurations, d)
}

// Completed returns the number of recorded measurements.
func (pt *ProgressTracker) Completed() int64 {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.completed
}

// Total returns the expected number of measurements.
func (pt *ProgressTracker) Total() int64 {
	return pt.total
}

// ProgressPct returns the progress percentage (0-100).
func (pt *ProgressTracker) ProgressPct() float64 {
	if pt.total == 0 {
		return 100.0
	}
	return float64(pt.Completed()) * 100.0 / float64(pt.total)
}

// ETA returns the estimated time remaining from the moving average of the
// most recent measurement durations.
func (pt *ProgressTracker) ETA() time.Duration {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	remaining := pt.total - pt.completed
	if pt.completed == 0 || remaining <= 0 || len(pt.recentDurations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range pt.recentDurations {
		sum += d
	}
	avg := sum / time.Duration(len(pt.recentDurations))
	return avg * time.Duration(remaining)
}

// CompletionEvent helps build consistent completion log events.
type CompletionEvent struct {
	log     zerolog.Logger
	event   string
	phase   string
	elapsed time.Duration
	fields  map[string]interface{}
}

// NewCompletionEvent creates a new completion event builder.
func NewCompletionEvent(log zerolog.Logger, event, phase string, elapsed time.Duration) *CompletionEvent {
	return &CompletionEvent{
		log:     log,
		event:   event,
		phase:   phase,
		elapsed: elapsed,
		fields:  make(map[string]interface{}),
	}
}

// Str adds a string field.
func (ce *CompletionEvent) Str(key, val string) *CompletionEvent {
	ce.fields[key] = val
	return ce
}

// Int adds an int field.
func (ce *CompletionEvent) Int(key string, val int) *CompletionEvent {
	ce.fields[key] = val
	return ce
}

// Bool adds a bool field.
func (ce *CompletionEvent) Bool(key string, val bool) *CompletionEvent {
	ce.fields[key] = val
	return ce
}

// Count adds count with optional human-readable companion.
func (ce *CompletionEvent) Count(key string, n int64) *CompletionEvent {
	ce.fields[key] = n
	if IsPrettyMode() {
		ce.fields[key+"_h"] = humanfmt.Count(n)
	}
	return ce
}

// Bytes adds byte count with optional human-readable companion.
func (ce *CompletionEvent) Bytes(key string, b uint64) *CompletionEvent {
	ce.fields[key] = b
	if IsPrettyMode() {
		ce.fields[key+"_h"] = humanfmt.BytesUint64(b)
	}
	return ce
}

// Seconds adds a measured timing in fractional seconds with optional
// human-readable companion.
func (ce *CompletionEvent) Seconds(key string, sec float64) *CompletionEvent {
	ce.fields[key+"_s"] = sec
	if IsPrettyMode() {
		ce.fields[key+"_h"] = humanfmt.Seconds(sec)
	}
	return ce
}

// Rate adds the throughput of n elements sorted in sec seconds.
func (ce *CompletionEvent) Rate(key string, n int64, sec float64) *CompletionEvent {
	ce.fields[key+"_rate"] = humanfmt.Rate(n, time.Duration(sec*float64(time.Second)))
	return ce
}

// ProgressFromTracker adds progress fields from a ProgressTracker.
func (ce *CompletionEvent) ProgressFromTracker(pt *ProgressTracker) *CompletionEvent {
	done, total := pt.Completed(), pt.Total()
	ce.fields["done"] = done
	ce.fields["total"] = total
	if total > 0 {
		ce.fields["progress_pct"] = pt.ProgressPct()
		if IsPrettyMode() {
			ce.fields["progress_h"] = humanfmt.Count(done) + "/" + humanfmt.Count(total)
		}
	}
	if eta := pt.ETA(); eta > 0 {
		ce.fields["eta_ms"] = eta.Milliseconds()
		if IsPrettyMode() {
			ce.fields["eta_h"] = humanfmt.Duration(eta)
		}
	}
	return ce
}

// Log emits the completion event.
func (ce *CompletionEvent) Log(msg string) {
	ce.emit(ce.log.Info(), msg)
}

// LogDebug emits the completion event at debug level.
func (ce *CompletionEvent) LogDebug(msg string) {
	ce.emit(ce.log.Debug(), msg)
}

func (ce *CompletionEvent) emit(e *zerolog.Event, msg string) {
	e = e.Str("event", ce.event).
		Str("phase", ce.phase).
		Int64("duration_ms", ce.elapsed.Milliseconds())

	if IsPrettyMode() {
		e = e.Str("duration_h", humanfmt.Duration(ce.elapsed))
	}

	for k, v := range ce.fields {
		e = e.Interface(k, v)
	}

	e.Msg(msg)
}

// PhaseComplete logs a phase completion event.
func PhaseComplete(log zerolog.Logger, phase string, elapsed time.Duration) *CompletionEvent {
	return NewCompletionEvent(log, "phase_completed", phase, elapsed)
}

// MeasurementComplete logs one benchmark row (a run or an array size).
func MeasurementComplete(log zerolog.Logger, phase string, elapsed time.Duration) *CompletionEvent {
	return NewCompletionEvent(log, "measurement_completed", phase, elapsed)
}

// FileWritten logs a result file creation event.
func FileWritten(log zerolog.Logger, phase string, elapsed time.Duration) *CompletionEvent {
	return NewCompletionEvent(log, "file_written", phase, elapsed)
}
