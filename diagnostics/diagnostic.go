// Package diagnostics records per-frame measurements with bounded history
// and exponential smoothing.
package diagnostics

import "time"

// ID names a diagnostic.
type ID string

const (
	FPS        ID = "fps"
	FrameTime  ID = "frame_time"
	FrameCount ID = "frame_count"
)

const (
	// DefaultHistory is the number of measurements kept per diagnostic.
	DefaultHistory = 120
	// DefaultSmoothing is the EMA time constant in seconds. It is
	// independent of the history length.
	DefaultSmoothing = 2.0 / 21.0
)

// Measurement is one recorded value.
type Measurement struct {
	Time  time.Duration
	Value float64
}

// Diagnostic keeps the latest measurements of one quantity.
type Diagnostic struct {
	ID        ID
	Suffix    string
	history   []Measurement
	max       int
	smoothing float64
	ema       float64
	hasEMA    bool
}

// NewDiagnostic creates a diagnostic keeping up to maxHistory values.
func NewDiagnostic(id ID, suffix string, maxHistory int) *Diagnostic {
	if maxHistory <= 0 {
		maxHistory = DefaultHistory
	}
	return &Diagnostic{ID: id, Suffix: suffix, max: maxHistory, smoothing: DefaultSmoothing}
}

// Add records value at time at. The smoothed value moves towards value by
// the fraction of the smoothing window that elapsed since the previous
// measurement.
func (d *Diagnostic) Add(at time.Duration, value float64) {
	if n := len(d.history); n > 0 && d.hasEMA {
		delta := (at - d.history[n-1].Time).Seconds()
		alpha := 1.0
		if d.smoothing > 0 {
			alpha = min(max(delta/d.smoothing, 0), 1)
		}
		d.ema += alpha * (value - d.ema)
	} else {
		d.ema = value
		d.hasEMA = true
	}

	if len(d.history) == d.max {
		copy(d.history, d.history[1:])
		d.history = d.history[:len(d.history)-1]
	}
	d.history = append(d.history, Measurement{Time: at, Value: value})
}

// Value returns the latest measurement.
func (d *Diagnostic) Value() (float64, bool) {
	if len(d.history) == 0 {
		return 0, false
	}
	return d.history[len(d.history)-1].Value, true
}

// Smoothed returns the exponential moving average.
func (d *Diagnostic) Smoothed() (float64, bool) {
	return d.ema, d.hasEMA
}

// Average returns the mean of the retained history.
func (d *Diagnostic) Average() (float64, bool) {
	if len(d.history) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, m := range d.history {
		sum += m.Value
	}
	return sum / float64(len(d.history)), true
}

// Len returns the number of retained measurements.
func (d *Diagnostic) Len() int {
	return len(d.history)
}

// Clear drops the history and the smoothed value.
func (d *Diagnostic) Clear() {
	d.history = d.history[:0]
	d.ema, d.hasEMA = 0, false
}
