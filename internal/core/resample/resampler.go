package resample

import (
	"errors"
	"fmt"
)

// Supported resampling modes. The threshold unit depends on the mode:
// milliseconds for time, tick count for tick, volume units for volume,
// currency units for dollar.
const (
	ModeTime   = "time"
	ModeTick   = "tick"
	ModeVolume = "volume"
	ModeDollar = "dollar"
)

// ErrInvalidConfiguration marks construction-time validation failures.
var ErrInvalidConfiguration = errors.New("invalid resampler configuration")

func invalidConfigf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

// measure is the close trigger for accumulation-driven modes. It observes
// every tick folded into the current bar and reports when the accumulated
// measure has reached the configured threshold. The time mode is
// window-driven and does not use a measure.
type measure interface {
	// observe folds one tick into the accumulated measure.
	observe(t Tick)

	// reached reports whether the measure has hit threshold.
	reached(threshold int64) bool

	// reset clears the accumulator for the next bar.
	reset()
}

// measures is the registry of close triggers per mode. To add a new
// accumulation-driven mode: implement measure and add an entry here.
var measures = map[string]func() measure{
	ModeTick:   func() measure { return &tickCount{} },
	ModeVolume: func() measure { return &volumeSum{} },
	ModeDollar: func() measure { return &dollarSum{} },
}

// ValidMode reports whether mode is a supported resampling mode.
func ValidMode(mode string) bool {
	if mode == ModeTime {
		return true
	}
	_, ok := measures[mode]
	return ok
}

// tickCount closes a bar after a fixed number of ticks.
type tickCount struct{ n int64 }

func (c *tickCount) observe(Tick)                 { c.n++ }
func (c *tickCount) reached(threshold int64) bool { return c.n >= threshold }
func (c *tickCount) reset()                       { c.n = 0 }

// volumeSum closes a bar once the summed tick volume reaches threshold.
type volumeSum struct{ v int64 }

func (s *volumeSum) observe(t Tick)               { s.v += t.Volume }
func (s *volumeSum) reached(threshold int64) bool { return s.v >= threshold }
func (s *volumeSum) reset()                       { s.v = 0 }

// dollarSum closes a bar once the summed price*volume reaches threshold.
// The accumulation is plain float64 arithmetic. The dollar value only
// drives the close decision; it is never reported on the bar itself.
type dollarSum struct{ v float64 }

func (s *dollarSum) observe(t Tick)               { s.v += t.Price * float64(t.Volume) }
func (s *dollarSum) reached(threshold int64) bool { return s.v >= float64(threshold) }
func (s *dollarSum) reset()                       { s.v = 0 }

// Resampler converts a chronological tick sequence into OHLCV bars.
// It is immutable after construction, carries no per-call state, and is
// safe to share across goroutines.
type Resampler struct {
	mode      string
	threshold int64
}

// New constructs a Resampler for the given mode and threshold.
// It fails when the threshold is not positive or the mode is not one of
// the four supported modes.
func New(mode string, threshold int64) (*Resampler, error) {
	if !ValidMode(mode) {
		return nil, invalidConfigf("unsupported mode %q", mode)
	}
	if threshold <= 0 {
		return nil, invalidConfigf("threshold must be positive, got %d", threshold)
	}
	return &Resampler{mode: mode, threshold: threshold}, nil
}

// Mode returns the configured resampling mode.
func (r *Resampler) Mode() string { return r.mode }

// Threshold returns the configured threshold.
func (r *Resampler) Threshold() int64 { return r.threshold }

// Resample aggregates ticks into bars. A nil or empty input yields an
// empty slice. Input must already be sorted ascending by timestamp.
// The final bar is flushed unconditionally at end of input, so it may be
// incomplete; every bar before it reached its threshold or occupied a
// full time window.
func (r *Resampler) Resample(ticks []Tick) []Bar {
	if len(ticks) == 0 {
		return []Bar{}
	}
	if r.mode == ModeTime {
		return r.resampleByWindow(ticks)
	}
	return r.resampleByMeasure(ticks, measures[r.mode]())
}

// resampleByWindow groups ticks into tumbling windows aligned to absolute
// time: the bucket for a tick spans [ts - ts%threshold, +threshold).
// A tick outside the current window closes the bar and opens the bucket
// computed from its own timestamp, so windows with no ticks produce no
// bars.
func (r *Resampler) resampleByWindow(ticks []Tick) []Bar {
	bars := make([]Bar, 0)

	bucketStart := ticks[0].Timestamp - ticks[0].Timestamp%r.threshold
	bucketEnd := bucketStart + r.threshold
	current := newBar(bucketStart, ticks[0])

	for _, t := range ticks[1:] {
		if t.Timestamp < bucketEnd {
			current.fold(t)
			continue
		}

		bars = append(bars, current)
		bucketStart = t.Timestamp - t.Timestamp%r.threshold
		bucketEnd = bucketStart + r.threshold
		current = newBar(bucketStart, t)
	}

	return append(bars, current)
}

// resampleByMeasure groups ticks into bars closed by an accumulated
// measure. The tick that crosses the threshold is included in the bar it
// closes, never deferred to the next bar.
func (r *Resampler) resampleByMeasure(ticks []Tick, m measure) []Bar {
	bars := make([]Bar, 0)
	var current *Bar

	for _, t := range ticks {
		if current == nil {
			b := newBar(t.Timestamp, t)
			current = &b
			m.reset()
		} else {
			current.fold(t)
		}
		m.observe(t)

		if m.reached(r.threshold) {
			bars = append(bars, *current)
			current = nil
		}
	}

	if current != nil {
		bars = append(bars, *current)
	}
	return bars
}
