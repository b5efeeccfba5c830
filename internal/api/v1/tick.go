package v1

import (
	"fmt"
	"math"
)

// Tick is the wire form of a single trade event.
type Tick struct {
	// Timestamp is milliseconds since epoch.
	Timestamp int64 `json:"timestamp"`

	// Price is the trade price. Must be finite.
	Price float64 `json:"price"`

	// Volume is the traded quantity. Must be non-negative.
	Volume int64 `json:"volume"`
}

// Bar is the wire form of one OHLCV aggregate.
type Bar struct {
	OpenTimestamp int64   `json:"open_timestamp"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	TotalVolume   int64   `json:"total_volume"`
}

// ResampleRequest is the body of POST /v1/resample.
// Ticks must be sorted ascending by timestamp; ordering is the caller's
// responsibility and is not checked server-side.
type ResampleRequest struct {
	// Mode is one of: time, tick, volume, dollar.
	Mode string `json:"mode"`

	// Threshold is the bar-close threshold. Unit depends on Mode:
	// milliseconds, tick count, volume units, or currency units.
	Threshold int64 `json:"threshold"`

	Ticks []Tick `json:"ticks"`
}

// ResampleResponse echoes the effective configuration alongside the bars.
type ResampleResponse struct {
	Mode      string `json:"mode"`
	Threshold int64  `json:"threshold"`
	TickCount int    `json:"tick_count"`
	Bars      []Bar  `json:"bars"`
}

// PresetSummary describes one loaded preset for GET /v1/presets.
type PresetSummary struct {
	Name      string `json:"name"`
	Mode      string `json:"mode"`
	Threshold int64  `json:"threshold"`
}

// ValidateTicks rejects malformed ticks at the API edge. The core
// propagates whatever arithmetic the input produces, so bad values are
// caught here instead.
func ValidateTicks(ticks []Tick) error {
	for i, t := range ticks {
		if math.IsNaN(t.Price) || math.IsInf(t.Price, 0) {
			return fmt.Errorf("tick %d: price must be finite", i)
		}
		if t.Volume < 0 {
			return fmt.Errorf("tick %d: volume must be non-negative, got %d", i, t.Volume)
		}
	}
	return nil
}
