package resample

// Tick is a single trade event. Ticks are produced upstream (feed, file,
// generator) and are assumed to arrive sorted ascending by Timestamp;
// the resampler never reorders or validates ordering.
type Tick struct {
	Timestamp int64   `json:"timestamp"` // milliseconds since epoch
	Price     float64 `json:"price"`
	Volume    int64   `json:"volume"`
}

// Bar is an OHLCV aggregate over a contiguous run of ticks.
type Bar struct {
	OpenTimestamp int64   `json:"open_timestamp"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	TotalVolume   int64   `json:"total_volume"`
}

// newBar seeds a bar from its first tick. openTimestamp is the bar's
// opening timestamp — for window-driven bars the bucket start, for
// measure-driven bars the first tick's own timestamp.
func newBar(openTimestamp int64, t Tick) Bar {
	return Bar{
		OpenTimestamp: openTimestamp,
		Open:          t.Price,
		High:          t.Price,
		Low:           t.Price,
		Close:         t.Price,
		TotalVolume:   t.Volume,
	}
}

// fold updates the bar with one more tick: high/low are running extrema,
// close tracks the latest price, volume accumulates. Open is fixed at
// bar creation. Every mode shares this single update rule.
func (b *Bar) fold(t Tick) {
	if t.Price > b.High {
		b.High = t.Price
	}
	if t.Price < b.Low {
		b.Low = t.Price
	}
	b.Close = t.Price
	b.TotalVolume += t.Volume
}
