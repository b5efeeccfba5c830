// Package ticks builds synthetic tick sequences for demos and tests.
package ticks

import (
	"math/rand"

	"github.com/barline-lab/barline/internal/core/resample"
)

// Generator produces a chronological random-walk tick sequence.
// Construction from a seed makes output reproducible.
type Generator struct {
	startTime  int64 // ms since epoch of the first tick
	stepMillis int64 // mean spacing between ticks
	startPrice float64
	maxVolume  int64
	rng        *rand.Rand
}

func NewGenerator(seed, startTime, stepMillis int64, startPrice float64, maxVolume int64) *Generator {
	if stepMillis <= 0 {
		stepMillis = 1000
	}
	if startPrice <= 0 {
		startPrice = 100.0
	}
	if maxVolume <= 0 {
		maxVolume = 100
	}
	return &Generator{
		startTime:  startTime,
		stepMillis: stepMillis,
		startPrice: startPrice,
		maxVolume:  maxVolume,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// Generate returns n ticks sorted ascending by timestamp. Prices follow
// a simple random walk and never drop to zero or below; volumes are
// uniform in [1, maxVolume].
func (g *Generator) Generate(n int) []resample.Tick {
	out := make([]resample.Tick, 0, n)

	ts := g.startTime
	price := g.startPrice
	for i := 0; i < n; i++ {
		// simple random walk
		delta := (g.rng.Float64() - 0.5) * 0.02 * price
		price += delta
		if price <= 0 {
			price = g.startPrice * g.rng.Float64()
		}

		out = append(out, resample.Tick{
			Timestamp: ts,
			Price:     price,
			Volume:    1 + g.rng.Int63n(g.maxVolume),
		})

		// jittered spacing, at least 1ms so timestamps stay ascending
		ts += 1 + g.rng.Int63n(2*g.stepMillis)
	}
	return out
}
