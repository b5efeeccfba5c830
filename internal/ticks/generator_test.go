package ticks

import (
	"testing"

	"github.com/barline-lab/barline/internal/core/resample"
	"github.com/stretchr/testify/require"
)

func TestGenerator_DeterministicForSeed(t *testing.T) {
	a := NewGenerator(42, 1000, 500, 100.0, 50).Generate(200)
	b := NewGenerator(42, 1000, 500, 100.0, 50).Generate(200)
	require.Equal(t, a, b)

	c := NewGenerator(43, 1000, 500, 100.0, 50).Generate(200)
	require.NotEqual(t, a, c)
}

func TestGenerator_TicksAreWellFormed(t *testing.T) {
	out := NewGenerator(7, 0, 250, 80.0, 30).Generate(500)
	require.Len(t, out, 500)

	for i, tick := range out {
		require.Greater(t, tick.Price, 0.0)
		require.GreaterOrEqual(t, tick.Volume, int64(1))
		require.LessOrEqual(t, tick.Volume, int64(30))
		if i > 0 {
			require.Greater(t, tick.Timestamp, out[i-1].Timestamp)
		}
	}
}

// Generated sessions exercise the bar invariants across every mode at a
// scale the hand-written vectors cannot.
func TestGenerator_ResampledBarsHoldInvariants(t *testing.T) {
	ticks := NewGenerator(99, 0, 200, 120.0, 40).Generate(2000)

	var tickVolume int64
	for _, tick := range ticks {
		tickVolume += tick.Volume
	}

	configs := []struct {
		mode      string
		threshold int64
	}{
		{mode: resample.ModeTime, threshold: 5000},
		{mode: resample.ModeTick, threshold: 17},
		{mode: resample.ModeVolume, threshold: 300},
		{mode: resample.ModeDollar, threshold: 25000},
	}

	for _, cfg := range configs {
		r, err := resample.New(cfg.mode, cfg.threshold)
		require.NoError(t, err)

		bars := r.Resample(ticks)
		require.NotEmpty(t, bars)

		var barVolume int64
		for _, b := range bars {
			require.LessOrEqual(t, b.Low, b.Open)
			require.LessOrEqual(t, b.Low, b.Close)
			require.GreaterOrEqual(t, b.High, b.Open)
			require.GreaterOrEqual(t, b.High, b.Close)
			barVolume += b.TotalVolume
		}
		require.Equal(t, tickVolume, barVolume, "mode %s", cfg.mode)

		// Bars come out in chronological order.
		for i := 1; i < len(bars); i++ {
			require.GreaterOrEqual(t, bars[i].OpenTimestamp, bars[i-1].OpenTimestamp)
		}
	}
}
