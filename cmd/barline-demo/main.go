// Command barline-demo resamples one synthetic tick session under all
// four policies and prints the resulting bars.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/barline-lab/barline/internal/core/resample"
	"github.com/barline-lab/barline/internal/ticks"
	"golang.org/x/sync/errgroup"
)

type run struct {
	label     string
	mode      string
	threshold int64
}

func main() {
	n := flag.Int("n", 200, "Number of ticks to generate")
	seed := flag.Int64("seed", 1, "Generator seed")
	startPrice := flag.Float64("price", 100.0, "Starting price")
	flag.Parse()

	session := ticks.NewGenerator(*seed, 0, 1000, *startPrice, 50).Generate(*n)

	runs := []run{
		{label: "TIME (10 seconds)", mode: resample.ModeTime, threshold: 10000},
		{label: "TICK (5 ticks)", mode: resample.ModeTick, threshold: 5},
		{label: "VOLUME (50 contracts)", mode: resample.ModeVolume, threshold: 50},
		{label: "DOLLAR VALUE ($5000)", mode: resample.ModeDollar, threshold: 5000},
	}

	// One shared tick slice, four resamplers in parallel: resamplers are
	// immutable and each call carries its own state, so no locking.
	results := make([][]resample.Bar, len(runs))
	g, _ := errgroup.WithContext(context.Background())
	for i, r := range runs {
		i, r := i, r
		g.Go(func() error {
			rs, err := resample.New(r.mode, r.threshold)
			if err != nil {
				return err
			}
			results[i] = rs.Resample(session)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("Resampling failed", "error", err)
		os.Exit(1)
	}

	for i, r := range runs {
		fmt.Printf("--- Resampling by %s ---\n", r.label)
		for _, b := range results[i] {
			fmt.Printf("open_ts=%d O=%.4f H=%.4f L=%.4f C=%.4f V=%d\n",
				b.OpenTimestamp, b.Open, b.High, b.Low, b.Close, b.TotalVolume)
		}
		fmt.Println()
	}
}
