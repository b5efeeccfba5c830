package resampling

import (
	"context"
	"sort"

	v1 "github.com/barline-lab/barline/internal/api/v1"
	"github.com/barline-lab/barline/internal/core/resample"
	"github.com/gin-gonic/gin"
)

// Service exposes the resampling engine over HTTP. The engine itself is
// pure and stateless; the service only adds wire parsing, validation,
// and preset lookup.
type Service struct {
	presets          resample.PresetRepository
	maxBodySizeBytes int
	maxTicks         int
}

func NewService(presets resample.PresetRepository, maxBodySizeMB, maxTicksPerRequest int) *Service {
	if presets == nil {
		panic("resampling: preset repository must not be nil")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	if maxTicksPerRequest <= 0 {
		maxTicksPerRequest = 100000
	}
	return &Service{
		presets:          presets,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
		maxTicks:         maxTicksPerRequest,
	}
}

// RegisterRoutes registers the resampling service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/resample", s.ResampleHandler)
	r.POST("/v1/resample/preset/:preset", s.ResamplePresetHandler)
	r.GET("/v1/presets", s.ListPresetsHandler)
}

// Resample runs one resampling pass with an ad-hoc configuration.
func (s *Service) Resample(req v1.ResampleRequest) (*v1.ResampleResponse, error) {
	r, err := resample.New(req.Mode, req.Threshold)
	if err != nil {
		return nil, err
	}

	bars := r.Resample(toCoreTicks(req.Ticks))
	return &v1.ResampleResponse{
		Mode:      r.Mode(),
		Threshold: r.Threshold(),
		TickCount: len(req.Ticks),
		Bars:      toWireBars(bars),
	}, nil
}

// ResampleWithPreset runs one resampling pass using a named preset.
func (s *Service) ResampleWithPreset(ctx context.Context, name string, ticks []v1.Tick) (*v1.ResampleResponse, error) {
	preset, err := s.presets.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	r, err := preset.NewResampler()
	if err != nil {
		return nil, err
	}

	bars := r.Resample(toCoreTicks(ticks))
	return &v1.ResampleResponse{
		Mode:      r.Mode(),
		Threshold: r.Threshold(),
		TickCount: len(ticks),
		Bars:      toWireBars(bars),
	}, nil
}

// ListPresets returns all loaded presets sorted by name.
func (s *Service) ListPresets() []v1.PresetSummary {
	presets := s.presets.GetPresets()
	out := make([]v1.PresetSummary, 0, len(presets))
	for _, p := range presets {
		out = append(out, v1.PresetSummary{
			Name:      p.Name,
			Mode:      p.Mode,
			Threshold: p.Threshold,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func toCoreTicks(ticks []v1.Tick) []resample.Tick {
	out := make([]resample.Tick, len(ticks))
	for i, t := range ticks {
		out[i] = resample.Tick{
			Timestamp: t.Timestamp,
			Price:     t.Price,
			Volume:    t.Volume,
		}
	}
	return out
}

func toWireBars(bars []resample.Bar) []v1.Bar {
	out := make([]v1.Bar, len(bars))
	for i, b := range bars {
		out[i] = v1.Bar{
			OpenTimestamp: b.OpenTimestamp,
			Open:          b.Open,
			High:          b.High,
			Low:           b.Low,
			Close:         b.Close,
			TotalVolume:   b.TotalVolume,
		}
	}
	return out
}
