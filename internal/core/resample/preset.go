package resample

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrPresetNotFound marks lookups of presets that are not loaded.
var ErrPresetNotFound = errors.New("preset not found")

// Preset is a named, reusable resampler configuration.
// Presets are loaded at startup from YAML files and cached in memory —
// no hot reload.
type Preset struct {
	Name      string `yaml:"name"`
	Mode      string `yaml:"mode"`      // time, tick, volume, dollar
	Threshold int64  `yaml:"threshold"` // unit depends on mode
}

// NewResampler constructs the resampler this preset describes.
func (p Preset) NewResampler() (*Resampler, error) {
	return New(p.Mode, p.Threshold)
}

// PresetRepository defines the interface for loading resampler presets.
type PresetRepository interface {
	// Get returns the preset with the given name, or an error wrapping
	// ErrPresetNotFound.
	Get(ctx context.Context, name string) (*Preset, error)

	// GetPresets returns all loaded presets as a slice.
	GetPresets() []Preset
}

// FileSystemPresetRepository loads presets from *.yaml files in a
// directory. Each file contains exactly one preset at the top level.
type FileSystemPresetRepository struct {
	dir     string
	presets map[string]Preset // keyed by Name
}

// NewFileSystemPresetRepository creates a new repository and eagerly
// loads all presets from dir. Returns an error if any preset file is
// malformed or invalid.
func NewFileSystemPresetRepository(dir string) (*FileSystemPresetRepository, error) {
	repo := &FileSystemPresetRepository{
		dir:     dir,
		presets: make(map[string]Preset),
	}
	if err := repo.load(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *FileSystemPresetRepository) load() error {
	info, err := os.Stat(r.dir)
	if os.IsNotExist(err) {
		return nil // no preset directory — valid (zero presets configured)
	}
	if err != nil {
		return fmt.Errorf("preset dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("preset path %q is not a directory", r.dir)
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("reading preset dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || (!strings.HasSuffix(e.Name(), ".yaml") && !strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}

		path := filepath.Join(r.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading preset file %s: %w", path, err)
		}

		var p Preset
		if err := yaml.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("parsing preset file %s: %w", path, err)
		}
		if p.Name == "" {
			continue // skip empty / comment-only files
		}

		if !ValidMode(p.Mode) {
			return fmt.Errorf("preset %q: unsupported mode %q", p.Name, p.Mode)
		}
		if p.Threshold <= 0 {
			return fmt.Errorf("preset %q: threshold must be positive, got %d", p.Name, p.Threshold)
		}

		if _, exists := r.presets[p.Name]; exists {
			return fmt.Errorf("preset %q: duplicate preset name (check multiple YAML files)", p.Name)
		}

		r.presets[p.Name] = p
	}
	return nil
}

// Get returns the preset with the given name.
func (r *FileSystemPresetRepository) Get(_ context.Context, name string) (*Preset, error) {
	p, ok := r.presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}
	return &p, nil
}

// GetPresets returns all loaded presets as a slice.
func (r *FileSystemPresetRepository) GetPresets() []Preset {
	presets := make([]Preset, 0, len(r.presets))
	for _, p := range r.presets {
		presets = append(presets, p)
	}
	return presets
}
