package textgen

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/presets/sampling.yaml
var samplingPresetsYAML []byte

// Presets are client-side shortcuts for the sampling knobs of a
// GenerationRequest. They are unrelated to GenerationRequest.Preset, which
// names a preset stored on the service.
//
// The embedded file ships a handful of profiles. Library users can add their
// own with LoadFromFile (same YAML layout) or Register.

// PresetFile is the on-disk layout of a presets YAML file.
type PresetFile struct {
	Version     string                    `yaml:"version"`
	LastUpdated string                    `yaml:"last_updated"`
	Presets     map[string]SamplingPreset `yaml:"presets"`
}

// SamplingPreset is a named set of sampling parameters.
// All fields are optional pointers to distinguish "not set" from "set to zero value".
type SamplingPreset struct {
	Name        string `yaml:"-"`
	Description string `yaml:"description"`

	DoSample                 *bool    `yaml:"do_sample,omitempty"`
	Temperature              *float64 `yaml:"temperature,omitempty"`
	TopP                     *float64 `yaml:"top_p,omitempty"`
	TypicalP                 *float64 `yaml:"typical_p,omitempty"`
	EpsilonCutoff            *float64 `yaml:"epsilon_cutoff,omitempty"`
	EtaCutoff                *float64 `yaml:"eta_cutoff,omitempty"`
	TFS                      *uint64  `yaml:"tfs,omitempty"`
	TopK                     *uint32  `yaml:"top_k,omitempty"`
	RepetitionPenalty        *float64 `yaml:"repetition_penalty,omitempty"`
	RepetitionPenaltyRange   *float64 `yaml:"repetition_penalty_range,omitempty"`
	EncoderRepetitionPenalty *float64 `yaml:"encoder_repetition_penalty,omitempty"`
	NoRepeatNgramSize        *uint32  `yaml:"no_repeat_ngram_size,omitempty"`
	NumBeams                 *uint32  `yaml:"num_beams,omitempty"`
	PenaltyAlpha             *float64 `yaml:"penalty_alpha,omitempty"`
	LengthPenalty            *float64 `yaml:"length_penalty,omitempty"`
	MirostatMode             *uint64  `yaml:"mirostat_mode,omitempty"`
	MirostatTau              *float64 `yaml:"mirostat_tau,omitempty"`
	MirostatEta              *float64 `yaml:"mirostat_eta,omitempty"`
	Seed                     *int64   `yaml:"seed,omitempty"`
}

// ApplyTo copies every parameter the preset sets onto req.
func (p *SamplingPreset) ApplyTo(req *GenerationRequest) {
	setIf(&req.DoSample, p.DoSample)
	setIf(&req.Temperature, p.Temperature)
	setIf(&req.TopP, p.TopP)
	setIf(&req.TypicalP, p.TypicalP)
	setIf(&req.EpsilonCutoff, p.EpsilonCutoff)
	setIf(&req.EtaCutoff, p.EtaCutoff)
	setIf(&req.TFS, p.TFS)
	setIf(&req.TopK, p.TopK)
	setIf(&req.RepetitionPenalty, p.RepetitionPenalty)
	setIf(&req.RepetitionPenaltyRange, p.RepetitionPenaltyRange)
	setIf(&req.EncoderRepetitionPenalty, p.EncoderRepetitionPenalty)
	setIf(&req.NoRepeatNgramSize, p.NoRepeatNgramSize)
	setIf(&req.NumBeams, p.NumBeams)
	setIf(&req.PenaltyAlpha, p.PenaltyAlpha)
	setIf(&req.LengthPenalty, p.LengthPenalty)
	setIf(&req.MirostatMode, p.MirostatMode)
	setIf(&req.MirostatTau, p.MirostatTau)
	setIf(&req.MirostatEta, p.MirostatEta)
	setIf(&req.Seed, p.Seed)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// ApplyPreset applies a preset from the global registry.
func (r *GenerationRequest) ApplyPreset(name string) error {
	preset, err := GetPresetRegistry().Get(name)
	if err != nil {
		return err
	}
	preset.ApplyTo(r)
	return nil
}

// PresetRegistry manages sampling presets
type PresetRegistry struct {
	presets map[string]SamplingPreset
	mu      sync.RWMutex
}

var (
	globalPresets     *PresetRegistry
	globalPresetsOnce sync.Once
)

// GetPresetRegistry returns the global preset registry (singleton)
func GetPresetRegistry() *PresetRegistry {
	globalPresetsOnce.Do(func() {
		globalPresets = NewPresetRegistry()
		// The embedded file is compiled in and covered by tests
		if err := globalPresets.load(samplingPresetsYAML); err != nil {
			panic(fmt.Sprintf("textgen: embedded presets: %v", err))
		}
	})
	return globalPresets
}

// NewPresetRegistry returns an empty registry.
func NewPresetRegistry() *PresetRegistry {
	return &PresetRegistry{
		presets: make(map[string]SamplingPreset),
	}
}

func (r *PresetRegistry) load(data []byte) error {
	var file PresetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to unmarshal presets: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for name, preset := range file.Presets {
		preset.Name = name
		r.presets[name] = preset
	}
	return nil
}

// LoadFromFile merges presets from a YAML file into the registry.
// Presets with an existing name are replaced.
func (r *PresetRegistry) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read presets file: %w", err)
	}
	return r.load(data)
}

// Register adds or replaces a preset programmatically.
func (r *PresetRegistry) Register(preset SamplingPreset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presets[preset.Name] = preset
}

// Get returns a copy of the named preset
func (r *PresetRegistry) Get(name string) (*SamplingPreset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	preset, ok := r.presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	return &preset, nil
}

// Names returns the registered preset names in sorted order
func (r *PresetRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadPresetsFromFile is a convenience function that calls the global registry's LoadFromFile.
func LoadPresetsFromFile(path string) error {
	return GetPresetRegistry().LoadFromFile(path)
}

// RegisterPreset is a convenience function that calls the global registry's Register.
func RegisterPreset(preset SamplingPreset) {
	GetPresetRegistry().Register(preset)
}
