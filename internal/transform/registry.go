package transform

import (
	"sort"
	"strings"

	"github.com/tpgo/tpgo/internal/domain"
)

// Preset is a named built-in policy with a human description.
type Preset struct {
	Name        string
	Description string
	Build       func() (domain.TaxPolicy, error)
}

// PresetRegistry manages built-in policy presets, keyed by
// case-insensitive name.
type PresetRegistry struct {
	presets map[string]Preset
}

// NewPresetRegistry creates an empty registry.
func NewPresetRegistry() *PresetRegistry {
	return &PresetRegistry{
		presets: make(map[string]Preset),
	}
}

// Register adds a preset to the registry.
func (pr *PresetRegistry) Register(p Preset) {
	pr.presets[strings.ToLower(p.Name)] = p
}

// Get retrieves a preset by name (case-insensitive).
func (pr *PresetRegistry) Get(name string) (Preset, bool) {
	p, ok := pr.presets[strings.ToLower(name)]
	return p, ok
}

// Names returns all registered preset names, sorted.
func (pr *PresetRegistry) Names() []string {
	names := make([]string, 0, len(pr.presets))
	for name := range pr.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
