package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	ArchetypesFileName = "archetypes.yaml"
	WavesFileName      = "waves.yaml"
	LayersFileName     = "layers.yaml"
)

// Catalog is the loaded, defaulted set of archetypes, wave rules and layer
// names. It is read-only once built; hot reload swaps in a new Catalog.
type Catalog struct {
	archetypes map[string]*ArchetypeSpec
	order      []string
	wave       WaveSpec
	layers     []string
	scripts    map[string][]byte
}

// LoadCatalog reads all three prefab files plus every referenced script.
func LoadCatalog() (*Catalog, error) {
	arch, err := LoadSpec[ArchetypesFile](ArchetypesFileName)
	if err != nil {
		return nil, err
	}
	wave := DefaultWaveSpec()
	if err := LoadInto(WavesFileName, &wave); err != nil {
		return nil, err
	}
	layers, err := LoadSpec[LayersFile](LayersFileName)
	if err != nil {
		return nil, err
	}
	c := NewCatalog(arch.Archetypes, wave, layers.Layers)
	for _, name := range c.order {
		a := c.archetypes[name]
		if a.AttackScript == "" {
			continue
		}
		src, err := LoadScript(a.AttackScript)
		if err != nil {
			return nil, fmt.Errorf("prefabs: archetype %s: script %s: %w", name, a.AttackScript, err)
		}
		c.scripts[a.AttackScript] = src
	}
	return c, nil
}

// ParseCatalog builds a catalog from raw YAML documents. Scripts are not
// resolved.
func ParseCatalog(archetypes, waves, layers []byte) (*Catalog, error) {
	var arch ArchetypesFile
	if err := yaml.Unmarshal(archetypes, &arch); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal %s: %w", ArchetypesFileName, err)
	}
	wave := DefaultWaveSpec()
	if len(waves) > 0 {
		if err := yaml.Unmarshal(waves, &wave); err != nil {
			return nil, fmt.Errorf("prefabs: unmarshal %s: %w", WavesFileName, err)
		}
	}
	var lf LayersFile
	if len(layers) > 0 {
		if err := yaml.Unmarshal(layers, &lf); err != nil {
			return nil, fmt.Errorf("prefabs: unmarshal %s: %w", LayersFileName, err)
		}
	}
	return NewCatalog(arch.Archetypes, wave, lf.Layers), nil
}

// NewCatalog applies defaults and indexes archetypes by name. Later
// duplicates are kept out of the index; Lint reports them.
func NewCatalog(archetypes []ArchetypeSpec, wave WaveSpec, layers []string) *Catalog {
	c := &Catalog{
		archetypes: make(map[string]*ArchetypeSpec, len(archetypes)),
		wave:       wave,
		layers:     append([]string(nil), layers...),
		scripts:    make(map[string][]byte),
	}
	for i := range archetypes {
		a := archetypes[i].Clone()
		a.applyDefaults()
		c.order = append(c.order, a.Name)
		if _, dup := c.archetypes[a.Name]; dup {
			continue
		}
		c.archetypes[a.Name] = a
	}
	return c
}

// Archetype returns the shared template for name. Callers must Clone before
// mutating.
func (c *Catalog) Archetype(name string) (*ArchetypeSpec, bool) {
	if c == nil || name == "" {
		return nil, false
	}
	a, ok := c.archetypes[name]
	return a, ok
}

// MustArchetype is Archetype with an error for unknown names.
func (c *Catalog) MustArchetype(name string) (*ArchetypeSpec, error) {
	a, ok := c.Archetype(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownArchetype, name)
	}
	return a, nil
}

// Names lists archetypes in file order, duplicates included.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

func (c *Catalog) Wave() WaveSpec {
	w := c.wave
	w.Pool = append([]PoolEntrySpec(nil), c.wave.Pool...)
	return w
}

func (c *Catalog) Layers() []string {
	return append([]string(nil), c.layers...)
}

// Script returns the source of a referenced attack-selection script.
func (c *Catalog) Script(name string) ([]byte, bool) {
	src, ok := c.scripts[name]
	return src, ok
}

// SetScript registers script source, mainly for tests and tools.
func (c *Catalog) SetScript(name string, src []byte) {
	c.scripts[name] = src
}
