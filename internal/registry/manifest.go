package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spy-lang/spy/internal/fqn"
)

// Manifest is the ambient `spy.yaml` registry-assembly format (spec
// SPEC_FULL.md §4.4 supplement): a module declares its name and which
// symbols it re-exports from parent registries, mirroring the
// teacher's funxy.yaml-driven builtin module assembly
// (internal/ext in the teacher repo).
type Manifest struct {
	Module  string         `yaml:"module"`
	Reexport []ReexportSpec `yaml:"reexport"`
}

// ReexportSpec names a symbol to pull in from another already-built
// registry, optionally under a different local name.
type ReexportSpec struct {
	From string `yaml:"from"`
	Name string `yaml:"name"`
	As   string `yaml:"as"`
}

// LoadManifest reads and decodes a spy.yaml file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: reading manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("registry: parsing manifest %s: %w", path, err)
	}
	return &m, nil
}

// Apply builds r (which must already be named m.Module) by reexporting
// every symbol m.Reexport names out of sources, a lookup table of
// already-constructed parent registries keyed by module name.
func (m *Manifest) Apply(r *Registry, sources map[string]*Registry) error {
	for _, spec := range m.Reexport {
		src, ok := sources[spec.From]
		if !ok {
			return fmt.Errorf("registry: manifest %s: unknown source module %q", m.Module, spec.From)
		}
		qn := fqn.Parse(spec.From).Join(spec.Name)
		val, ok := src.Lookup(qn)
		if !ok {
			return fmt.Errorf("registry: manifest %s: %s has no symbol %q", m.Module, spec.From, spec.Name)
		}
		localName := spec.Name
		if spec.As != "" {
			localName = spec.As
		}
		r.Define(r.FQN(localName), val)
	}
	return nil
}
