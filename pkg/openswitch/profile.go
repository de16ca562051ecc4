package openswitch

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/HPENetworking/topology-openswitch/pkg/attributes"
)

// Profile is a declarative description of a device class family: the same
// information drivers pass to RegisterClass, kept in a YAML file so that
// capability tables can be reviewed and extended without touching driver
// code.
//
// Classes are registered in file order, so parents must be listed before
// their children.
type Profile struct {
	Classes []ProfileClass `yaml:"classes"`
}

// ProfileClass is one class entry in a profile file.
type ProfileClass struct {
	Name         string                  `yaml:"name"`
	Parents      []string                `yaml:"parents"`
	Abstract     bool                    `yaml:"abstract"`
	Capabilities []attributes.Capability `yaml:"capabilities"`
}

// ParseProfile reads and validates a profile file.
func ParseProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile %s: %w", path, err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("validating profile %s: %w", path, err)
	}
	return &p, nil
}

func (p *Profile) validate() error {
	if len(p.Classes) == 0 {
		return fmt.Errorf("no classes declared")
	}
	seen := make(map[string]bool, len(p.Classes))
	for _, class := range p.Classes {
		if class.Name == "" {
			return fmt.Errorf("class with empty name")
		}
		if seen[class.Name] {
			return fmt.Errorf("class %s declared twice", class.Name)
		}
		seen[class.Name] = true
		for _, cap := range class.Capabilities {
			if cap.Name == "" {
				return fmt.Errorf("class %s: capability with empty name", class.Name)
			}
		}
	}
	return nil
}

// Apply registers every class of the profile into the given hierarchy, in
// file order.
func (p *Profile) Apply(h *attributes.Hierarchy) error {
	for _, class := range p.Classes {
		_, err := h.Register(attributes.ClassSpec{
			Name:         class.Name,
			Parents:      class.Parents,
			Abstract:     class.Abstract,
			Capabilities: class.Capabilities,
		})
		if err != nil {
			return fmt.Errorf("applying profile: %w", err)
		}
	}
	return nil
}

// LoadProfile parses a profile file and registers its classes into the
// package's OpenSwitch hierarchy.
func LoadProfile(path string) error {
	p, err := ParseProfile(path)
	if err != nil {
		return err
	}
	return p.Apply(hier)
}
