package capability

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	fieldops "github.com/opsdeck/fieldops-go"
)

// Policy is a named set of capability descriptors loaded from configuration.
//
// The allowed-role universe is declared in the policy file rather than
// hardcoded, so deployments can extend the role set without a rebuild.
type Policy struct {
	roles        map[fieldops.Role]bool
	capabilities map[string]Descriptor
}

// policyFile is the YAML shape of a policy document.
type policyFile struct {
	Roles        []string         `yaml:"roles"`
	Capabilities []capabilityFile `yaml:"capabilities"`
}

type capabilityFile struct {
	Name          string   `yaml:"name"`
	Roles         []string `yaml:"roles"`
	SuperuserOnly bool     `yaml:"superuser_only"`
	Public        bool     `yaml:"public"`
}

// LoadPolicy reads and parses a policy document from a YAML file.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fieldops/capability: %w", err)
	}
	return ParsePolicy(data)
}

// ParsePolicy parses a policy document from YAML bytes.
//
// Every role referenced by a capability must be declared in the roles list;
// an undeclared role is almost always a typo that would silently deny.
func ParsePolicy(data []byte) (*Policy, error) {
	var doc policyFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("fieldops/capability: %w", err)
	}
	if len(doc.Roles) == 0 {
		return nil, fmt.Errorf("fieldops/capability: policy declares no roles")
	}

	p := &Policy{
		roles:        make(map[fieldops.Role]bool, len(doc.Roles)),
		capabilities: make(map[string]Descriptor, len(doc.Capabilities)),
	}
	for _, r := range doc.Roles {
		p.roles[fieldops.Role(r)] = true
	}

	for _, c := range doc.Capabilities {
		if c.Name == "" {
			return nil, fmt.Errorf("fieldops/capability: capability without a name")
		}
		if _, dup := p.capabilities[c.Name]; dup {
			return nil, fmt.Errorf("fieldops/capability: duplicate capability %q", c.Name)
		}

		d := Descriptor{
			Name:          c.Name,
			SuperuserOnly: c.SuperuserOnly,
			Public:        c.Public,
		}
		for _, r := range c.Roles {
			role := fieldops.Role(r)
			if !p.roles[role] {
				return nil, fmt.Errorf("fieldops/capability: capability %q references undeclared role %q", c.Name, r)
			}
			d.Roles = append(d.Roles, role)
		}
		p.capabilities[c.Name] = d
	}
	return p, nil
}

// KnownRole reports whether the role is declared in the policy.
func (p *Policy) KnownRole(r fieldops.Role) bool {
	return p.roles[r]
}

// Descriptor returns the named capability descriptor.
func (p *Policy) Descriptor(name string) (Descriptor, bool) {
	d, ok := p.capabilities[name]
	return d, ok
}

// Allowed reports whether the profile may exercise the named capability.
// Unknown capability names are denied for everyone except superusers.
func (p *Policy) Allowed(profile *fieldops.Profile, name string) bool {
	d, ok := p.capabilities[name]
	if !ok {
		return profile != nil && profile.IsSuperuser
	}
	return Allowed(profile, d)
}
