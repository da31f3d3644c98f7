// Package nav renders role-gated navigation.
//
// A Registry is the ordered list of navigation entries; VisibleTo filters it
// through the capability resolver, the same policy function the route guard
// consults, so a link is never shown for a route its owner cannot enter.
package nav

import (
	fieldops "github.com/opsdeck/fieldops-go"
	"github.com/opsdeck/fieldops-go/capability"
)

// Entry is a single navigation affordance.
type Entry struct {
	// Label is the display text.
	Label string

	// Route is the navigation target.
	Route string

	// Capability gates visibility. The zero value (no roles, not public)
	// makes the entry superuser-only by resolver policy, so ungated entries
	// should set capability.Public explicitly.
	Capability capability.Descriptor
}

// Registry holds navigation entries in display order.
type Registry struct {
	entries []Entry
}

// NewRegistry creates a registry with the given entries.
func NewRegistry(entries ...Entry) *Registry {
	return &Registry{entries: entries}
}

// Add appends entries to the registry.
func (r *Registry) Add(entries ...Entry) {
	r.entries = append(r.entries, entries...)
}

// Entries returns all entries regardless of visibility.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// VisibleTo returns the entries the profile may see, preserving order.
// A nil profile sees only public entries.
func (r *Registry) VisibleTo(p *fieldops.Profile) []Entry {
	var out []Entry
	for _, e := range r.entries {
		if capability.Allowed(p, e.Capability) {
			out = append(out, e)
		}
	}
	return out
}

// FromPolicy builds a registry resolving capability names against a policy.
// Entries naming an unknown capability are gated superuser-only, matching
// Policy.Allowed semantics for unknown names.
func FromPolicy(policy *capability.Policy, entries []PolicyEntry) *Registry {
	r := &Registry{}
	for _, e := range entries {
		d, ok := policy.Descriptor(e.Capability)
		if !ok {
			d = capability.SuperuserOnly(e.Capability)
		}
		r.entries = append(r.entries, Entry{Label: e.Label, Route: e.Route, Capability: d})
	}
	return r
}

// PolicyEntry is a navigation entry referencing a policy capability by name.
type PolicyEntry struct {
	Label      string `yaml:"label"`
	Route      string `yaml:"route"`
	Capability string `yaml:"capability"`
}
