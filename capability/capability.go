// Package capability decides who can see or do what.
//
// Allowed is the single policy function consulted by navigation rendering,
// the route guard and the gateway middleware. Keeping one call site for the
// decision is what keeps those surfaces from drifting apart.
package capability

import (
	fieldops "github.com/opsdeck/fieldops-go"
)

// Descriptor names a gated capability and the roles allowed to exercise it.
type Descriptor struct {
	// Name identifies the capability (e.g. "projects.edit").
	Name string

	// Roles is the allowed-role set. Ignored when SuperuserOnly or Public.
	Roles []fieldops.Role

	// SuperuserOnly restricts the capability to superusers regardless of role.
	SuperuserOnly bool

	// Public marks the capability open to everyone, including anonymous users.
	Public bool
}

// Public is the descriptor for ungated affordances.
var Public = Descriptor{Name: "public", Public: true}

// SuperuserOnly returns a descriptor granted only to superusers.
func SuperuserOnly(name string) Descriptor {
	return Descriptor{Name: name, SuperuserOnly: true}
}

// AnyOf returns a descriptor granted to any of the given roles.
func AnyOf(name string, roles ...fieldops.Role) Descriptor {
	return Descriptor{Name: name, Roles: roles}
}

// Allowed reports whether the profile may exercise the capability.
//
// Policy order: public capabilities are open to everyone; a nil profile is
// denied everything else; a superuser is granted everything; otherwise the
// profile's role must be in the descriptor's role set. Pure and deterministic.
func Allowed(p *fieldops.Profile, d Descriptor) bool {
	if d.Public {
		return true
	}
	if p == nil {
		return false
	}
	if p.IsSuperuser {
		return true
	}
	if d.SuperuserOnly {
		return false
	}
	for _, r := range d.Roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
