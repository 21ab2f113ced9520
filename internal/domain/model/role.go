// Package model contains domain models passed between layers.
package model

import "strings"

// Role is the seat the current device acts as during a run.
type Role string

// Device roles.
const (
	RoleDriver  Role = "driver"
	RoleSpotter Role = "spotter"
)

// DefaultRole is the role a fresh process starts with.
const DefaultRole = RoleSpotter

// Valid reports whether r is one of the two device roles.
func (r Role) Valid() bool {
	return r == RoleDriver || r == RoleSpotter
}

// Opposite returns the other device role.
func (r Role) Opposite() Role {
	if r == RoleDriver {
		return RoleSpotter
	}
	return RoleDriver
}

// MemberRole is the role a person holds in a contact list or team roster.
type MemberRole string

// Roster roles.
const (
	MemberDriver  MemberRole = "driver"
	MemberSpotter MemberRole = "spotter"
	MemberCrew    MemberRole = "crew"
)

// MemberRoles lists every roster role in display order.
var MemberRoles = []MemberRole{MemberDriver, MemberSpotter, MemberCrew}

// Valid reports whether r is a known roster role.
func (r MemberRole) Valid() bool {
	switch r {
	case MemberDriver, MemberSpotter, MemberCrew:
		return true
	}
	return false
}

// ParseMemberRole normalizes s; empty input maps to crew.
func ParseMemberRole(s string) (MemberRole, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return MemberCrew, true
	}
	r := MemberRole(s)
	return r, r.Valid()
}
