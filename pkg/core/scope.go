package core

import (
	"fmt"
	"strings"
)

// Scope is a level of the geographic hierarchy.
type Scope string

// Scope constants, outermost first.
const (
	ScopeWorld     Scope = "world"
	ScopeContinent Scope = "continent"
	ScopeRegion    Scope = "region"
	ScopeCountry   Scope = "country"
	ScopeDistrict  Scope = "district"
	ScopeCity      Scope = "city"
)

// AllScopes lists every scope in hierarchy order.
var AllScopes = []Scope{ScopeWorld, ScopeContinent, ScopeRegion, ScopeCountry, ScopeDistrict, ScopeCity}

// BreakdownScopes are the scopes a population breakdown can be grouped by.
var BreakdownScopes = []Scope{ScopeContinent, ScopeRegion, ScopeCountry}

// String returns the scope name.
func (s Scope) String() string {
	return string(s)
}

// ParseScope converts a user-supplied name to a Scope.
func ParseScope(name string) (Scope, error) {
	s := Scope(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range AllScopes {
		if s == known {
			return s, nil
		}
	}
	return "", &ArgumentError{Field: "scope", Reason: fmt.Sprintf("unknown scope %q", name)}
}

// In reports whether s is one of the given scopes.
func (s Scope) In(scopes ...Scope) bool {
	for _, other := range scopes {
		if s == other {
			return true
		}
	}
	return false
}
