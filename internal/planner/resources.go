package planner

import "sort"

// ResourceSet is an unordered set of resource identifiers.
// A nil ResourceSet is a valid empty set for every read operation.
type ResourceSet map[string]struct{}

// NewResourceSet returns a set holding ids. Empty identifiers are skipped.
func NewResourceSet(ids ...string) ResourceSet {
	s := make(ResourceSet, len(ids))
	s.Add(ids...)
	return s
}

// Add inserts ids into the set.
func (s ResourceSet) Add(ids ...string) {
	for _, id := range ids {
		if id == "" {
			continue
		}
		s[id] = struct{}{}
	}
}

// Len returns the number of identifiers.
func (s ResourceSet) Len() int {
	return len(s)
}

// Contains reports whether id is in the set.
func (s ResourceSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Intersects reports whether s and o share at least one identifier.
func (s ResourceSet) Intersects(o ResourceSet) bool {
	small, large := s, o
	if len(large) < len(small) {
		small, large = large, small
	}
	for id := range small {
		if large.Contains(id) {
			return true
		}
	}
	return false
}

// Union returns a new set holding the members of s and o.
func (s ResourceSet) Union(o ResourceSet) ResourceSet {
	out := make(ResourceSet, len(s)+len(o))
	for id := range s {
		out[id] = struct{}{}
	}
	for id := range o {
		out[id] = struct{}{}
	}
	return out
}

// Sorted returns the identifiers in ascending order. The result is never nil.
func (s ResourceSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
