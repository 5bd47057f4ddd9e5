package recommend

import "strings"

// InterestSet is an ordered list of interest categories with no two entries
// equal under Normalize. Order is insertion order.
type InterestSet struct {
	names []string
}

// NewInterestSet builds a set from names, dropping blanks and duplicates.
func NewInterestSet(names ...string) InterestSet {
	var s InterestSet
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add appends name unless an equivalent entry exists. Reports whether it was added.
func (s *InterestSet) Add(name string) bool {
	name = strings.TrimSpace(StripNamespace(name))
	if name == "" || s.Contains(name) {
		return false
	}
	s.names = append(s.names, name)
	return true
}

// Remove deletes the entry equivalent to name. Reports whether one was removed.
func (s *InterestSet) Remove(name string) bool {
	for i, n := range s.names {
		if SameCategory(n, name) {
			s.names = append(s.names[:i:i], s.names[i+1:]...)
			return true
		}
	}
	return false
}

// Toggle removes name if present, otherwise adds it. Returns the new membership.
func (s *InterestSet) Toggle(name string) bool {
	if s.Remove(name) {
		return false
	}
	return s.Add(name)
}

// Contains reports whether an equivalent entry exists.
func (s InterestSet) Contains(name string) bool {
	for _, n := range s.names {
		if SameCategory(n, name) {
			return true
		}
	}
	return false
}

// Values returns a copy of the entries in insertion order.
func (s InterestSet) Values() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s InterestSet) Len() int {
	return len(s.names)
}
