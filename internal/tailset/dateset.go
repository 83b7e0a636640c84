// Package tailset provides ordered date sets and the set algebra used to compare
// the tail days of two portfolio scenarios.
package tailset

import (
	"sort"

	"tail-risk-lab/internal/domain"
)

// DateSet is an immutable set of dates kept in ascending order.
type DateSet struct {
	dates []domain.Date
	index map[domain.Date]struct{}
}

// New builds a set from dates in any order; duplicates collapse.
func New(dates ...domain.Date) DateSet {
	s := DateSet{index: make(map[domain.Date]struct{}, len(dates))}
	for _, d := range dates {
		if _, ok := s.index[d]; ok {
			continue
		}
		s.index[d] = struct{}{}
		s.dates = append(s.dates, d)
	}
	sort.Slice(s.dates, func(i, j int) bool { return s.dates[i].Before(s.dates[j]) })
	return s
}

// Len returns the number of dates.
func (s DateSet) Len() int { return len(s.dates) }

// Contains reports whether d is in the set.
func (s DateSet) Contains(d domain.Date) bool {
	_, ok := s.index[d]
	return ok
}

// Dates returns a copy of the dates in ascending order.
func (s DateSet) Dates() []domain.Date {
	return append([]domain.Date(nil), s.dates...)
}

// Equal reports whether both sets hold the same dates.
func (s DateSet) Equal(o DateSet) bool {
	if s.Len() != o.Len() {
		return false
	}
	for i, d := range s.dates {
		if o.dates[i] != d {
			return false
		}
	}
	return true
}

// Union returns s ∪ o.
func (s DateSet) Union(o DateSet) DateSet {
	return New(append(s.Dates(), o.dates...)...)
}

// Difference returns s − o.
func (s DateSet) Difference(o DateSet) DateSet {
	var out []domain.Date
	for _, d := range s.dates {
		if !o.Contains(d) {
			out = append(out, d)
		}
	}
	return New(out...)
}

// Intersection returns s ∩ o.
func (s DateSet) Intersection(o DateSet) DateSet {
	var out []domain.Date
	for _, d := range s.dates {
		if o.Contains(d) {
			out = append(out, d)
		}
	}
	return New(out...)
}
