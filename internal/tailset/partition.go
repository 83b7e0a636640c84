package tailset

import "tail-risk-lab/internal/domain"

// Partition splits self into the dates absent from other and the dates shared with it:
// onlyInSelf = self − other, inBoth = self ∩ other. The two results are disjoint
// and their union is self.
func Partition(self, other DateSet) (onlyInSelf, inBoth DateSet) {
	return self.Difference(other), self.Intersection(other)
}

// Class labels a reference tail day relative to a comparison scenario.
type Class int

const (
	// Unclassified means the date is in neither side of the partition.
	Unclassified Class = iota
	// Distinct tail days are tail days of the reference scenario only.
	Distinct
	// Shared tail days are tail days of both scenarios.
	Shared
)

func (c Class) String() string {
	switch c {
	case Distinct:
		return "distinct"
	case Shared:
		return "shared"
	default:
		return "unclassified"
	}
}

// Label returns the short caption used in reports: a Distinct day marks a change
// in the tail, a Shared day remains in it.
func (c Class) Label() string {
	switch c {
	case Distinct:
		return "Change"
	case Shared:
		return "Remain"
	default:
		return ""
	}
}

// Classify places d in the partition produced by Partition.
func Classify(d domain.Date, onlyInSelf, inBoth DateSet) Class {
	switch {
	case onlyInSelf.Contains(d):
		return Distinct
	case inBoth.Contains(d):
		return Shared
	default:
		return Unclassified
	}
}
