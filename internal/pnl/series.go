package pnl

import "tail-risk-lab/internal/domain"

// Series is an ordered, labeled vector. Each entry is either a known value or missing.
// A Series is never mutated after it is returned.
type Series[K comparable] struct {
	keys   []K
	values []float64
	known  []bool
	index  map[K]int
}

// DaySeries is a Series keyed by trading day.
type DaySeries = Series[domain.Date]

// AssetSeries is a Series keyed by asset identifier.
type AssetSeries = Series[string]

func newSeries[K comparable](keys []K) Series[K] {
	s := Series[K]{
		keys:   keys,
		values: make([]float64, len(keys)),
		known:  make([]bool, len(keys)),
		index:  make(map[K]int, len(keys)),
	}
	for i, k := range keys {
		s.index[k] = i
	}
	return s
}

// Len returns the number of entries, missing ones included.
func (s Series[K]) Len() int { return len(s.keys) }

// Key returns the label of entry i.
func (s Series[K]) Key(i int) K { return s.keys[i] }

// At returns entry i and whether it is known.
func (s Series[K]) At(i int) (float64, bool) {
	return s.values[i], s.known[i]
}

// Get returns the entry labeled k. ok is false when k is absent or the entry is missing.
func (s Series[K]) Get(k K) (v float64, ok bool) {
	i, exists := s.index[k]
	if !exists {
		return 0, false
	}
	return s.At(i)
}

// Has reports whether k is a label of the series (known or missing).
func (s Series[K]) Has(k K) bool {
	_, ok := s.index[k]
	return ok
}

// Keys returns a copy of the labels in order.
func (s Series[K]) Keys() []K {
	out := make([]K, len(s.keys))
	copy(out, s.keys)
	return out
}

// Count returns the number of known entries.
func (s Series[K]) Count() int {
	n := 0
	for _, k := range s.known {
		if k {
			n++
		}
	}
	return n
}

// Sum returns the sum of known entries. Missing entries contribute nothing;
// the sum of a series with no known entries is 0.
func (s Series[K]) Sum() float64 {
	sum := 0.0
	for i, v := range s.values {
		if s.known[i] {
			sum += v
		}
	}
	return sum
}

// Mean returns the mean of known entries, dividing by the number of known entries only.
// ok is false when no entry is known.
func (s Series[K]) Mean() (mean float64, ok bool) {
	n := s.Count()
	if n == 0 {
		return 0, false
	}
	return s.Sum() / float64(n), true
}

// Known returns the labels and values of the known entries, in order.
func (s Series[K]) Known() ([]K, []float64) {
	keys := make([]K, 0, len(s.keys))
	vals := make([]float64, 0, len(s.keys))
	for i, k := range s.keys {
		if s.known[i] {
			keys = append(keys, k)
			vals = append(vals, s.values[i])
		}
	}
	return keys, vals
}

// Reindex returns a series aligned to keys. Labels absent from s become missing entries.
func (s Series[K]) Reindex(keys []K) Series[K] {
	out := newSeries(dedupe(keys))
	for i, k := range out.keys {
		if j, ok := s.index[k]; ok && s.known[j] {
			out.values[i] = s.values[j]
			out.known[i] = true
		}
	}
	return out
}

// SeriesOf builds a series with every entry known.
func SeriesOf[K comparable](keys []K, values []float64) (Series[K], error) {
	if len(keys) != len(values) {
		return Series[K]{}, ErrShapeMismatch
	}
	if len(dedupe(keys)) != len(keys) {
		return Series[K]{}, ErrShapeMismatch
	}
	cp := make([]K, len(keys))
	copy(cp, keys)
	s := newSeries(cp)
	for i, v := range values {
		s.values[i] = v
		s.known[i] = true
	}
	return s, nil
}

// dedupe returns keys without repeats, keeping the first occurrence.
func dedupe[K comparable](keys []K) []K {
	seen := make(map[K]struct{}, len(keys))
	out := make([]K, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
