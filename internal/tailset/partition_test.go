package tailset

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tail-risk-lab/internal/domain"
)

func day(n int) domain.Date {
	return domain.NewDate(2021, time.March, 1).AddDays(n)
}

func set(ns ...int) DateSet {
	dates := make([]domain.Date, len(ns))
	for i, n := range ns {
		dates[i] = day(n)
	}
	return New(dates...)
}

func TestNew_SortsAndDedupes(t *testing.T) {
	s := set(5, 1, 3, 1)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []domain.Date{day(1), day(3), day(5)}, s.Dates())
	assert.True(t, s.Contains(day(3)))
	assert.False(t, s.Contains(day(2)))
}

func TestPartition_Basic(t *testing.T) {
	self := set(1, 2, 3, 4)
	other := set(3, 4, 5)

	only, both := Partition(self, other)
	assert.True(t, only.Equal(set(1, 2)))
	assert.True(t, both.Equal(set(3, 4)))

	assert.Equal(t, Distinct, Classify(day(1), only, both))
	assert.Equal(t, Shared, Classify(day(4), only, both))
	assert.Equal(t, Unclassified, Classify(day(5), only, both))
	assert.Equal(t, "Change", Distinct.Label())
	assert.Equal(t, "Remain", Shared.Label())
}

func TestPartition_Disjoint(t *testing.T) {
	only, both := Partition(set(1, 2), set(8, 9))
	assert.True(t, only.Equal(set(1, 2)))
	assert.Equal(t, 0, both.Len())

	only, both = Partition(set(), set(1))
	assert.Equal(t, 0, only.Len())
	assert.Equal(t, 0, both.Len())
}

func TestPartition_IsTruePartition(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	randomSet := func() DateSet {
		var ns []int
		for i := 0; i < 40; i++ {
			if rng.Intn(3) == 0 {
				ns = append(ns, i)
			}
		}
		return set(ns...)
	}

	for i := 0; i < 200; i++ {
		self, other := randomSet(), randomSet()
		only, both := Partition(self, other)

		assert.True(t, only.Union(both).Equal(self), "union must equal self")
		assert.Equal(t, 0, only.Intersection(both).Len(), "parts must be disjoint")
		for _, d := range both.Dates() {
			assert.True(t, other.Contains(d))
		}
		for _, d := range only.Dates() {
			assert.False(t, other.Contains(d))
		}
	}
}
