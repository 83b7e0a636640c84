package attribution

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tail-risk-lab/internal/domain"
	"tail-risk-lab/internal/pnl"
)

func TestCompare(t *testing.T) {
	c, err := Compare(base(t), hedged(t), 0.4)
	require.NoError(t, err)

	assert.Equal(t, 0.4, c.Quantile)
	assert.Equal(t, []string{"a0", "a1", "hedge"}, c.Assets)

	oldCVaR, _ := c.SameDays.ReferenceCVaR()
	newCVaR, _ := c.NewDays.ReferenceCVaR()
	assert.InDelta(t, -41.0, oldCVaR, 1e-12)
	assert.InDelta(t, -80.0/3.0, newCVaR, 1e-12)

	_, err = Compare(base(t), hedged(t), 0.4, "nope")
	assert.True(t, errors.Is(err, pnl.ErrUnknownAsset))
}

func TestSummarize(t *testing.T) {
	s, err := Summarize(base(t), 0.4)
	require.NoError(t, err)

	assert.Equal(t, -30.0, s.VaR)
	assert.InDelta(t, -41.0, s.CVaR, 1e-12)
	assert.Equal(t, 3, s.Stats.TailDays)
	assert.Equal(t, 10, s.Stats.TotalDays)
	require.Len(t, s.TailDays, 3)
	assert.Equal(t, day(0), s.TailDays[0].Date)
	assert.Equal(t, -48.0, s.TailDays[0].Reference)
}

func TestSummarize_AssetContribution(t *testing.T) {
	s, err := Summarize(base(t), 0.4, "a1")
	require.NoError(t, err)

	assert.InDelta(t, -65.0/3.0, s.CVaR, 1e-12)
	assert.Equal(t, -30.0, s.VaR, "VaR is always the portfolio's")
	assert.Equal(t, []domain.Date{day(0), day(8), day(2)},
		[]domain.Date{s.TailDays[0].Date, s.TailDays[1].Date, s.TailDays[2].Date})

	_, err = Summarize(base(t), 0.4, "hedge")
	assert.True(t, errors.Is(err, pnl.ErrUnknownAsset), "single-scenario selection is fail-fast")
}
