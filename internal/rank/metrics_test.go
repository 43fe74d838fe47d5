package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeToViewRatioTiers(t *testing.T) {
	tests := []struct {
		name  string
		likes uint64
		views uint64
		ratio float64
		tier  Tier
	}{
		{"great", 5, 100, 5.0, TierGreat},
		{"great at threshold", 4, 100, 4.0, TierGreat},
		{"good", 2, 100, 2.0, TierGood},
		{"good just below great", 399, 10000, 3.99, TierGood},
		{"bad", 1, 100, 1.0, TierBad},
		{"no views", 0, 0, 0, TierBad},
		{"likes without views", 7, 0, 0, TierBad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratio := LikeToViewRatio(tt.likes, tt.views)
			assert.InDelta(t, tt.ratio, ratio, 1e-9)
			assert.Equal(t, tt.tier, TierFor(ratio))
		})
	}
}

func TestViewToSubscriberRatio(t *testing.T) {
	assert.InDelta(t, 2.5, ViewToSubscriberRatio(25000, 10000), 1e-9)
	assert.Zero(t, ViewToSubscriberRatio(25000, 0))
}

func TestTierSet(t *testing.T) {
	s := NewTierSet(TierGreat)
	assert.True(t, s.Has(TierGreat))
	assert.False(t, s.Has(TierBad))

	s = s.Toggle(TierBad).Toggle(TierGreat)
	assert.Equal(t, []Tier{TierBad}, s.Tiers())

	for _, tier := range []Tier{TierGreat, TierGood, TierBad} {
		assert.True(t, AllTiers.Has(tier))
	}
	assert.Equal(t, "great,good,bad", AllTiers.String())
}

func TestParseTierSet(t *testing.T) {
	s, err := ParseTierSet([]string{"Great", " good "})
	require.NoError(t, err)
	assert.Equal(t, NewTierSet(TierGreat, TierGood), s)

	_, err = ParseTierSet([]string{"excellent"})
	assert.Error(t, err)
}
