package rank

import (
	"fmt"
	"strings"
)

// Tier thresholds on the like-to-view percentage.
const (
	GreatThreshold = 4.0
	GoodThreshold  = 2.0
)

// Tier is the three level engagement classification (CII).
type Tier int

const (
	TierBad Tier = iota
	TierGood
	TierGreat
)

func (t Tier) String() string {
	switch t {
	case TierGreat:
		return "great"
	case TierGood:
		return "good"
	default:
		return "bad"
	}
}

// ParseTier parses "great", "good" or "bad", case-insensitively.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "great":
		return TierGreat, nil
	case "good":
		return TierGood, nil
	case "bad":
		return TierBad, nil
	default:
		return TierBad, fmt.Errorf("unknown quality tier %q", s)
	}
}

// LikeToViewRatio returns likes as a percentage of views, 0 when there are no views.
func LikeToViewRatio(likes, views uint64) float64 {
	if views == 0 {
		return 0
	}
	return float64(likes) * 100 / float64(views)
}

// ViewToSubscriberRatio returns views per subscriber, 0 when there are no subscribers.
func ViewToSubscriberRatio(views, subscribers uint64) float64 {
	if subscribers == 0 {
		return 0
	}
	return float64(views) / float64(subscribers)
}

// TierFor classifies a like-to-view percentage.
func TierFor(ratio float64) Tier {
	switch {
	case ratio >= GreatThreshold:
		return TierGreat
	case ratio >= GoodThreshold:
		return TierGood
	default:
		return TierBad
	}
}

// TierSet is a set of enabled tiers.
type TierSet uint8

// AllTiers enables every tier.
const AllTiers = TierSet(1<<TierBad | 1<<TierGood | 1<<TierGreat)

// NewTierSet builds a set from tiers.
func NewTierSet(tiers ...Tier) TierSet {
	var s TierSet
	for _, t := range tiers {
		s = s.With(t)
	}
	return s
}

// ParseTierSet parses a list of tier names.
func ParseTierSet(names []string) (TierSet, error) {
	var s TierSet
	for _, name := range names {
		t, err := ParseTier(name)
		if err != nil {
			return 0, err
		}
		s = s.With(t)
	}
	return s, nil
}

func (s TierSet) Has(t Tier) bool       { return s&(1<<t) != 0 }
func (s TierSet) With(t Tier) TierSet    { return s | 1<<t }
func (s TierSet) Without(t Tier) TierSet { return s &^ (1 << t) }

// Toggle flips a single tier.
func (s TierSet) Toggle(t Tier) TierSet {
	if s.Has(t) {
		return s.Without(t)
	}
	return s.With(t)
}

// Tiers lists the enabled tiers from best to worst.
func (s TierSet) Tiers() []Tier {
	var out []Tier
	for _, t := range []Tier{TierGreat, TierGood, TierBad} {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s TierSet) String() string {
	names := make([]string, 0, 3)
	for _, t := range s.Tiers() {
		names = append(names, t.String())
	}
	return strings.Join(names, ",")
}
