package discovery

import (
	"github.com/JINMI714/JMsTube/internal/rank"
	"github.com/JINMI714/JMsTube/internal/yt"
)

// FilterConfig is everything the user can set for a search: the query-side
// constraints sent to the API and the result-side filters applied afterwards.
type FilterConfig struct {
	Term         string             `json:"-"`
	ResultLimit  int                `json:"result_limit"`
	PeriodDays   int                `json:"period_days"`
	RegionCode   string             `json:"region_code"`
	StrictRegion bool               `json:"strict_region"`
	VideoType    rank.ContentFilter `json:"video_type"`
	Tiers        rank.TierSet       `json:"tiers"`
	Views        rank.Range         `json:"views"`
	Subscribers  rank.Range         `json:"subscribers"`
}

// DefaultFilterConfig mirrors the starting state of the search sidebar:
// 100 results (clamped by the API), last 7 days, Korea, every tier shown.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		ResultLimit: 100,
		PeriodDays:  7,
		RegionCode:  "KR",
		VideoType:   rank.AnyType,
		Tiers:       rank.AllTiers,
	}
}

// SearchConfig returns the query-side part.
func (f FilterConfig) SearchConfig() yt.SearchConfig {
	return yt.SearchConfig{
		ResultLimit:  f.ResultLimit,
		PeriodDays:   f.PeriodDays,
		RegionCode:   f.RegionCode,
		StrictRegion: f.StrictRegion,
	}
}

// ResultFilters returns the result-side part.
func (f FilterConfig) ResultFilters() rank.Filters {
	return rank.Filters{
		Type:        f.VideoType,
		Tiers:       f.Tiers,
		Views:       f.Views,
		Subscribers: f.Subscribers,
	}
}

// FilterPatch is a partial update; nil fields are left unchanged.
type FilterPatch struct {
	ResultLimit  *int
	PeriodDays   *int
	RegionCode   *string
	StrictRegion *bool
	VideoType    *rank.ContentFilter
	Tiers        *rank.TierSet
	Views        *rank.Range
	Subscribers  *rank.Range
}

// Apply returns f with the patch applied.
func (p FilterPatch) Apply(f FilterConfig) FilterConfig {
	if p.ResultLimit != nil {
		f.ResultLimit = *p.ResultLimit
	}
	if p.PeriodDays != nil {
		f.PeriodDays = *p.PeriodDays
	}
	if p.RegionCode != nil {
		f.RegionCode = *p.RegionCode
	}
	if p.StrictRegion != nil {
		f.StrictRegion = *p.StrictRegion
	}
	if p.VideoType != nil {
		f.VideoType = *p.VideoType
	}
	if p.Tiers != nil {
		f.Tiers = *p.Tiers
	}
	if p.Views != nil {
		f.Views = *p.Views
	}
	if p.Subscribers != nil {
		f.Subscribers = *p.Subscribers
	}
	return f
}
