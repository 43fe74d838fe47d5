package rank

import (
	"fmt"
	"strings"
)

// ContentFilter restricts results by content type.
type ContentFilter int

const (
	AnyType ContentFilter = iota
	ShortsOnly
	LongOnly
)

func (f ContentFilter) String() string {
	switch f {
	case ShortsOnly:
		return "short"
	case LongOnly:
		return "long"
	default:
		return "any"
	}
}

// ParseContentFilter parses "any", "short" or "long".
func ParseContentFilter(s string) (ContentFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any", "all":
		return AnyType, nil
	case "short", "shorts":
		return ShortsOnly, nil
	case "long", "longform", "long-form":
		return LongOnly, nil
	default:
		return AnyType, fmt.Errorf("unknown video type %q", s)
	}
}

// Next cycles any -> short -> long -> any.
func (f ContentFilter) Next() ContentFilter {
	return (f + 1) % 3
}

// Range is an inclusive bound on a count. A nil side is open.
type Range struct {
	Min *uint64 `json:"min,omitempty"`
	Max *uint64 `json:"max,omitempty"`
}

// Bounded reports whether either side is set.
func (r Range) Bounded() bool {
	return r.Min != nil || r.Max != nil
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v uint64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// matches applies the range to a value that may be missing. A missing value
// only fails a bounded range.
func (r Range) matches(v uint64, ok bool) bool {
	if !r.Bounded() {
		return true
	}
	return ok && r.Contains(v)
}

// Filters are the result-side predicates. All of them must hold.
type Filters struct {
	Type        ContentFilter `json:"type"`
	Tiers       TierSet       `json:"tiers"`
	Views       Range         `json:"views"`
	Subscribers Range         `json:"subscribers"`
}

// DefaultFilters lets every record through.
func DefaultFilters() Filters {
	return Filters{Type: AnyType, Tiers: AllTiers}
}

// Match reports whether a record passes every filter.
func (f Filters) Match(r RankedRecord) bool {
	if f.Type != AnyType {
		if r.RawDuration() == "" {
			return false
		}
		want := Short
		if f.Type == LongOnly {
			want = Long
		}
		if r.ContentType != want {
			return false
		}
	}

	if !f.Tiers.Has(r.Tier) {
		return false
	}

	if !f.Views.matches(r.ViewCount(), r.HasDetail()) {
		return false
	}

	subs, ok := r.SubscriberCount()
	return f.Subscribers.matches(subs, ok)
}

// Apply returns the records that pass the filters, preserving order.
func Apply(records []RankedRecord, f Filters) []RankedRecord {
	out := make([]RankedRecord, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
