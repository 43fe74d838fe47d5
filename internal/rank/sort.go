package rank

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// SortKey names the column records are ordered by.
type SortKey string

const (
	KeyNone         SortKey = ""
	KeyTitle        SortKey = "title"
	KeyChannel      SortKey = "channel"
	KeyViews        SortKey = "views"
	KeySubscribers  SortKey = "subs"
	KeyDate         SortKey = "date"
	KeyDuration     SortKey = "duration"
	KeyLikes        SortKey = "likes"
	KeyComments     SortKey = "comments"
	KeySubViewRatio SortKey = "subViewRatio"
	KeyLikeRatio    SortKey = "likeRatio"
	KeyCII          SortKey = "cii"
	KeyType         SortKey = "type"
)

// SortKeys lists every supported key in column order.
var SortKeys = []SortKey{
	KeyTitle, KeyChannel, KeyViews, KeySubscribers, KeyDate, KeyDuration,
	KeyLikes, KeyComments, KeySubViewRatio, KeyLikeRatio, KeyCII, KeyType,
}

// ParseSortKey validates a key name. The empty string means unsorted.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return KeyNone, nil
	}
	for _, k := range SortKeys {
		if strings.EqualFold(string(k), s) {
			return k, nil
		}
	}
	return KeyNone, fmt.Errorf("unknown sort key %q", s)
}

// Direction of a sort.
type Direction int

const (
	Descending Direction = iota
	Ascending
)

func (d Direction) String() string {
	if d == Ascending {
		return "asc"
	}
	return "desc"
}

// SortState is the active sort key and direction. The zero value is unsorted.
type SortState struct {
	Key       SortKey   `json:"key"`
	Direction Direction `json:"direction"`
}

// Toggle returns the state after the user selects key: a new key starts
// descending, selecting the active key again flips the direction.
func (s SortState) Toggle(key SortKey) SortState {
	if s.Key == key && s.Direction == Descending {
		return SortState{Key: key, Direction: Ascending}
	}
	return SortState{Key: key, Direction: Descending}
}

// Sort returns a sorted copy of records. Equal elements keep their relative order.
func Sort(records []RankedRecord, state SortState) []RankedRecord {
	out := slices.Clone(records)
	if state.Key == KeyNone {
		return out
	}

	compare := comparator(state.Key)
	slices.SortStableFunc(out, func(a, b RankedRecord) int {
		c := compare(a, b)
		if state.Direction == Descending {
			return -c
		}
		return c
	})
	return out
}

func comparator(key SortKey) func(a, b RankedRecord) int {
	switch key {
	case KeyTitle:
		fold := cases.Fold()
		return func(a, b RankedRecord) int {
			return strings.Compare(fold.String(a.DisplayTitle), fold.String(b.DisplayTitle))
		}
	case KeyChannel:
		fold := cases.Fold()
		return func(a, b RankedRecord) int {
			return strings.Compare(fold.String(a.DisplayChannel), fold.String(b.DisplayChannel))
		}
	case KeyViews:
		return func(a, b RankedRecord) int { return cmp.Compare(a.ViewCount(), b.ViewCount()) }
	case KeyLikes:
		return func(a, b RankedRecord) int { return cmp.Compare(a.LikeCount(), b.LikeCount()) }
	case KeyComments:
		return func(a, b RankedRecord) int { return cmp.Compare(a.CommentCount(), b.CommentCount()) }
	case KeySubscribers:
		return func(a, b RankedRecord) int {
			sa, _ := a.SubscriberCount()
			sb, _ := b.SubscriberCount()
			return cmp.Compare(sa, sb)
		}
	case KeySubViewRatio:
		return func(a, b RankedRecord) int { return cmp.Compare(a.ViewToSubscriberRatio, b.ViewToSubscriberRatio) }
	case KeyLikeRatio, KeyCII:
		return func(a, b RankedRecord) int { return cmp.Compare(a.LikeToViewRatio, b.LikeToViewRatio) }
	case KeyDate:
		return func(a, b RankedRecord) int { return a.PublishedAt.Compare(b.PublishedAt) }
	case KeyDuration:
		return func(a, b RankedRecord) int { return cmp.Compare(a.DurationSeconds, b.DurationSeconds) }
	case KeyType:
		return func(a, b RankedRecord) int { return strings.Compare(a.ContentType.Label(), b.ContentType.Label()) }
	default:
		return func(RankedRecord, RankedRecord) int { return 0 }
	}
}
