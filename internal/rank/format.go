package rank

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Placeholder shown for values that cannot be computed.
const NotAvailable = "-"

// FormatCount renders a count with thousands separators.
func FormatCount(n uint64) string {
	return humanize.Comma(int64(n))
}

// FormatLikeRatio renders the like percentage, or NotAvailable without views.
func FormatLikeRatio(r RankedRecord) string {
	if r.ViewCount() == 0 {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f%%", r.LikeToViewRatio)
}

// FormatSubscriberRatio renders views per subscriber, or NotAvailable without subscribers.
func FormatSubscriberRatio(r RankedRecord) string {
	if subs, ok := r.SubscriberCount(); !ok || subs == 0 {
		return NotAvailable
	}
	return fmt.Sprintf("%.1fx", r.ViewToSubscriberRatio)
}

// FormatSubscribers renders the subscriber count, or NotAvailable when unknown.
func FormatSubscribers(r RankedRecord) string {
	subs, ok := r.SubscriberCount()
	if !ok {
		return NotAvailable
	}
	return FormatCount(subs)
}

// FormatDate renders a publish date as "2006. 1. 2.".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return NotAvailable
	}
	return t.Local().Format("2006. 1. 2.")
}
