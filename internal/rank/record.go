package rank

import "github.com/JINMI714/JMsTube/internal/yt"

// MergedRecord is a search candidate joined with its details, when any were returned.
type MergedRecord struct {
	yt.CandidateRecord
	Detail *yt.DetailRecord `json:"detail,omitempty"`
}

// HasDetail reports whether the details call returned an entry for this video.
func (m MergedRecord) HasDetail() bool {
	return m.Detail != nil
}

func (m MergedRecord) ViewCount() uint64 {
	if m.Detail == nil {
		return 0
	}
	return m.Detail.ViewCount
}

func (m MergedRecord) LikeCount() uint64 {
	if m.Detail == nil {
		return 0
	}
	return m.Detail.LikeCount
}

func (m MergedRecord) CommentCount() uint64 {
	if m.Detail == nil {
		return 0
	}
	return m.Detail.CommentCount
}

// SubscriberCount returns the channel's subscriber count and whether one is known.
func (m MergedRecord) SubscriberCount() (uint64, bool) {
	if m.Detail == nil || m.Detail.SubscriberCount == nil {
		return 0, false
	}
	return *m.Detail.SubscriberCount, true
}

// RawDuration returns the encoded duration, empty when unknown.
func (m MergedRecord) RawDuration() string {
	if m.Detail == nil {
		return ""
	}
	return m.Detail.Duration
}

// RankedRecord is a merged record plus the metrics derived from it.
// It is rebuilt from the merged record on every ranking pass.
type RankedRecord struct {
	MergedRecord
	DisplayTitle          string      `json:"display_title"`
	DisplayChannel        string      `json:"display_channel"`
	LikeToViewRatio       float64     `json:"like_to_view_ratio"`
	ViewToSubscriberRatio float64     `json:"view_to_subscriber_ratio"`
	Tier                  Tier        `json:"tier"`
	DurationSeconds       int         `json:"duration_seconds"`
	DurationDisplay       string      `json:"duration_display"`
	ContentType           ContentType `json:"content_type"`
}

// Rank derives the metrics of a merged record.
func Rank(m MergedRecord) RankedRecord {
	views := m.ViewCount()
	subs, _ := m.SubscriberCount()
	ratio := LikeToViewRatio(m.LikeCount(), views)
	duration := DecodeDuration(m.RawDuration())

	return RankedRecord{
		MergedRecord:          m,
		DisplayTitle:          DecodeEntities(m.Title),
		DisplayChannel:        DecodeEntities(m.ChannelTitle),
		LikeToViewRatio:       ratio,
		ViewToSubscriberRatio: ViewToSubscriberRatio(views, subs),
		Tier:                  TierFor(ratio),
		DurationSeconds:       duration.Seconds,
		DurationDisplay:       duration.Display,
		ContentType:           ClassifyDuration(m.RawDuration()),
	}
}

// RankAll ranks every record, preserving order.
func RankAll(records []MergedRecord) []RankedRecord {
	out := make([]RankedRecord, len(records))
	for i, m := range records {
		out[i] = Rank(m)
	}
	return out
}
