package yt

import "time"

// Thumbnails holds the thumbnail URLs returned for a video, one per resolution.
// Missing resolutions are empty.
type Thumbnails struct {
	Default string `json:"default,omitempty"`
	Medium  string `json:"medium,omitempty"`
	High    string `json:"high,omitempty"`
	Maxres  string `json:"maxres,omitempty"`
}

// Best returns the highest resolution thumbnail available.
func (t Thumbnails) Best() string {
	for _, u := range []string{t.Maxres, t.High, t.Medium, t.Default} {
		if u != "" {
			return u
		}
	}
	return ""
}

// Preview returns the thumbnail used in compact listings (medium, falling back to default).
func (t Thumbnails) Preview() string {
	if t.Medium != "" {
		return t.Medium
	}
	return t.Default
}

// CandidateRecord is a single hit from the search call (phase 1).
// Title and ChannelTitle are kept exactly as the API returned them, HTML entities included.
type CandidateRecord struct {
	VideoID      string     `json:"video_id"`
	Title        string     `json:"title"`
	ChannelTitle string     `json:"channel_title"`
	ChannelID    string     `json:"channel_id"`
	PublishedAt  time.Time  `json:"published_at"`
	Thumbnails   Thumbnails `json:"thumbnails"`
}

// URL returns the watch page of the video.
func (c CandidateRecord) URL() string {
	return WatchURL(c.VideoID)
}

// DetailRecord carries statistics and content details from the videos call (phase 2).
type DetailRecord struct {
	VideoID      string `json:"video_id"`
	ViewCount    uint64 `json:"view_count"`
	LikeCount    uint64 `json:"like_count"`
	CommentCount uint64 `json:"comment_count"`
	// SubscriberCount is nil when no subscriber source could supply a value.
	SubscriberCount *uint64 `json:"subscriber_count,omitempty"`
	// Duration is the raw ISO-8601 encoding, e.g. "PT4M13S".
	Duration string `json:"duration"`
}

// SearchResponse is the outcome of a successful two-phase search.
type SearchResponse struct {
	Candidates   []CandidateRecord `json:"candidates"`
	Details      []DetailRecord    `json:"details"`
	TotalResults int64             `json:"total_results"`
	Query        string            `json:"query"`
}

// SearchConfig holds the query-side part of a filter configuration.
// ResultLimit and PeriodDays use Unbounded to mean "no constraint";
// an empty RegionCode means any region.
type SearchConfig struct {
	ResultLimit  int    `json:"result_limit"`
	PeriodDays   int    `json:"period_days"`
	RegionCode   string `json:"region_code"`
	StrictRegion bool   `json:"strict_region"`
}

// WatchURL builds the public watch URL for a video id.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
