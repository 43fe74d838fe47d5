package yt

import (
	"strings"
	"time"
)

const (
	// Unbounded marks ResultLimit or PeriodDays as unconstrained.
	Unbounded = -1

	// MaxResultLimit is the largest page the search endpoint returns, and the
	// largest id batch the videos endpoint accepts.
	MaxResultLimit = 50
	// DefaultResultLimit replaces an unbounded or non-positive limit.
	DefaultResultLimit = 50
)

// regionLanguages maps region codes to the relevance language attached in strict mode.
var regionLanguages = map[string]string{
	"KR": "ko",
	"US": "en",
	"JP": "ja",
	"UK": "en",
	"FR": "fr",
}

// RegionLanguage reports the relevance language associated with a region code.
func RegionLanguage(region string) (string, bool) {
	lang, ok := regionLanguages[strings.ToUpper(region)]
	return lang, ok
}

// Phase1Query describes the search call.
type Phase1Query struct {
	Term              string
	MaxResults        int64
	Type              string
	RegionCode        string
	RelevanceLanguage string
	PublishedAfter    string
}

// Phase2Query describes the batched details call for the ids found by phase 1.
type Phase2Query struct {
	IDs []string
}

// Joined returns the ids as the comma separated list the videos endpoint expects.
func (q Phase2Query) Joined() string {
	return strings.Join(q.IDs, ",")
}

// NormalizeLimit applies the default for unbounded limits and clamps to MaxResultLimit.
func NormalizeLimit(limit int) int64 {
	if limit == Unbounded || limit <= 0 {
		return DefaultResultLimit
	}
	if limit > MaxResultLimit {
		return MaxResultLimit
	}
	return int64(limit)
}

// BuildPhase1 turns a search term and configuration into the search call descriptor.
// The term is trimmed; an empty term yields ErrEmptyTerm.
func BuildPhase1(term string, cfg SearchConfig, now time.Time) (Phase1Query, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return Phase1Query{}, ErrEmptyTerm
	}

	q := Phase1Query{
		Term:       term,
		MaxResults: NormalizeLimit(cfg.ResultLimit),
		Type:       "video",
	}

	if cfg.PeriodDays != Unbounded && cfg.PeriodDays >= 0 {
		q.PublishedAfter = now.AddDate(0, 0, -cfg.PeriodDays).UTC().Format(time.RFC3339)
	}

	region := strings.ToUpper(strings.TrimSpace(cfg.RegionCode))
	if region != "" {
		q.RegionCode = region
		if cfg.StrictRegion {
			if lang, ok := RegionLanguage(region); ok {
				q.RelevanceLanguage = lang
			}
		}
	}

	return q, nil
}

// BuildPhase2 collects the candidate ids, in candidate order, into the details call descriptor.
func BuildPhase2(candidates []CandidateRecord) Phase2Query {
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.VideoID)
	}
	return Phase2Query{IDs: ids}
}
