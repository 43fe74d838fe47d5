package rank

import "github.com/JINMI714/JMsTube/internal/yt"

// Merge joins details onto candidates by video id.
// Every candidate appears once, in order, with Detail nil when no detail matched.
// When several details share an id the first wins; details matching no candidate are dropped.
func Merge(candidates []yt.CandidateRecord, details []yt.DetailRecord) []MergedRecord {
	index := make(map[string]int, len(details))
	for i, d := range details {
		if _, ok := index[d.VideoID]; !ok {
			index[d.VideoID] = i
		}
	}

	merged := make([]MergedRecord, 0, len(candidates))
	for _, c := range candidates {
		m := MergedRecord{CandidateRecord: c}
		if i, ok := index[c.VideoID]; ok {
			detail := details[i]
			m.Detail = &detail
		}
		merged = append(merged, m)
	}
	return merged
}
