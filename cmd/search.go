package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/JINMI714/JMsTube/internal/discovery"
	"github.com/JINMI714/JMsTube/internal/rank"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var searchFlags struct {
	limit      int
	period     int
	region     string
	strict     bool
	videoType  string
	tiers      []string
	minViews   uint64
	maxViews   uint64
	minSubs    uint64
	maxSubs    uint64
	sortKey    string
	ascending  bool
	jsonOutput bool
	saved      bool
}

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search YouTube and print ranked results",
	Long: `Search YouTube, merge the statistics of every hit and print the ranked list.

Examples:
  jmstube search "home cafe"
  jmstube search "vlog" --limit 20 --period 30 --region JP --strict
  jmstube search "recipe" --type shorts --tiers great,good --sort likeRatio
  jmstube search "camping" --min-views 10000 --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		d, err := loadDeps(ctx, "stderr")
		if err != nil {
			return err
		}
		defer d.Close()

		session, err := d.newSession(ctx, searchFlags.saved)
		if err != nil {
			return err
		}

		patch, state, err := searchPatch(cmd)
		if err != nil {
			return err
		}
		if err := session.SetFilters(ctx, patch); err != nil {
			return err
		}

		if _, err := session.Search(ctx, strings.Join(args, " ")); err != nil {
			return err
		}
		session.SetSort(state)

		records := session.Records()
		if searchFlags.jsonOutput {
			return writeJSON(cmd.OutOrStdout(), records)
		}

		snap := session.Snapshot()
		if len(records) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d fetched, none matched the filters)\n", snap.Message, snap.Total)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable(records))
		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d results\n", len(records), snap.Total)
		return nil
	},
}

// searchPatch turns the flags the user set into a filter patch and a sort state.
// Flags left unset keep the configured or saved value.
func searchPatch(cmd *cobra.Command) (discovery.FilterPatch, rank.SortState, error) {
	flags := cmd.Flags()
	var patch discovery.FilterPatch

	if flags.Changed("limit") {
		patch.ResultLimit = &searchFlags.limit
	}
	if flags.Changed("period") {
		patch.PeriodDays = &searchFlags.period
	}
	if flags.Changed("region") {
		region := strings.ToUpper(searchFlags.region)
		patch.RegionCode = &region
	}
	if flags.Changed("strict") {
		patch.StrictRegion = &searchFlags.strict
	}
	if flags.Changed("type") {
		t, err := rank.ParseContentFilter(searchFlags.videoType)
		if err != nil {
			return patch, rank.SortState{}, err
		}
		patch.VideoType = &t
	}
	if flags.Changed("tiers") {
		tiers, err := rank.ParseTierSet(searchFlags.tiers)
		if err != nil {
			return patch, rank.SortState{}, err
		}
		patch.Tiers = &tiers
	}
	if flags.Changed("min-views") || flags.Changed("max-views") {
		r := flagRange(cmd, "min-views", searchFlags.minViews, "max-views", searchFlags.maxViews)
		patch.Views = &r
	}
	if flags.Changed("min-subs") || flags.Changed("max-subs") {
		r := flagRange(cmd, "min-subs", searchFlags.minSubs, "max-subs", searchFlags.maxSubs)
		patch.Subscribers = &r
	}

	key, err := rank.ParseSortKey(searchFlags.sortKey)
	if err != nil {
		return patch, rank.SortState{}, err
	}
	state := rank.SortState{Key: key}
	if searchFlags.ascending {
		state.Direction = rank.Ascending
	}
	return patch, state, nil
}

func flagRange(cmd *cobra.Command, minName string, minValue uint64, maxName string, maxValue uint64) rank.Range {
	var r rank.Range
	if cmd.Flags().Changed(minName) {
		r.Min = &minValue
	}
	if cmd.Flags().Changed(maxName) {
		r.Max = &maxValue
	}
	return r
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func renderTable(records []rank.RankedRecord) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("#", "Title", "Channel", "Type", "Length", "Views", "Likes", "Like %", "Tier", "Subs", "Views/Sub", "Published")

	for i, r := range records {
		t.Row(
			fmt.Sprint(i+1),
			truncate(r.DisplayTitle, 48),
			truncate(r.DisplayChannel, 20),
			r.ContentType.Label(),
			r.DurationDisplay,
			rank.FormatCount(r.ViewCount()),
			rank.FormatCount(r.LikeCount()),
			rank.FormatLikeRatio(r),
			r.Tier.String(),
			rank.FormatSubscribers(r),
			rank.FormatSubscriberRatio(r),
			rank.FormatDate(r.PublishedAt),
		)
	}
	return t.String()
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

type recordJSON struct {
	VideoID         string  `json:"video_id"`
	URL             string  `json:"url"`
	Title           string  `json:"title"`
	Channel         string  `json:"channel"`
	ChannelID       string  `json:"channel_id"`
	PublishedAt     string  `json:"published_at"`
	Thumbnail       string  `json:"thumbnail"`
	Views           uint64  `json:"views"`
	Likes           uint64  `json:"likes"`
	Comments        uint64  `json:"comments"`
	Subscribers     *uint64 `json:"subscribers"`
	Duration        string  `json:"duration"`
	DurationSeconds int     `json:"duration_seconds"`
	Type            string  `json:"type"`
	LikeRatio       float64 `json:"like_ratio"`
	ViewsPerSub     float64 `json:"views_per_subscriber"`
	Tier            string  `json:"tier"`
}

func writeJSON(w io.Writer, records []rank.RankedRecord) error {
	out := make([]recordJSON, 0, len(records))
	for _, r := range records {
		rec := recordJSON{
			VideoID:         r.VideoID,
			URL:             r.URL(),
			Title:           r.DisplayTitle,
			Channel:         r.DisplayChannel,
			ChannelID:       r.ChannelID,
			Thumbnail:       r.Thumbnails.Best(),
			Views:           r.ViewCount(),
			Likes:           r.LikeCount(),
			Comments:        r.CommentCount(),
			Duration:        r.DurationDisplay,
			DurationSeconds: r.DurationSeconds,
			Type:            r.ContentType.String(),
			LikeRatio:       r.LikeToViewRatio,
			ViewsPerSub:     r.ViewToSubscriberRatio,
			Tier:            r.Tier.String(),
		}
		if !r.PublishedAt.IsZero() {
			rec.PublishedAt = r.PublishedAt.Format("2006-01-02T15:04:05Z07:00")
		}
		if subs, ok := r.SubscriberCount(); ok {
			rec.Subscribers = &subs
		}
		out = append(out, rec)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func init() {
	rootCmd.AddCommand(searchCmd)

	f := searchCmd.Flags()
	f.IntVarP(&searchFlags.limit, "limit", "l", 50, "maximum number of results (1-50, -1 for the API maximum)")
	f.IntVarP(&searchFlags.period, "period", "p", 7, "only videos published in the last N days (-1 for any time)")
	f.StringVarP(&searchFlags.region, "region", "r", "KR", "region code (KR, US, JP, UK, FR, ...; empty for any)")
	f.BoolVar(&searchFlags.strict, "strict", false, "also restrict results to the region's language")
	f.StringVarP(&searchFlags.videoType, "type", "t", "any", "content type (any, shorts, long)")
	f.StringSliceVar(&searchFlags.tiers, "tiers", []string{"great", "good", "bad"}, "like-ratio tiers to keep")
	f.Uint64Var(&searchFlags.minViews, "min-views", 0, "minimum view count")
	f.Uint64Var(&searchFlags.maxViews, "max-views", 0, "maximum view count")
	f.Uint64Var(&searchFlags.minSubs, "min-subs", 0, "minimum subscriber count")
	f.Uint64Var(&searchFlags.maxSubs, "max-subs", 0, "maximum subscriber count")
	f.StringVarP(&searchFlags.sortKey, "sort", "s", "", "sort key ("+sortKeyNames()+")")
	f.BoolVar(&searchFlags.ascending, "asc", false, "sort ascending instead of descending")
	f.BoolVar(&searchFlags.jsonOutput, "json", false, "print results as JSON")
	f.BoolVar(&searchFlags.saved, "saved", false, "start from the filters saved by the interactive UI and update them")
}

func sortKeyNames() string {
	names := make([]string, len(rank.SortKeys))
	for i, k := range rank.SortKeys {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
