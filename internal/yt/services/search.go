package services

import (
	"context"
	"errors"
	"time"

	"github.com/JINMI714/JMsTube/internal/yt"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"
)

const defaultPhaseTimeout = 15 * time.Second

// SearchService interface for YouTube search operations
type SearchService interface {
	// Search runs the search call and then one batched details call for the ids it found.
	// Zero candidates is a successful, empty response and skips the details call.
	Search(ctx context.Context, q yt.Phase1Query) (*yt.SearchResponse, error)
}

type searchService struct {
	client       *yt.Client
	subscribers  SubscriberSource
	phaseTimeout time.Duration
	logger       *zap.Logger
}

// Option configures a search service.
type Option func(*searchService)

// WithSubscriberSource sets where subscriber counts come from.
func WithSubscriberSource(src SubscriberSource) Option {
	return func(s *searchService) {
		s.subscribers = src
	}
}

// WithPhaseTimeout bounds each remote call. Zero or negative disables the bound.
func WithPhaseTimeout(d time.Duration) Option {
	return func(s *searchService) {
		s.phaseTimeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *searchService) {
		s.logger = logger
	}
}

// NewSearchService creates a new search service instance
func NewSearchService(client *yt.Client, opts ...Option) SearchService {
	s := &searchService{
		client:       client,
		subscribers:  Placeholder(DefaultPlaceholderSubscribers),
		phaseTimeout: defaultPhaseTimeout,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *searchService) Search(ctx context.Context, q yt.Phase1Query) (*yt.SearchResponse, error) {
	service := s.client.Service()
	logger := s.logger.With(zap.String("term", q.Term))

	logger.Debug("searching candidates",
		zap.Int64("max_results", q.MaxResults),
		zap.String("region", q.RegionCode),
		zap.String("published_after", q.PublishedAfter))

	candidates, total, err := s.searchCandidates(ctx, service, q)
	if err != nil {
		logger.Error("search phase failed", zap.Stringer("phase", yt.PhaseSearch), zap.Error(err))
		return nil, err
	}

	res := &yt.SearchResponse{
		Candidates:   candidates,
		TotalResults: total,
		Query:        q.Term,
	}
	if len(candidates) == 0 {
		logger.Debug("no candidates")
		return res, nil
	}

	details, err := s.getVideoDetails(ctx, service, yt.BuildPhase2(candidates))
	if err != nil {
		logger.Error("search phase failed", zap.Stringer("phase", yt.PhaseDetails), zap.Error(err))
		return nil, err
	}
	s.attachSubscribers(ctx, candidates, details)
	res.Details = details

	logger.Debug("search finished",
		zap.Int("candidates", len(candidates)),
		zap.Int("details", len(details)))
	return res, nil
}

func (s *searchService) phaseContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.phaseTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.phaseTimeout)
}

// searchCandidates executes the phase 1 call and converts the hits into candidate records.
func (s *searchService) searchCandidates(ctx context.Context, service *youtube.Service, q yt.Phase1Query) ([]yt.CandidateRecord, int64, error) {
	ctx, cancel := s.phaseContext(ctx)
	defer cancel()

	call := service.Search.List([]string{"id", "snippet"}).
		Q(q.Term).
		MaxResults(q.MaxResults).
		Type(q.Type)
	if q.RegionCode != "" {
		call = call.RegionCode(q.RegionCode)
	}
	if q.RelevanceLanguage != "" {
		call = call.RelevanceLanguage(q.RelevanceLanguage)
	}
	if q.PublishedAfter != "" {
		call = call.PublishedAfter(q.PublishedAfter)
	}

	response, err := call.Context(ctx).Do()
	if err != nil {
		return nil, 0, classifySearchError(err)
	}

	results := make([]yt.CandidateRecord, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		result := yt.CandidateRecord{VideoID: item.Id.VideoId}
		if item.Snippet != nil {
			result.Title = item.Snippet.Title
			result.ChannelTitle = item.Snippet.ChannelTitle
			result.ChannelID = item.Snippet.ChannelId
			result.PublishedAt, _ = time.Parse(time.RFC3339, item.Snippet.PublishedAt)
			result.Thumbnails = convertThumbnails(item.Snippet.Thumbnails)
		}
		results = append(results, result)
	}

	var total int64
	if response.PageInfo != nil {
		total = response.PageInfo.TotalResults
	}
	return results, total, nil
}

// getVideoDetails executes the phase 2 call. Every failure here is a connectivity error.
func (s *searchService) getVideoDetails(ctx context.Context, service *youtube.Service, q yt.Phase2Query) ([]yt.DetailRecord, error) {
	ctx, cancel := s.phaseContext(ctx)
	defer cancel()

	call := service.Videos.List([]string{"statistics", "contentDetails"}).
		Id(q.Joined())

	response, err := call.Context(ctx).Do()
	if err != nil {
		return nil, &yt.ConnectivityError{Phase: yt.PhaseDetails, Err: err}
	}

	details := make([]yt.DetailRecord, 0, len(response.Items))
	for _, video := range response.Items {
		detail := yt.DetailRecord{VideoID: video.Id}
		if video.Statistics != nil {
			detail.ViewCount = video.Statistics.ViewCount
			detail.LikeCount = video.Statistics.LikeCount
			detail.CommentCount = video.Statistics.CommentCount
		}
		if video.ContentDetails != nil {
			detail.Duration = video.ContentDetails.Duration
		}
		details = append(details, detail)
	}

	return details, nil
}

// attachSubscribers fills SubscriberCount on each detail from its candidate's channel.
// A lookup failure leaves the counts absent and does not fail the search.
func (s *searchService) attachSubscribers(ctx context.Context, candidates []yt.CandidateRecord, details []yt.DetailRecord) {
	if s.subscribers == nil {
		return
	}

	channelOf := make(map[string]string, len(candidates))
	channelIDs := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if _, ok := channelOf[c.VideoID]; !ok {
			channelOf[c.VideoID] = c.ChannelID
		}
		if c.ChannelID != "" && !seen[c.ChannelID] {
			seen[c.ChannelID] = true
			channelIDs = append(channelIDs, c.ChannelID)
		}
	}

	ctx, cancel := s.phaseContext(ctx)
	defer cancel()

	counts, err := s.subscribers.Lookup(ctx, channelIDs)
	if err != nil {
		s.logger.Warn("subscriber lookup failed", zap.Int("channels", len(channelIDs)), zap.Error(err))
		return
	}

	for i := range details {
		if n, ok := counts[channelOf[details[i].VideoID]]; ok {
			n := n
			details[i].SubscriberCount = &n
		}
	}
}

// classifySearchError maps a phase 1 failure. Only a structured error body from
// the API is an auth or quota error; a bare status, such as a gateway page, is
// a connectivity error.
func classifySearchError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Message != "" || len(apiErr.Errors) > 0) {
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Errors[0].Message
		}
		if msg == "" {
			msg = apiErr.Errors[0].Reason
		}
		return &yt.AuthOrQuotaError{Code: apiErr.Code, Message: msg}
	}
	return &yt.ConnectivityError{Phase: yt.PhaseSearch, Err: err}
}

func convertThumbnails(thumbnails *youtube.ThumbnailDetails) yt.Thumbnails {
	var t yt.Thumbnails
	if thumbnails == nil {
		return t
	}
	if thumbnails.Default != nil {
		t.Default = thumbnails.Default.Url
	}
	if thumbnails.Medium != nil {
		t.Medium = thumbnails.Medium.Url
	}
	if thumbnails.High != nil {
		t.High = thumbnails.High.Url
	}
	if thumbnails.Maxres != nil {
		t.Maxres = thumbnails.Maxres.Url
	}
	return t
}
