package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/JINMI714/JMsTube/internal/yt"
)

// DefaultPlaceholderSubscribers is the fixed subscriber count used when no real
// channel statistics are fetched.
const DefaultPlaceholderSubscribers = 10000

// SubscriberSource resolves subscriber counts for channel ids.
// Channels missing from the returned map have no known count.
type SubscriberSource interface {
	Lookup(ctx context.Context, channelIDs []string) (map[string]uint64, error)
}

// Placeholder reports the same count for every channel, including unknown ones.
type Placeholder uint64

func (p Placeholder) Lookup(_ context.Context, channelIDs []string) (map[string]uint64, error) {
	counts := make(map[string]uint64, len(channelIDs)+1)
	for _, id := range channelIDs {
		counts[id] = uint64(p)
	}
	counts[""] = uint64(p)
	return counts, nil
}

// ChannelSubscribers fetches real subscriber counts with batched channels.list calls.
type ChannelSubscribers struct {
	client *yt.Client
}

// NewChannelSubscribers creates a subscriber source backed by channel statistics.
func NewChannelSubscribers(client *yt.Client) *ChannelSubscribers {
	return &ChannelSubscribers{client: client}
}

func (c *ChannelSubscribers) Lookup(ctx context.Context, channelIDs []string) (map[string]uint64, error) {
	counts := make(map[string]uint64, len(channelIDs))
	service := c.client.Service()

	for start := 0; start < len(channelIDs); start += yt.MaxResultLimit {
		end := min(start+yt.MaxResultLimit, len(channelIDs))
		batch := channelIDs[start:end]

		response, err := service.Channels.List([]string{"statistics"}).
			Id(strings.Join(batch, ",")).
			MaxResults(int64(len(batch))).
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("error getting channel statistics: %w", err)
		}

		for _, ch := range response.Items {
			if ch.Statistics == nil || ch.Statistics.HiddenSubscriberCount {
				continue
			}
			counts[ch.Id] = ch.Statistics.SubscriberCount
		}
	}

	return counts, nil
}
