package yt

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// ErrMissingAPIKey is returned when no API key was configured.
var ErrMissingAPIKey = errors.New("missing YouTube API key: set GOOGLE_API_KEY or youtube.api_key")

// ClientOptions configures the YouTube API client.
type ClientOptions struct {
	APIKey string
	// Endpoint overrides the API base URL. Empty uses the public endpoint.
	Endpoint string
}

// Client wraps the YouTube API service
type Client struct {
	service *youtube.Service
}

// NewClient creates a new YouTube API client
func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	if opts.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(opts.APIKey)}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	service, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Client{
		service: service,
	}, nil
}

// Service returns the underlying YouTube service for API calls
func (c *Client) Service() *youtube.Service {
	return c.service
}
