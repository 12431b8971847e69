package onthisday

import (
	"context"
	"fmt"
	"strings"

	"github.com/julienv/daygate/internal/datectx"
	"github.com/julienv/daygate/pkg/httputil"
	"github.com/julienv/daygate/pkg/logger"
)

// Source names this provider in errors and logs.
const Source = "onthisday"

// Client fetches historical events and births from a Wikimedia-compatible
// on-this-day feed. Lookups are keyed by month/day only; the feed spans
// all years.
type Client struct {
	httpClient *httputil.Client
	baseURL    string
	logger     *logger.Logger
}

// NewClient creates a new on-this-day feed client.
func NewClient(httpClient *httputil.Client, baseURL string, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     log.WithField("source", Source),
	}
}

type pageDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

type entryDTO struct {
	Year  int       `json:"year"`
	Text  string    `json:"text"`
	Pages []pageDTO `json:"pages"`
}

type feedDTO struct {
	Events []entryDTO `json:"events"`
	Births []entryDTO `json:"births"`
}

// Events returns historical events for the given month/day across history.
func (c *Client) Events(ctx context.Context, month, day int) ([]datectx.FeedEntry, error) {
	feed, err := c.fetch(ctx, "events", month, day)
	if err != nil {
		return nil, err
	}
	if feed.Events == nil {
		return nil, httputil.NewShapeError(Source, 200, fmt.Errorf("missing events field"))
	}
	return normalize(feed.Events), nil
}

// Births returns notable births for the given month/day across history.
func (c *Client) Births(ctx context.Context, month, day int) ([]datectx.FeedEntry, error) {
	feed, err := c.fetch(ctx, "births", month, day)
	if err != nil {
		return nil, err
	}
	if feed.Births == nil {
		return nil, httputil.NewShapeError(Source, 200, fmt.Errorf("missing births field"))
	}
	return normalize(feed.Births), nil
}

func (c *Client) fetch(ctx context.Context, kind string, month, day int) (*feedDTO, error) {
	url := fmt.Sprintf("%s/onthisday/%s/%02d/%02d", c.baseURL, kind, month, day)

	var feed feedDTO
	if err := c.httpClient.GetJSON(ctx, Source, url, &feed); err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"kind":  kind,
		"month": month,
		"day":   day,
	}).Debug("Fetched on-this-day feed")

	return &feed, nil
}

func normalize(entries []entryDTO) []datectx.FeedEntry {
	out := make([]datectx.FeedEntry, 0, len(entries))
	for _, e := range entries {
		entry := datectx.FeedEntry{
			Year: e.Year,
			Text: e.Text,
		}
		for _, p := range e.Pages {
			entry.Pages = append(entry.Pages, datectx.PageRef{
				Title:       p.Title,
				Description: p.Description,
				URL:         p.ContentURLs.Desktop.Page,
			})
		}
		out = append(out, entry)
	}
	return out
}
