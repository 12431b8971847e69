package datectx

import "context"

// Holiday is one public holiday as reported by the holiday provider,
// normalized at the client boundary.
type Holiday struct {
	Date      string   `json:"date"` // YYYY-MM-DD
	Name      string   `json:"name"`
	LocalName string   `json:"localName"`
	Global    bool     `json:"global"`
	Types     []string `json:"types,omitempty"`
}

// PageRef is a linked reference page attached to a feed entry.
type PageRef struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// FeedEntry is one historical event or notable birth from the
// on-this-day provider.
type FeedEntry struct {
	Year  int       `json:"year"`
	Text  string    `json:"text"`
	Pages []PageRef `json:"pages,omitempty"`
}

// HolidaySource abstracts the public-holiday provider.
type HolidaySource interface {
	PublicHolidays(ctx context.Context, year int, country string) ([]Holiday, error)
}

// OnThisDaySource abstracts the on-this-day feed provider.
type OnThisDaySource interface {
	Events(ctx context.Context, month, day int) ([]FeedEntry, error)
	Births(ctx context.Context, month, day int) ([]FeedEntry, error)
}
