package nager

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julienv/daygate/internal/datectx"
	"github.com/julienv/daygate/pkg/httputil"
	"github.com/julienv/daygate/pkg/logger"
)

// Source names this provider in errors and logs.
const Source = "nager"

// Client fetches public holidays from a Nager.Date-compatible API.
type Client struct {
	httpClient *httputil.Client
	baseURL    string
	logger     *logger.Logger
}

// NewClient creates a new holiday API client.
func NewClient(httpClient *httputil.Client, baseURL string, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     log.WithField("source", Source),
	}
}

// holidayDTO mirrors the provider's response entry.
type holidayDTO struct {
	Date      string   `json:"date"`
	Name      string   `json:"name"`
	LocalName string   `json:"localName"`
	Global    bool     `json:"global"`
	Types     []string `json:"types"`
}

// PublicHolidays returns all public holidays for one country and year.
func (c *Client) PublicHolidays(ctx context.Context, year int, country string) ([]datectx.Holiday, error) {
	url := fmt.Sprintf("%s/api/v3/PublicHolidays/%d/%s", c.baseURL, year, strings.ToUpper(country))

	var raw []holidayDTO
	if err := c.httpClient.GetJSON(ctx, Source, url, &raw); err != nil {
		return nil, err
	}

	holidays := make([]datectx.Holiday, 0, len(raw))
	for i, dto := range raw {
		// Validate the shape at the boundary instead of passing broken
		// entries downstream.
		if dto.Name == "" {
			return nil, httputil.NewShapeError(Source, 200,
				fmt.Errorf("entry %d: missing name", i))
		}
		if _, err := time.Parse("2006-01-02", dto.Date); err != nil {
			return nil, httputil.NewShapeError(Source, 200,
				fmt.Errorf("entry %d: bad date %q", i, dto.Date))
		}

		holidays = append(holidays, datectx.Holiday{
			Date:      dto.Date,
			Name:      dto.Name,
			LocalName: dto.LocalName,
			Global:    dto.Global,
			Types:     dto.Types,
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"country": strings.ToUpper(country),
		"year":    year,
		"count":   len(holidays),
	}).Debug("Fetched public holidays")

	return holidays, nil
}
