package datectx

import (
	"context"
	"sync"
	"time"

	"github.com/julienv/daygate/pkg/logger"
)

// OverviewCountry is the fixed country used by the free daily overview.
const OverviewCountry = "US"

// Truncation rules per operation.
const (
	DefaultFeedLimit = 10 // events/births lookups when no limit given
	contextFeedLimit = 5  // events/births inside a full context
	eventPageLimit   = 2  // reference pages per historical event
	birthPageLimit   = 1  // reference pages per notable birth
)

// Aggregator merges holiday and on-this-day data into date-context views.
// Sources are injected; the aggregator never constructs clients itself.
type Aggregator struct {
	holidays HolidaySource
	feed     OnThisDaySource
	logger   *logger.Logger
	clock    func() time.Time
}

// New creates an Aggregator over the given sources.
func New(holidays HolidaySource, feed OnThisDaySource, log *logger.Logger) *Aggregator {
	return &Aggregator{
		holidays: holidays,
		feed:     feed,
		logger:   log.WithField("module", "datectx"),
		clock:    time.Now,
	}
}

// WithClock overrides the time source. Used by tests.
func (a *Aggregator) WithClock(clock func() time.Time) *Aggregator {
	a.clock = clock
	return a
}

// DailyOverview is the free snapshot of the current day.
type DailyOverview struct {
	CalendarDate
	Holidays []Holiday `json:"holidays"`
}

// Today computes the overview for the current UTC day. The holiday list is
// best-effort enrichment: a failed fetch degrades to an empty list and the
// overview itself never fails.
func (a *Aggregator) Today(ctx context.Context) *DailyOverview {
	date := Decompose(a.clock())

	overview := &DailyOverview{
		CalendarDate: date,
		Holidays:     []Holiday{},
	}

	holidays, err := a.holidays.PublicHolidays(ctx, date.Year, OverviewCountry)
	if err != nil {
		a.logger.WithError(err).Debug("Holiday enrichment unavailable for daily overview")
		return overview
	}

	overview.Holidays = filterByDate(holidays, date.ISO)
	return overview
}

// HolidayReport is the full holiday list for one country and year.
type HolidayReport struct {
	Country   string    `json:"country"`
	Year      int       `json:"year"`
	Count     int       `json:"count"`
	Holidays  []Holiday `json:"holidays"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// Holidays returns all public holidays for country/year. A zero year means
// the current year. The upstream call is the entire value of the response,
// so its failure propagates.
func (a *Aggregator) Holidays(ctx context.Context, country string, year int) (*HolidayReport, error) {
	if year <= 0 {
		year = a.clock().UTC().Year()
	}

	holidays, err := a.holidays.PublicHolidays(ctx, year, country)
	if err != nil {
		return nil, err
	}

	return &HolidayReport{
		Country:   country,
		Year:      year,
		Count:     len(holidays),
		Holidays:  holidays,
		FetchedAt: a.clock().UTC(),
	}, nil
}

// EventsReport lists historical events for one month/day.
type EventsReport struct {
	Month     int         `json:"month"`
	Day       int         `json:"day"`
	Count     int         `json:"count"`
	Events    []FeedEntry `json:"events"`
	FetchedAt time.Time   `json:"fetchedAt"`
}

// Events returns up to limit historical events for month/day, each with at
// most two reference pages. Upstream failure propagates. The day is not
// validated against the month; the provider decides what a Feb 31 yields.
func (a *Aggregator) Events(ctx context.Context, month, day, limit int) (*EventsReport, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}

	entries, err := a.feed.Events(ctx, month, day)
	if err != nil {
		return nil, err
	}

	entries = truncate(entries, limit, eventPageLimit)
	return &EventsReport{
		Month:     month,
		Day:       day,
		Count:     len(entries),
		Events:    entries,
		FetchedAt: a.clock().UTC(),
	}, nil
}

// BirthsReport lists notable births for one month/day.
type BirthsReport struct {
	Month     int         `json:"month"`
	Day       int         `json:"day"`
	Count     int         `json:"count"`
	Births    []FeedEntry `json:"births"`
	FetchedAt time.Time   `json:"fetchedAt"`
}

// Births mirrors Events against the births feed, with at most one
// reference page per entry.
func (a *Aggregator) Births(ctx context.Context, month, day, limit int) (*BirthsReport, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}

	entries, err := a.feed.Births(ctx, month, day)
	if err != nil {
		return nil, err
	}

	entries = truncate(entries, limit, birthPageLimit)
	return &BirthsReport{
		Month:     month,
		Day:       day,
		Count:     len(entries),
		Births:    entries,
		FetchedAt: a.clock().UTC(),
	}, nil
}

// AggregatedContext is the merged output of one full-context request.
type AggregatedContext struct {
	Date      CalendarDate `json:"date"`
	Holidays  []Holiday    `json:"holidays"`
	Events    []FeedEntry  `json:"events"`
	Births    []FeedEntry  `json:"births"`
	Sources   []string     `json:"sources"`
	FetchedAt time.Time    `json:"fetchedAt"`
}

// FullContext fetches holidays, events and births for one date
// concurrently. Each branch degrades to an empty result on its own failure;
// no branch failure aborts the others or the request. Events and births are
// capped at five entries each and carry no page linkage in this mode.
func (a *Aggregator) FullContext(ctx context.Context, dateStr, country string) (*AggregatedContext, error) {
	if country == "" {
		country = OverviewCountry
	}

	date, err := ParseDateOrNow(dateStr, a.clock)
	if err != nil {
		return nil, err
	}

	var (
		wg       sync.WaitGroup
		holidays []Holiday
		events   []FeedEntry
		births   []FeedEntry
	)

	// Each goroutine owns exactly one result slot; nothing is shared until
	// the join.
	wg.Add(3)
	go func() {
		defer wg.Done()
		all, err := a.holidays.PublicHolidays(ctx, date.Year, country)
		if err != nil {
			a.logger.WithError(err).Warn("Holiday branch degraded in full context")
			return
		}
		holidays = filterByDate(all, date.ISO)
	}()
	go func() {
		defer wg.Done()
		all, err := a.feed.Events(ctx, date.Month, date.Day)
		if err != nil {
			a.logger.WithError(err).Warn("Events branch degraded in full context")
			return
		}
		events = truncate(all, contextFeedLimit, 0)
	}()
	go func() {
		defer wg.Done()
		all, err := a.feed.Births(ctx, date.Month, date.Day)
		if err != nil {
			a.logger.WithError(err).Warn("Births branch degraded in full context")
			return
		}
		births = truncate(all, contextFeedLimit, 0)
	}()
	wg.Wait()

	if holidays == nil {
		holidays = []Holiday{}
	}
	if events == nil {
		events = []FeedEntry{}
	}
	if births == nil {
		births = []FeedEntry{}
	}

	return &AggregatedContext{
		Date:      date,
		Holidays:  holidays,
		Events:    events,
		Births:    births,
		Sources:   []string{"Nager.Date", "Wikimedia On This Day"},
		FetchedAt: a.clock().UTC(),
	}, nil
}

// filterByDate keeps holidays whose date exactly matches iso.
func filterByDate(holidays []Holiday, iso string) []Holiday {
	matched := []Holiday{}
	for _, h := range holidays {
		if h.Date == iso {
			matched = append(matched, h)
		}
	}
	return matched
}

// truncate caps entries at limit and pages per entry at pageLimit.
// pageLimit 0 drops page linkage entirely.
func truncate(entries []FeedEntry, limit, pageLimit int) []FeedEntry {
	if len(entries) > limit {
		entries = entries[:limit]
	}

	out := make([]FeedEntry, len(entries))
	for i, e := range entries {
		out[i] = FeedEntry{Year: e.Year, Text: e.Text}
		if pageLimit > 0 && len(e.Pages) > 0 {
			pages := e.Pages
			if len(pages) > pageLimit {
				pages = pages[:pageLimit]
			}
			out[i].Pages = append([]PageRef(nil), pages...)
		}
	}
	return out
}
