package datectx

import (
	"context"
	"sync"
	"time"
)

// DateComparison is the per-date record inside a comparison.
type DateComparison struct {
	Date      string   `json:"date"`
	DayOfWeek string   `json:"dayOfWeek"`
	IsWeekend bool     `json:"isWeekend"`
	Holidays  []string `json:"holidays"`
	IsHoliday bool     `json:"isHoliday"`
}

// CompareSummary aggregates across all input dates.
type CompareSummary struct {
	Weekends    int  `json:"weekends"`
	Holidays    int  `json:"holidays"`
	AllWeekends bool `json:"allWeekends"`
	AllHolidays bool `json:"allHolidays"`
	NoWeekends  bool `json:"noWeekends"`
}

// CompareReport is the full comparison response.
type CompareReport struct {
	Country   string           `json:"country"`
	Dates     []DateComparison `json:"dates"`
	Summary   CompareSummary   `json:"summary"`
	FetchedAt time.Time        `json:"fetchedAt"`
}

// Compare evaluates the given dates against one country's holiday calendar.
// One holiday fetch is issued per distinct year, concurrently; a failed year
// degrades to an empty list for that year without aborting the batch.
func (a *Aggregator) Compare(ctx context.Context, dates []string, country string) (*CompareReport, error) {
	if country == "" {
		country = OverviewCountry
	}

	parsed := make([]CalendarDate, 0, len(dates))
	for _, s := range dates {
		d, err := ParseDate(s)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, d)
	}

	pool := a.holidayPool(ctx, parsed, country)

	byDate := make(map[string][]string, len(pool))
	for _, h := range pool {
		byDate[h.Date] = append(byDate[h.Date], h.Name)
	}

	records := make([]DateComparison, len(parsed))
	summary := CompareSummary{}
	for i, d := range parsed {
		names := byDate[d.ISO]
		if names == nil {
			names = []string{}
		}

		records[i] = DateComparison{
			Date:      d.ISO,
			DayOfWeek: d.DayOfWeek,
			IsWeekend: d.IsWeekend,
			Holidays:  names,
			IsHoliday: len(names) > 0,
		}

		if d.IsWeekend {
			summary.Weekends++
		}
		if len(names) > 0 {
			summary.Holidays++
		}
	}

	summary.AllWeekends = summary.Weekends == len(parsed)
	summary.AllHolidays = summary.Holidays == len(parsed)
	summary.NoWeekends = summary.Weekends == 0

	return &CompareReport{
		Country:   country,
		Dates:     records,
		Summary:   summary,
		FetchedAt: a.clock().UTC(),
	}, nil
}

// holidayPool fetches the holiday lists for every distinct year among the
// dates and merges them into one pool.
func (a *Aggregator) holidayPool(ctx context.Context, dates []CalendarDate, country string) []Holiday {
	years := make([]int, 0, len(dates))
	seen := make(map[int]bool, len(dates))
	for _, d := range dates {
		if !seen[d.Year] {
			seen[d.Year] = true
			years = append(years, d.Year)
		}
	}

	results := make([][]Holiday, len(years))
	var wg sync.WaitGroup
	for i, year := range years {
		wg.Add(1)
		go func(i, year int) {
			defer wg.Done()
			holidays, err := a.holidays.PublicHolidays(ctx, year, country)
			if err != nil {
				a.logger.WithError(err).WithField("year", year).
					Warn("Holiday year degraded in comparison")
				return
			}
			results[i] = holidays
		}(i, year)
	}
	wg.Wait()

	var pool []Holiday
	for _, r := range results {
		pool = append(pool, r...)
	}
	return pool
}
