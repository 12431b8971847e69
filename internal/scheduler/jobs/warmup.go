package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/julienv/daygate/internal/datectx"
	"github.com/julienv/daygate/pkg/logger"
)

// HolidayWarmup prefetches holiday lists through the caching source so the
// first requests after a cache expiry do not pay the upstream latency.
type HolidayWarmup struct {
	source    datectx.HolidaySource
	countries []string
	schedule  string
	logger    *logger.Logger
	clock     func() time.Time
}

func NewHolidayWarmup(source datectx.HolidaySource, countries []string, schedule string, log *logger.Logger) *HolidayWarmup {
	return &HolidayWarmup{
		source:    source,
		countries: countries,
		schedule:  schedule,
		logger:    log,
		clock:     time.Now,
	}
}

func (j *HolidayWarmup) Name() string {
	return "holiday_warmup"
}

func (j *HolidayWarmup) Schedule() string {
	return j.schedule
}

// Run fetches the current and next year for each country. A year that
// fails is reported but does not stop the remaining fetches.
func (j *HolidayWarmup) Run(ctx context.Context) error {
	year := j.clock().UTC().Year()
	years := []int{year, year + 1}

	var failed int
	for _, country := range j.countries {
		for _, y := range years {
			holidays, err := j.source.PublicHolidays(ctx, y, country)
			if err != nil {
				failed++
				j.logger.WithError(err).WithFields(map[string]interface{}{
					"country": country,
					"year":    y,
				}).Warn("Holiday warmup fetch failed")
				continue
			}

			j.logger.WithFields(map[string]interface{}{
				"country":  country,
				"year":     y,
				"holidays": len(holidays),
			}).Debug("Holiday cache warmed")
		}
	}

	if failed > 0 {
		return fmt.Errorf("holiday warmup: %d of %d fetches failed", failed, len(j.countries)*len(years))
	}
	return nil
}
