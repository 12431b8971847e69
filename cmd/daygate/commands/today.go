package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/julienv/daygate/internal/datectx"
	"github.com/julienv/daygate/internal/external/nager"
	"github.com/julienv/daygate/internal/external/onthisday"
	"github.com/julienv/daygate/pkg/config"
	"github.com/julienv/daygate/pkg/httputil"
	"github.com/julienv/daygate/pkg/logger"
)

// todayCmd prints the free daily overview without starting the server.
var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Print today's overview",
	Long: `Print the current day's calendar facts and US public holidays.

Example:
  go run ./cmd/daygate today`,
	RunE: runToday,
}

func init() {
	rootCmd.AddCommand(todayCmd)
}

func runToday(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	holidayHTTP := httputil.NewWithTimeout(log, cfg.Holidays.Timeout).WithRateLimit(cfg.Holidays.RateRPS)
	feedHTTP := httputil.NewWithTimeout(log, cfg.OnThisDay.Timeout).WithRateLimit(cfg.OnThisDay.RateRPS)

	holidaySource := nager.NewClient(holidayHTTP, cfg.Holidays.BaseURL, log)
	feedSource := onthisday.NewClient(feedHTTP, cfg.OnThisDay.BaseURL, log)

	agg := datectx.New(holidaySource, feedSource, log)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	overview := agg.Today(ctx)

	fmt.Printf("%s (%s)\n", overview.ISO, overview.DayOfWeek)
	fmt.Printf("  day %d of the year, ISO week %d, Q%d\n", overview.DayOfYear, overview.ISOWeek, overview.Quarter)
	if overview.IsWeekend {
		fmt.Println("  weekend")
	}

	if len(overview.Holidays) == 0 {
		fmt.Println("  no US public holidays today")
		return nil
	}

	fmt.Println("  US public holidays:")
	for _, h := range overview.Holidays {
		fmt.Printf("    - %s (%s)\n", h.Name, h.LocalName)
	}
	return nil
}
