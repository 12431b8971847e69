package api

import (
	"github.com/julienv/daygate/internal/api/handlers"
	"github.com/julienv/daygate/internal/gateway"
	"github.com/julienv/daygate/internal/payments"
	"github.com/julienv/daygate/pkg/config"
)

// BuildRegistry wires every gateway operation to its handler and price. The
// date handler's endpoint directory is populated afterwards so the free
// overview can advertise the full catalog.
func BuildRegistry(dates *handlers.DateHandler, analytics *handlers.AnalyticsHandler, prices config.PaymentsConfig) *gateway.Registry {
	r := gateway.NewRegistry()

	r.MustRegister(gateway.Operation{
		Key:         "get_today_overview",
		Description: "Free overview of the current day with its US public holidays",
		Method:      "GET",
		Path:        "/api/today",
		Handler:     dates.Today,
	})

	r.MustRegister(gateway.Operation{
		Key:         "get_holidays",
		Description: "Public holidays for a country and year",
		Method:      "GET",
		Path:        "/api/holidays",
		Price:       prices.PriceHolidays,
		Schema: gateway.Schema{
			{Name: "country", Type: gateway.FieldString, Required: true, ExactLen: 2},
			{Name: "year", Type: gateway.FieldInt, Min: 1900, Max: 2100},
		},
		Handler: dates.Holidays,
	})

	r.MustRegister(gateway.Operation{
		Key:         "get_events",
		Description: "Historical events that happened on a month/day across history",
		Method:      "GET",
		Path:        "/api/events",
		Price:       prices.PriceEvents,
		Schema: gateway.Schema{
			{Name: "month", Type: gateway.FieldInt, Required: true, Min: 1, Max: 12},
			{Name: "day", Type: gateway.FieldInt, Required: true, Min: 1, Max: 31},
			{Name: "limit", Type: gateway.FieldInt, Min: 1, Max: 50},
		},
		Handler: dates.Events,
	})

	r.MustRegister(gateway.Operation{
		Key:         "get_births",
		Description: "Notable births on a month/day across history",
		Method:      "GET",
		Path:        "/api/births",
		Price:       prices.PriceBirths,
		Schema: gateway.Schema{
			{Name: "month", Type: gateway.FieldInt, Required: true, Min: 1, Max: 12},
			{Name: "day", Type: gateway.FieldInt, Required: true, Min: 1, Max: 31},
			{Name: "limit", Type: gateway.FieldInt, Min: 1, Max: 50},
		},
		Handler: dates.Births,
	})

	r.MustRegister(gateway.Operation{
		Key:         "get_date_context",
		Description: "Merged holidays, events and births for one date",
		Method:      "GET",
		Path:        "/api/context",
		Price:       prices.PriceContext,
		Schema: gateway.Schema{
			{Name: "date", Type: gateway.FieldString},
			{Name: "country", Type: gateway.FieldString, Default: "US", ExactLen: 2},
		},
		Handler: dates.DateContext,
	})

	r.MustRegister(gateway.Operation{
		Key:         "compare_dates",
		Description: "Weekday, weekend and holiday comparison across several dates",
		Method:      "POST",
		Path:        "/api/compare",
		Price:       prices.PriceCompare,
		Schema: gateway.Schema{
			{Name: "dates", Type: gateway.FieldStringList, Required: true, MinItems: 2, MaxItems: 5},
			{Name: "country", Type: gateway.FieldString, Default: "US", ExactLen: 2},
		},
		Handler: dates.CompareDates,
	})

	r.MustRegister(gateway.Operation{
		Key:         "get_payment_summary",
		Description: "Aggregated payment totals, optionally windowed",
		Method:      "GET",
		Path:        "/api/analytics/summary",
		Schema: gateway.Schema{
			{Name: "from", Type: gateway.FieldString},
			{Name: "to", Type: gateway.FieldString},
		},
		Handler: analytics.Summary,
	})

	r.MustRegister(gateway.Operation{
		Key:         "get_transactions",
		Description: "Recent payment transactions, newest first",
		Method:      "GET",
		Path:        "/api/analytics/transactions",
		Schema: gateway.Schema{
			{Name: "from", Type: gateway.FieldString},
			{Name: "to", Type: gateway.FieldString},
			{Name: "limit", Type: gateway.FieldInt, Min: 1, Max: 500},
		},
		Handler: analytics.Transactions,
	})

	dates.SetDirectory(Directory(r, prices.Currency))
	return r
}

// Directory flattens the registry into the advertised endpoint catalog.
func Directory(r *gateway.Registry, currency string) []handlers.EndpointInfo {
	ops := r.Operations()
	dir := make([]handlers.EndpointInfo, 0, len(ops))
	for _, op := range ops {
		dir = append(dir, handlers.EndpointInfo{
			Key:         op.Key,
			Description: op.Description,
			Free:        !op.Priced(),
			Price:       payments.FormatAmount(op.Price) + " " + currency,
		})
	}
	return dir
}
