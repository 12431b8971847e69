package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/julienv/daygate/internal/gateway"
	"github.com/julienv/daygate/internal/payments"
	"github.com/julienv/daygate/pkg/logger"
)

const defaultTransactionLimit = 50

// AnalyticsHandler serves the read-only views over the payment ledger.
// The tracker may be nil when no ledger is configured; every view then
// falls back to an empty shape instead of failing.
type AnalyticsHandler struct {
	tracker  payments.Tracker
	currency string
	logger   *logger.Logger
}

func NewAnalyticsHandler(tracker payments.Tracker, currency string, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{tracker: tracker, currency: currency, logger: log}
}

// Currency returns the ledger currency code.
func (h *AnalyticsHandler) Currency() string {
	return h.currency
}

func (h *AnalyticsHandler) Summary(ctx context.Context, in gateway.Input) (interface{}, error) {
	if h.tracker == nil {
		return payments.EmptySummary(h.currency), nil
	}

	window, err := parseWindow(in.String("from"), in.String("to"))
	if err != nil {
		return nil, err
	}
	return h.tracker.Summary(ctx, window)
}

type transactionsResponse struct {
	Count        int                    `json:"count"`
	Transactions []payments.Transaction `json:"transactions"`
}

func (h *AnalyticsHandler) Transactions(ctx context.Context, in gateway.Input) (interface{}, error) {
	if h.tracker == nil {
		return transactionsResponse{Count: 0, Transactions: []payments.Transaction{}}, nil
	}

	window, err := parseWindow(in.String("from"), in.String("to"))
	if err != nil {
		return nil, err
	}

	limit := in.Int("limit")
	if limit <= 0 {
		limit = defaultTransactionLimit
	}

	txs, err := h.tracker.Transactions(ctx, window, limit)
	if err != nil {
		return nil, err
	}
	return transactionsResponse{Count: len(txs), Transactions: txs}, nil
}

// ExportCSV streams the ledger as a CSV download. It bypasses the JSON
// operation pipeline because the response body is not JSON.
func (h *AnalyticsHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)

	if h.tracker == nil {
		fmt.Fprintln(w, "id,operation,amount,currency,timestamp")
		return
	}

	if err := h.tracker.ExportCSV(r.Context(), window, w); err != nil {
		h.logger.WithError(err).Error("CSV export failed")
	}
}

// parseWindow turns optional from/to strings into a payments window.
// Accepts plain dates and full RFC 3339 timestamps.
func parseWindow(from, to string) (payments.Window, error) {
	var w payments.Window

	if from != "" {
		t, err := parseTimeBound(from)
		if err != nil {
			return w, &gateway.ValidationError{Field: "from", Reason: "must be YYYY-MM-DD or RFC 3339"}
		}
		w.From = &t
	}
	if to != "" {
		t, err := parseTimeBound(to)
		if err != nil {
			return w, &gateway.ValidationError{Field: "to", Reason: "must be YYYY-MM-DD or RFC 3339"}
		}
		w.To = &t
	}
	return w, nil
}

func parseTimeBound(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
