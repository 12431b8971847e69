package payments

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is one settled micropayment for a priced operation.
// Amounts are integer minor currency units.
type Transaction struct {
	ID        string    `json:"id"`
	Operation string    `json:"operation"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransaction builds a transaction for one settled call.
func NewTransaction(operation string, amount int64, currency string) Transaction {
	return Transaction{
		ID:        uuid.NewString(),
		Operation: operation,
		Amount:    amount,
		Currency:  currency,
		Timestamp: time.Now().UTC(),
	}
}

// Window is an optional time filter. Nil bounds are open.
type Window struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if w.From != nil && t.Before(*w.From) {
		return false
	}
	if w.To != nil && t.After(*w.To) {
		return false
	}
	return true
}

// OperationStats aggregates one operation's settled calls.
type OperationStats struct {
	Count int    `json:"count"`
	Total string `json:"total"`
}

// Summary aggregates all settled calls. Monetary totals are stringified
// decimals so large values survive JSON transport intact.
type Summary struct {
	TotalTransactions int                       `json:"totalTransactions"`
	TotalAmount       string                    `json:"totalAmount"`
	Currency          string                    `json:"currency"`
	ByOperation       map[string]OperationStats `json:"byOperation"`
}

// EmptySummary is the well-formed zero shape returned when no tracker is
// configured or nothing has been recorded.
func EmptySummary(currency string) *Summary {
	return &Summary{
		TotalAmount: "0.00",
		Currency:    currency,
		ByOperation: map[string]OperationStats{},
	}
}

// Tracker records settled payments and answers analytics queries.
type Tracker interface {
	Record(ctx context.Context, tx Transaction) error
	Summary(ctx context.Context, w Window) (*Summary, error)
	Transactions(ctx context.Context, w Window, limit int) ([]Transaction, error)
	ExportCSV(ctx context.Context, w Window, out io.Writer) error
}

// FormatAmount renders minor units as a fixed two-decimal string.
func FormatAmount(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}

// summarize folds transactions into a Summary.
func summarize(txs []Transaction, currency string) *Summary {
	summary := EmptySummary(currency)

	total := decimal.Zero
	perOp := make(map[string]decimal.Decimal)
	counts := make(map[string]int)

	for _, tx := range txs {
		amount := decimal.New(tx.Amount, -2)
		total = total.Add(amount)
		perOp[tx.Operation] = perOp[tx.Operation].Add(amount)
		counts[tx.Operation]++
	}

	summary.TotalTransactions = len(txs)
	summary.TotalAmount = total.StringFixed(2)
	for op, sum := range perOp {
		summary.ByOperation[op] = OperationStats{
			Count: counts[op],
			Total: sum.StringFixed(2),
		}
	}

	return summary
}
