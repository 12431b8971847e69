package payments

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const createLedgerSQL = `
CREATE TABLE IF NOT EXISTS payment_transactions (
	id UUID PRIMARY KEY,
	operation TEXT NOT NULL,
	amount_minor BIGINT NOT NULL,
	currency TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_payment_transactions_created_at
	ON payment_transactions (created_at);
`

// PostgresTracker is the durable payment ledger used when DATABASE_URL is
// configured.
type PostgresTracker struct {
	pool     *pgxpool.Pool
	currency string
}

// NewPostgresTracker creates the tracker and ensures the ledger table
// exists.
func NewPostgresTracker(ctx context.Context, pool *pgxpool.Pool, currency string) (*PostgresTracker, error) {
	if _, err := pool.Exec(ctx, createLedgerSQL); err != nil {
		return nil, fmt.Errorf("create payment ledger: %w", err)
	}
	return &PostgresTracker{pool: pool, currency: currency}, nil
}

// Record inserts one transaction.
func (p *PostgresTracker) Record(ctx context.Context, tx Transaction) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO payment_transactions (id, operation, amount_minor, currency, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		tx.ID, tx.Operation, tx.Amount, tx.Currency, tx.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}
	return nil
}

// Summary aggregates the windowed ledger in SQL.
func (p *PostgresTracker) Summary(ctx context.Context, w Window) (*Summary, error) {
	where, args := windowClause(w)

	rows, err := p.pool.Query(ctx,
		`SELECT operation, COUNT(*), COALESCE(SUM(amount_minor), 0)
		 FROM payment_transactions`+where+` GROUP BY operation`, args...)
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	summary := EmptySummary(p.currency)
	total := decimal.Zero
	for rows.Next() {
		var op string
		var count int
		var sum int64
		if err := rows.Scan(&op, &count, &sum); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		amount := decimal.New(sum, -2)
		total = total.Add(amount)
		summary.TotalTransactions += count
		summary.ByOperation[op] = OperationStats{
			Count: count,
			Total: amount.StringFixed(2),
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("summary rows: %w", err)
	}

	summary.TotalAmount = total.StringFixed(2)
	return summary, nil
}

// Transactions returns the newest windowed transactions.
func (p *PostgresTracker) Transactions(ctx context.Context, w Window, limit int) ([]Transaction, error) {
	where, args := windowClause(w)

	query := `SELECT id, operation, amount_minor, currency, created_at
		 FROM payment_transactions` + where + ` ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	txs := []Transaction{}
	for rows.Next() {
		var tx Transaction
		if err := rows.Scan(&tx.ID, &tx.Operation, &tx.Amount, &tx.Currency, &tx.Timestamp); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("transaction rows: %w", err)
	}

	return txs, nil
}

// ExportCSV writes the windowed ledger as CSV, oldest first.
func (p *PostgresTracker) ExportCSV(ctx context.Context, w Window, out io.Writer) error {
	where, args := windowClause(w)

	rows, err := p.pool.Query(ctx,
		`SELECT id, operation, amount_minor, currency, created_at
		 FROM payment_transactions`+where+` ORDER BY created_at ASC`, args...)
	if err != nil {
		return fmt.Errorf("query export: %w", err)
	}
	defer rows.Close()

	var txs []Transaction
	for rows.Next() {
		var tx Transaction
		if err := rows.Scan(&tx.ID, &tx.Operation, &tx.Amount, &tx.Currency, &tx.Timestamp); err != nil {
			return fmt.Errorf("scan export row: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("export rows: %w", err)
	}

	return writeCSV(out, txs)
}

// windowClause builds the WHERE fragment for an optional window.
func windowClause(w Window) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if w.From != nil {
		args = append(args, w.From.UTC())
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if w.To != nil {
		args = append(args, w.To.UTC())
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var _ Tracker = (*PostgresTracker)(nil)
var _ Tracker = (*MemoryTracker)(nil)
