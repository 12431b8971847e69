package payments

import (
	"encoding/csv"
	"io"
	"time"
)

// writeCSV renders transactions with a header row. Amounts are formatted
// as decimal strings, not raw minor units.
func writeCSV(out io.Writer, txs []Transaction) error {
	w := csv.NewWriter(out)

	if err := w.Write([]string{"id", "operation", "amount", "currency", "timestamp"}); err != nil {
		return err
	}

	for _, tx := range txs {
		record := []string{
			tx.ID,
			tx.Operation,
			FormatAmount(tx.Amount),
			tx.Currency,
			tx.Timestamp.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
