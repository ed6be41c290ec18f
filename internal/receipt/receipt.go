// Package receipt renders completed transactions for the operator: a printable
// text slip and a CSV export of the day's sales.
package receipt

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/PrincessAkira/RestockIQ/internal/pos"
)

const slipWidth = 38

// Render writes a text receipt for one transaction.
func Render(w io.Writer, storeName string, txn pos.Transaction) error {
	var b strings.Builder

	center(&b, storeName)
	center(&b, txn.CreatedAt.Format("2006-01-02 15:04:05"))
	line(&b, "Receipt", txn.ID)
	if txn.Cashier != "" {
		line(&b, "Cashier", txn.Cashier)
	}
	rule(&b)

	for _, l := range txn.Lines {
		fmt.Fprintf(&b, "%s\n", l.Name)
		line(&b, fmt.Sprintf("  %d x %s", l.Quantity, l.UnitPrice), l.Subtotal().String())
	}
	rule(&b)

	line(&b, "Subtotal", txn.Subtotal.String())
	line(&b, "Tax (15%)", txn.Tax.String())
	line(&b, "TOTAL", fmt.Sprintf("%s %s", txn.Currency, txn.Total))
	line(&b, string(txn.Method)+" tendered", txn.Tendered.String())
	line(&b, "Change", txn.Change.String())
	rule(&b)
	center(&b, "Thank you!")

	_, err := io.WriteString(w, b.String())
	return err
}

// ExportCSV writes one row per sold line across the given transactions.
func ExportCSV(w io.Writer, txns []pos.Transaction) error {
	cw := csv.NewWriter(w)
	header := []string{"receipt", "sale_id", "timestamp", "cashier", "product", "quantity", "unit_price", "line_total", "currency", "method"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, txn := range txns {
		for _, l := range txn.Lines {
			row := []string{
				txn.ID,
				txn.SaleID,
				txn.CreatedAt.Format("2006-01-02 15:04:05"),
				txn.Cashier,
				l.Name,
				fmt.Sprintf("%d", l.Quantity),
				l.UnitPrice.String(),
				l.Subtotal().String(),
				string(txn.Currency),
				string(txn.Method),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func line(b *strings.Builder, label, value string) {
	pad := slipWidth - len(label) - len(value)
	if pad < 1 {
		pad = 1
	}
	b.WriteString(label)
	b.WriteString(strings.Repeat(" ", pad))
	b.WriteString(value)
	b.WriteByte('\n')
}

func center(b *strings.Builder, s string) {
	pad := (slipWidth - len(s)) / 2
	if pad > 0 {
		b.WriteString(strings.Repeat(" ", pad))
	}
	b.WriteString(s)
	b.WriteByte('\n')
}

func rule(b *strings.Builder) {
	b.WriteString(strings.Repeat("-", slipWidth))
	b.WriteByte('\n')
}
