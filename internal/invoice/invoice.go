// Package invoice models the open accounts-receivable invoices the
// matcher runs against. The list is produced by an external AR system
// and arrives here already materialized.
package invoice

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Invoice is one open AR invoice.
type Invoice struct {
	ID              string
	Number          string
	Customer        string
	AmountRemaining decimal.Decimal
	Currency        string
	DueDate         string
	URL             string
}

// ExpandURL fills an invoice deep-link template, replacing {id} with
// the invoice identifier. An empty template yields an empty URL.
func ExpandURL(template, id string) string {
	if template == "" {
		return ""
	}
	return strings.ReplaceAll(template, "{id}", id)
}
