// Package match scores bank credit transactions against open AR
// invoices and attaches the best-qualifying invoice to each row.
package match

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bankrec-dev/bankrec/internal/bai2"
	"github.com/bankrec-dev/bankrec/internal/invoice"
)

// Score weights. A match needs the combined amount and name score to
// reach the acceptance threshold.
const (
	amountExactPoints = 50
	amountClosePoints = 30
	nameMaxPoints     = 50

	// DefaultMinScore is the default acceptance threshold.
	DefaultMinScore = 60

	// DefaultLinkLabel is the default display text of the invoice
	// hyperlink formula.
	DefaultLinkLabel = "Open Invoice"
)

// centTolerance treats amounts within a cent as exact; it doubles as
// the 1% relative tolerance for the close-match tier.
var centTolerance = decimal.New(1, -2)

// Options adjusts matcher behavior. The zero value uses the defaults.
type Options struct {
	MinScore  int
	LinkLabel string
}

// Result is one transaction row with the four match columns appended.
// The match columns are all empty when no invoice qualified.
type Result struct {
	bai2.TransactionRow

	MatchedCustomer string
	InvoiceNumber   string
	Confidence      string
	InvoiceLink     string
}

// Transactions matches every credit row against every invoice and
// returns one Result per input row, in input order. Rows without a
// positive parseable credit amount pass through unmatched.
func Transactions(rows []bai2.TransactionRow, invoices []invoice.Invoice, opts Options) []Result {
	if opts.MinScore == 0 {
		opts.MinScore = DefaultMinScore
	}
	if opts.LinkLabel == "" {
		opts.LinkLabel = DefaultLinkLabel
	}

	results := make([]Result, 0, len(rows))
	for _, row := range rows {
		result := Result{TransactionRow: row}

		amount, ok := parseCreditAmount(row.CreditAmount)
		if ok {
			best, score := bestInvoice(amount, row.Description, invoices)
			if best != nil && score >= opts.MinScore {
				result.MatchedCustomer = best.Customer
				result.InvoiceNumber = best.Number
				result.Confidence = fmt.Sprintf("%d%%", min(score, 100))
				if best.URL != "" {
					result.InvoiceLink = fmt.Sprintf("=HYPERLINK(%q,%q)", best.URL, opts.LinkLabel)
				}
			}
		}
		results = append(results, result)
	}
	return results
}

// bestInvoice scans every invoice and returns the highest scorer. Equal
// scores fall to the invoice whose remaining amount is closer to the
// transaction amount; further ties keep the first seen.
func bestInvoice(amount decimal.Decimal, description string, invoices []invoice.Invoice) (*invoice.Invoice, int) {
	bestScore := 0
	var best *invoice.Invoice

	for i := range invoices {
		inv := &invoices[i]
		score := amountScore(amount, inv.AmountRemaining) + nameScore(description, inv.Customer)

		switch {
		case score > bestScore:
			bestScore = score
			best = inv
		case score == bestScore && best != nil:
			if distance(amount, inv.AmountRemaining).LessThan(distance(amount, best.AmountRemaining)) {
				best = inv
			}
		}
	}
	return best, bestScore
}

// amountScore awards 50 points for an exact amount match (within a
// cent) and 30 for a match within 1% of the larger amount.
func amountScore(txnAmount, invAmount decimal.Decimal) int {
	if !txnAmount.IsPositive() || !invAmount.IsPositive() {
		return 0
	}
	diff := distance(txnAmount, invAmount)
	if diff.LessThan(centTolerance) {
		return amountExactPoints
	}
	larger := decimal.Max(txnAmount, invAmount)
	if diff.Div(larger).LessThanOrEqual(centTolerance) {
		return amountClosePoints
	}
	return 0
}

// nameScore scales the token-set similarity of the transaction memo and
// the invoice customer name onto 0-50. Either side empty scores 0.
func nameScore(description, customer string) int {
	if description == "" || customer == "" {
		return 0
	}
	return int(math.Round(tokenSetRatio(description, customer) * nameMaxPoints / 100))
}

func distance(a, b decimal.Decimal) decimal.Decimal {
	return a.Sub(b).Abs()
}

// parseCreditAmount parses a formatted credit amount ("1,500.00") and
// reports whether it is a positive number.
func parseCreditAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return amount, amount.IsPositive()
}
