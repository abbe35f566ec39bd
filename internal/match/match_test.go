package match

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankrec-dev/bankrec/internal/bai2"
	"github.com/bankrec-dev/bankrec/internal/invoice"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func creditRow(amount, description string) bai2.TransactionRow {
	return bai2.TransactionRow{
		TranType:     "ACH CREDIT",
		TypeCode:     "169",
		CreditAmount: amount,
		Description:  description,
	}
}

func inv(number, customer, remaining string) invoice.Invoice {
	return invoice.Invoice{
		ID:              number,
		Number:          number,
		Customer:        customer,
		AmountRemaining: dec(remaining),
		URL:             "https://ar.example.com/invoice/" + number,
	}
}

func TestTransactions_ExactAmountAndName(t *testing.T) {
	rows := []bai2.TransactionRow{creditRow("1,000.00", "ACME CORP")}
	invoices := []invoice.Invoice{inv("INV-1042", "ACME CORP", "1000.00")}

	results := Transactions(rows, invoices, Options{})
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, "ACME CORP", res.MatchedCustomer)
	assert.Equal(t, "INV-1042", res.InvoiceNumber)
	assert.Equal(t, "100%", res.Confidence)
	assert.Equal(t, `=HYPERLINK("https://ar.example.com/invoice/INV-1042","Open Invoice")`, res.InvoiceLink)
}

func TestTransactions_NameOnlyScoreRejected(t *testing.T) {
	// 1200 vs 1000 misses the 1% tolerance, so only the name scores:
	// 50 points, below the 60 threshold.
	rows := []bai2.TransactionRow{creditRow("1,000.00", "ACME CORP")}
	invoices := []invoice.Invoice{inv("INV-1", "ACME CORP", "1200.00")}

	results := Transactions(rows, invoices, Options{})
	require.Len(t, results, 1)
	assertUnmatched(t, results[0])
}

func TestTransactions_AmountOnlyScoreRejected(t *testing.T) {
	// Within 1% but the customer name shares nothing with the memo:
	// 30-odd points, below the 60 threshold.
	rows := []bai2.TransactionRow{creditRow("1,000.00", "ACME CORP")}
	invoices := []invoice.Invoice{inv("INV-1", "UNRELATED INC", "1005.00")}

	results := Transactions(rows, invoices, Options{})
	require.Len(t, results, 1)
	assertUnmatched(t, results[0])
}

func TestTransactions_CloseAmountPlusNameAccepted(t *testing.T) {
	// 30 (within 1%) + 50 (name) = 80.
	rows := []bai2.TransactionRow{creditRow("1,000.00", "ACME CORP")}
	invoices := []invoice.Invoice{inv("INV-1", "ACME CORP", "1005.00")}

	results := Transactions(rows, invoices, Options{})
	require.Len(t, results, 1)
	assert.Equal(t, "INV-1", results[0].InvoiceNumber)
	assert.Equal(t, "80%", results[0].Confidence)
}

func TestTransactions_TieBreakCloserAmount(t *testing.T) {
	// Both invoices score 80; the one whose remaining amount sits
	// closer to the transaction wins regardless of list order.
	rows := []bai2.TransactionRow{creditRow("1,000.00", "ACME CORP")}
	invoices := []invoice.Invoice{
		inv("INV-FAR", "ACME CORP", "1005.00"),
		inv("INV-NEAR", "ACME CORP", "999.00"),
	}

	results := Transactions(rows, invoices, Options{})
	require.Len(t, results, 1)
	assert.Equal(t, "INV-NEAR", results[0].InvoiceNumber)
}

func TestTransactions_TieWithinTieKeepsFirstSeen(t *testing.T) {
	rows := []bai2.TransactionRow{creditRow("1,000.00", "ACME CORP")}
	invoices := []invoice.Invoice{
		inv("INV-FIRST", "ACME CORP", "995.00"),
		inv("INV-SECOND", "ACME CORP", "1005.00"),
	}

	results := Transactions(rows, invoices, Options{})
	require.Len(t, results, 1)
	assert.Equal(t, "INV-FIRST", results[0].InvoiceNumber)
}

func TestTransactions_DebitsPassThrough(t *testing.T) {
	rows := []bai2.TransactionRow{
		{TranType: "WIRE TRANSFER DEBIT", TypeCode: "495", DebitAmount: "1,000.00", Description: "ACME CORP"},
	}
	invoices := []invoice.Invoice{inv("INV-1", "ACME CORP", "1000.00")}

	results := Transactions(rows, invoices, Options{})
	require.Len(t, results, 1)
	assertUnmatched(t, results[0])
}

func TestTransactions_UnmatchableCreditsPassThrough(t *testing.T) {
	rows := []bai2.TransactionRow{
		creditRow("0.00", "ACME CORP"),
		creditRow("N/A", "ACME CORP"),
		creditRow("", "ACME CORP"),
	}
	invoices := []invoice.Invoice{inv("INV-1", "ACME CORP", "1000.00")}

	results := Transactions(rows, invoices, Options{})
	require.Len(t, results, 3)
	for _, res := range results {
		assertUnmatched(t, res)
	}
}

func TestTransactions_EmptyInvoiceList(t *testing.T) {
	rows := []bai2.TransactionRow{
		creditRow("1,000.00", "ACME CORP"),
		{DebitAmount: "50.00"},
	}

	results := Transactions(rows, nil, Options{})
	require.Len(t, results, 2)
	for _, res := range results {
		assertUnmatched(t, res)
	}
}

func TestTransactions_PreservesOrderAndCardinality(t *testing.T) {
	rows := []bai2.TransactionRow{
		creditRow("1,000.00", "ACME CORP"),
		{DebitAmount: "50.00", BankRef: "D1"},
		creditRow("5,250.00", "GLOBEX INTERNATIONAL GMBH"),
	}
	invoices := []invoice.Invoice{
		inv("INV-1", "ACME CORP", "1000.00"),
		inv("INV-2", "GLOBEX INTERNATIONAL GMBH", "5250.00"),
	}

	results := Transactions(rows, invoices, Options{})
	require.Len(t, results, 3)
	assert.Equal(t, "INV-1", results[0].InvoiceNumber)
	assert.Equal(t, "D1", results[1].BankRef)
	assertUnmatched(t, results[1])
	assert.Equal(t, "INV-2", results[2].InvoiceNumber)
}

func TestTransactions_EmptyMemoScoresAmountOnly(t *testing.T) {
	// Exact amount alone is 50, below the threshold.
	rows := []bai2.TransactionRow{creditRow("1,000.00", "")}
	invoices := []invoice.Invoice{inv("INV-1", "ACME CORP", "1000.00")}

	results := Transactions(rows, invoices, Options{})
	assertUnmatched(t, results[0])
}

func TestTransactions_CustomMinScore(t *testing.T) {
	rows := []bai2.TransactionRow{creditRow("1,000.00", "ACME CORP")}
	invoices := []invoice.Invoice{inv("INV-1", "ACME CORP", "1005.00")}

	results := Transactions(rows, invoices, Options{MinScore: 90})
	assertUnmatched(t, results[0])
}

func TestTransactions_CustomLinkLabel(t *testing.T) {
	rows := []bai2.TransactionRow{creditRow("1,000.00", "ACME CORP")}
	invoices := []invoice.Invoice{inv("INV-1", "ACME CORP", "1000.00")}

	results := Transactions(rows, invoices, Options{LinkLabel: "Open in NetSuite"})
	assert.Contains(t, results[0].InvoiceLink, `"Open in NetSuite"`)
}

func TestTransactions_NoURLNoLink(t *testing.T) {
	invoices := []invoice.Invoice{{Number: "INV-1", Customer: "ACME CORP", AmountRemaining: dec("1000.00")}}
	rows := []bai2.TransactionRow{creditRow("1,000.00", "ACME CORP")}

	results := Transactions(rows, invoices, Options{})
	assert.Equal(t, "INV-1", results[0].InvoiceNumber)
	assert.Empty(t, results[0].InvoiceLink)
}

func TestAmountScore(t *testing.T) {
	assert.Equal(t, 50, amountScore(dec("1000.00"), dec("1000.00")))
	assert.Equal(t, 50, amountScore(dec("1000.00"), dec("1000.005")))
	assert.Equal(t, 30, amountScore(dec("1000.00"), dec("1009.99")))
	assert.Equal(t, 0, amountScore(dec("1000.00"), dec("1200.00")))
	assert.Equal(t, 0, amountScore(dec("1000.00"), decimal.Zero))
	assert.Equal(t, 0, amountScore(decimal.Zero, dec("1000.00")))
}

func TestNameScore(t *testing.T) {
	assert.Equal(t, 50, nameScore("ACME CORP", "ACME CORP"))
	assert.Zero(t, nameScore("", "ACME CORP"))
	assert.Zero(t, nameScore("ACME CORP", ""))
}

func assertUnmatched(t *testing.T, res Result) {
	t.Helper()
	assert.Empty(t, res.MatchedCustomer)
	assert.Empty(t, res.InvoiceNumber)
	assert.Empty(t, res.Confidence)
	assert.Empty(t, res.InvoiceLink)
}
