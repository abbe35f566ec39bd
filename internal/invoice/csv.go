package invoice

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// Header is the CSV header for an exported invoice list.
const Header = "id,invoice_number,customer,amount_remaining,currency,due_date"

const (
	numFields   = 6
	colID       = 0
	colNumber   = 1
	colCustomer = 2
	colAmount   = 3
	colCurrency = 4
	colDueDate  = 5
)

// ReadInvoices reads an invoice list CSV. URLs are built from
// urlTemplate (see ExpandURL).
func ReadInvoices(r io.Reader, urlTemplate string) ([]Invoice, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading invoices CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var invoices []Invoice
	for i, rec := range records[1:] {
		inv, err := UnmarshalInvoice(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		inv.URL = ExpandURL(urlTemplate, inv.ID)
		invoices = append(invoices, inv)
	}
	return invoices, nil
}

// WriteInvoices writes an invoice list CSV (including header).
func WriteInvoices(w io.Writer, invoices []Invoice) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"id", "invoice_number", "customer", "amount_remaining", "currency", "due_date"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, inv := range invoices {
		if err := cw.Write(MarshalInvoice(inv)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalInvoice converts an Invoice to a CSV row.
func MarshalInvoice(inv Invoice) []string {
	row := make([]string, numFields)
	row[colID] = inv.ID
	row[colNumber] = inv.Number
	row[colCustomer] = inv.Customer
	row[colAmount] = inv.AmountRemaining.StringFixed(2)
	row[colCurrency] = inv.Currency
	row[colDueDate] = inv.DueDate
	return row
}

// UnmarshalInvoice converts a CSV row to an Invoice.
func UnmarshalInvoice(record []string) (Invoice, error) {
	if len(record) != numFields {
		return Invoice{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return Invoice{}, fmt.Errorf("parsing amount_remaining %q: %w", record[colAmount], err)
	}

	return Invoice{
		ID:              record[colID],
		Number:          record[colNumber],
		Customer:        record[colCustomer],
		AmountRemaining: amount,
		Currency:        record[colCurrency],
		DueDate:         record[colDueDate],
	}, nil
}
