// Package export writes the flattened row projections as CSV and reads
// the transaction projection back for the matching job. Column names
// follow the downstream spreadsheet, so every row carries every column,
// populated or empty.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/bankrec-dev/bankrec/internal/bai2"
	"github.com/bankrec-dev/bankrec/internal/match"
)

// TransactionHeader is the CSV header for the transaction projection.
const TransactionHeader = "Date,Bank ID,Account Number,Account Title,Entity,Tran Type,BAI Type Code,Currency,Credit Amount,Debit Amount,Bank Ref #,End to End ID,Customer Ref #,Description,Reason for Payment,Notes"

// ResultHeader is the transaction header plus the four match columns.
const ResultHeader = TransactionHeader + ",Matched Customer,Invoice #,Confidence,Invoice Link"

// BalanceHeader is the CSV header for the balance projection.
const BalanceHeader = "file_sender_id,file_receiver_id,file_creation_date,file_creation_time,resend_indicator,group_originator_id,group_receiver_id,group_status,as_of_date,as_of_time,as_of_date_modifier,currency_code,customer_account,balance_type_code,balance_amount,balance_item_count,balance_funds_type,account_control_total,account_record_count,group_control_total,group_record_count,file_control_total,file_record_count"

const (
	txnNumFields  = 16
	colDate       = 0
	colBankID     = 1
	colAcctNumber = 2
	colAcctTitle  = 3
	colEntity     = 4
	colTranType   = 5
	colTypeCode   = 6
	colCurrency   = 7
	colCredit     = 8
	colDebit      = 9
	colBankRef    = 10
	colEndToEnd   = 11
	colCustRef    = 12
	colDesc       = 13
	colReason     = 14
	colNotes      = 15

	resultNumFields = txnNumFields + 4
	colMatchedCust  = 16
	colInvoiceNum   = 17
	colConfidence   = 18
	colInvoiceLink  = 19
)

// WriteTransactionRows writes the transaction projection (including
// header).
func WriteTransactionRows(w io.Writer, rows []bai2.TransactionRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(TransactionHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		if err := cw.Write(MarshalTransactionRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// ReadTransactionRows reads a previously written transaction projection.
func ReadTransactionRows(r io.Reader) ([]bai2.TransactionRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = txnNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var rows []bai2.TransactionRow
	for i, rec := range records[1:] {
		row, err := UnmarshalTransactionRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteBalanceRows writes the balance projection (including header).
func WriteBalanceRows(w io.Writer, rows []bai2.BalanceRow) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(BalanceHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		if err := cw.Write(marshalBalanceRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// WriteResults writes the matched (cash application) projection
// (including header).
func WriteResults(w io.Writer, results []match.Result) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(ResultHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, res := range results {
		row := make([]string, resultNumFields)
		copy(row, MarshalTransactionRow(res.TransactionRow))
		row[colMatchedCust] = res.MatchedCustomer
		row[colInvoiceNum] = res.InvoiceNumber
		row[colConfidence] = res.Confidence
		row[colInvoiceLink] = res.InvoiceLink
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalTransactionRow converts a TransactionRow to a CSV row.
func MarshalTransactionRow(row bai2.TransactionRow) []string {
	rec := make([]string, txnNumFields)
	rec[colDate] = row.Date
	rec[colBankID] = row.BankID
	rec[colAcctNumber] = row.AccountNumber
	rec[colAcctTitle] = row.AccountTitle
	rec[colEntity] = row.Entity
	rec[colTranType] = row.TranType
	rec[colTypeCode] = row.TypeCode
	rec[colCurrency] = row.Currency
	rec[colCredit] = row.CreditAmount
	rec[colDebit] = row.DebitAmount
	rec[colBankRef] = row.BankRef
	rec[colEndToEnd] = row.EndToEndID
	rec[colCustRef] = row.CustomerRef
	rec[colDesc] = row.Description
	rec[colReason] = row.ReasonForPayment
	rec[colNotes] = row.Notes
	return rec
}

// UnmarshalTransactionRow converts a CSV row to a TransactionRow.
func UnmarshalTransactionRow(record []string) (bai2.TransactionRow, error) {
	if len(record) != txnNumFields {
		return bai2.TransactionRow{}, fmt.Errorf("expected %d fields, got %d", txnNumFields, len(record))
	}

	return bai2.TransactionRow{
		Date:             record[colDate],
		BankID:           record[colBankID],
		AccountNumber:    record[colAcctNumber],
		AccountTitle:     record[colAcctTitle],
		Entity:           record[colEntity],
		TranType:         record[colTranType],
		TypeCode:         record[colTypeCode],
		Currency:         record[colCurrency],
		CreditAmount:     record[colCredit],
		DebitAmount:      record[colDebit],
		BankRef:          record[colBankRef],
		EndToEndID:       record[colEndToEnd],
		CustomerRef:      record[colCustRef],
		Description:      record[colDesc],
		ReasonForPayment: record[colReason],
		Notes:            record[colNotes],
	}, nil
}

func marshalBalanceRow(row bai2.BalanceRow) []string {
	return []string{
		row.FileSenderID,
		row.FileReceiverID,
		row.FileCreationDate,
		row.FileCreationTime,
		row.ResendIndicator,
		row.GroupOriginatorID,
		row.GroupReceiverID,
		row.GroupStatus,
		row.AsOfDate,
		row.AsOfTime,
		row.AsOfDateModifier,
		row.CurrencyCode,
		row.CustomerAccount,
		row.BalanceTypeCode,
		row.BalanceAmount,
		row.BalanceItemCount,
		row.BalanceFundsType,
		row.AccountControlTotal,
		row.AccountRecordCount,
		row.GroupControlTotal,
		row.GroupRecordCount,
		row.FileControlTotal,
		row.FileRecordCount,
	}
}
