package bai2

import (
	"strconv"
	"strings"
	"time"
)

// BalanceRow is the fully denormalized export shape for one account
// balance entry: every ancestor field rides along on every row.
type BalanceRow struct {
	FileSenderID        string
	FileReceiverID      string
	FileCreationDate    string
	FileCreationTime    string
	ResendIndicator     string
	GroupOriginatorID   string
	GroupReceiverID     string
	GroupStatus         string
	AsOfDate            string
	AsOfTime            string
	AsOfDateModifier    string
	CurrencyCode        string
	CustomerAccount     string
	BalanceTypeCode     string
	BalanceAmount       string
	BalanceItemCount    string
	BalanceFundsType    string
	AccountControlTotal string
	AccountRecordCount  string
	GroupControlTotal   string
	GroupRecordCount    string
	FileControlTotal    string
	FileRecordCount     string
}

// TransactionRow is the compact export shape for one transaction,
// carrying its inherited context plus the derived display fields.
// CreditAmount and DebitAmount are mutually exclusive.
type TransactionRow struct {
	Date             string
	BankID           string
	AccountNumber    string
	AccountTitle     string
	Entity           string
	TranType         string
	TypeCode         string
	Currency         string
	CreditAmount     string
	DebitAmount      string
	BankRef          string
	EndToEndID       string
	CustomerRef      string
	Description      string
	ReasonForPayment string
	Notes            string
}

// RowOptions carries the per-run constants stamped onto every
// transaction row.
type RowOptions struct {
	AccountTitle string
	Entity       string
}

// BalanceRows flattens every balance entry in file order.
func (f *FileRecord) BalanceRows() []BalanceRow {
	var rows []BalanceRow
	for _, group := range f.Groups {
		for _, account := range group.Accounts {
			for _, balance := range account.Balances {
				currency := account.CurrencyCode
				if currency == "" {
					currency = group.CurrencyCode
				}
				rows = append(rows, BalanceRow{
					FileSenderID:        f.SenderID,
					FileReceiverID:      f.ReceiverID,
					FileCreationDate:    f.CreationDate,
					FileCreationTime:    f.CreationTime,
					ResendIndicator:     f.ResendIndicator,
					GroupOriginatorID:   group.OriginatorID,
					GroupReceiverID:     group.UltimateReceiverID,
					GroupStatus:         group.Status,
					AsOfDate:            group.AsOfDate,
					AsOfTime:            group.AsOfTime,
					AsOfDateModifier:    group.AsOfDateModifier,
					CurrencyCode:        currency,
					CustomerAccount:     account.CustomerAccount,
					BalanceTypeCode:     balance.TypeCode,
					BalanceAmount:       balance.Amount,
					BalanceItemCount:    balance.ItemCount,
					BalanceFundsType:    balance.FundsType,
					AccountControlTotal: account.ControlTotal,
					AccountRecordCount:  account.RecordCount,
					GroupControlTotal:   group.ControlTotal,
					GroupRecordCount:    group.RecordCount,
					FileControlTotal:    f.ControlTotal,
					FileRecordCount:     f.RecordCount,
				})
			}
		}
	}
	return rows
}

// TransactionRows flattens every transaction in file order into the
// export shape, classifying credits and rendering amounts and dates.
func (f *FileRecord) TransactionRows(opts RowOptions) []TransactionRow {
	if opts.AccountTitle == "" {
		opts.AccountTitle = "AR Account"
	}

	var rows []TransactionRow
	for _, group := range f.Groups {
		for _, account := range group.Accounts {
			for _, txn := range account.Transactions {
				amount := FormatAmount(txn.Amount)
				row := TransactionRow{
					Date:          FormatDate(txn.AsOfDate),
					BankID:        txn.BankID,
					AccountNumber: txn.AccountID,
					AccountTitle:  opts.AccountTitle,
					Entity:        opts.Entity,
					TranType:      TypeLabel(txn.TypeCode),
					TypeCode:      txn.TypeCode,
					Currency:      txn.CurrencyCode,
					BankRef:       txn.BankRef,
					CustomerRef:   txn.CustomerRef,
					Description:   txn.Text,
				}
				if IsCredit(txn.TypeCode) {
					row.CreditAmount = amount
				} else {
					row.DebitAmount = amount
				}
				rows = append(rows, row)
			}
		}
	}
	return rows
}

// IsCredit reports whether a BAI2 type code is a credit (money in).
// Codes 100-399 are credits; 400-699 and everything unparseable count
// as debits here.
func IsCredit(typeCode string) bool {
	n, err := strconv.Atoi(typeCode)
	return err == nil && n >= 100 && n <= 399
}

// typeLabels maps the type codes seen in practice to display labels.
var typeLabels = map[string]string{
	"169": "ACH CREDIT",
	"195": "WIRE TRANSFER CREDIT",
	"214": "FX Wire Transfer Credit",
	"174": "Miscellaneous ACH Credit",
	"301": "MOBILE DEPOSIT",
	"469": "ACH DEBIT",
	"495": "WIRE TRANSFER DEBIT",
	"575": "ZERO BAL TRF DEBIT",
	"496": "FX Wire Transfer Debit",
}

// TypeLabel returns the display label for a type code, falling back to
// "Credit (<code>)" or "Debit (<code>)".
func TypeLabel(typeCode string) string {
	if label, ok := typeLabels[typeCode]; ok {
		return label
	}
	if IsCredit(typeCode) {
		return "Credit (" + typeCode + ")"
	}
	return "Debit (" + typeCode + ")"
}

// FormatAmount renders a minor-unit integer string ("150000") as a
// grouped two-decimal amount ("1,500.00"). Unparseable input passes
// through unchanged.
func FormatAmount(raw string) string {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return raw
	}
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	units := strconv.FormatInt(n/100, 10)
	cents := n % 100
	return sign + groupThousands(units) + "." + twoDigits(cents)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func twoDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

// FormatDate renders a YYMMDD or YYYYMMDD date as M/D/YYYY with no
// leading zeros. Anything else passes through unchanged.
func FormatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	var layout string
	switch len(raw) {
	case 6:
		layout = "060102"
	case 8:
		layout = "20060102"
	default:
		return raw
	}
	t, err := time.Parse(layout, raw)
	if err != nil {
		return raw
	}
	return strconv.Itoa(int(t.Month())) + "/" + strconv.Itoa(t.Day()) + "/" + strconv.Itoa(t.Year())
}
