package bai2

import (
	"errors"
	"strings"
)

// Parse failure sentinels. Anything short of these is handled by
// defaulting: short records yield empty fields, unknown tags are
// skipped, truncated files simply leave trailer fields empty.
var (
	// ErrEmptyInput means the content held no records at all.
	ErrEmptyInput = errors.New("bai2: empty input")
	// ErrNoFileHeader means no 01 record was found.
	ErrNoFileHeader = errors.New("bai2: no file header record")
)

// Parse decodes full BAI2 file content into a FileRecord tree.
//
// It fails only on empty input or input without a file header record.
// Individual malformed lines never abort the parse.
func Parse(content string) (*FileRecord, error) {
	lines := joinContinuations(strings.Split(content, "\n"))
	if len(lines) == 0 {
		return nil, ErrEmptyInput
	}

	file := &FileRecord{}
	sawHeader := false
	var currentGroup *GroupRecord
	var currentAccount *AccountRecord

	for _, line := range lines {
		fields := splitFields(line)

		switch fields[0] {
		case tagFileHeader:
			sawHeader = true
			file.SenderID = fieldAt(fields, 1)
			file.ReceiverID = fieldAt(fields, 2)
			file.CreationDate = fieldAt(fields, 3)
			file.CreationTime = fieldAt(fields, 4)
			file.ResendIndicator = fieldAt(fields, 5)
			file.RecordSize = fieldAt(fields, 6)
			file.BlockingFactor = fieldAt(fields, 7)
			file.VersionNumber = fieldAt(fields, 8)

		case tagGroupHeader:
			currentGroup = &GroupRecord{
				UltimateReceiverID: fieldAt(fields, 1),
				OriginatorID:       fieldAt(fields, 2),
				Status:             fieldAt(fields, 3),
				AsOfDate:           fieldAt(fields, 4),
				AsOfTime:           fieldAt(fields, 5),
				CurrencyCode:       fieldAt(fields, 6),
				AsOfDateModifier:   fieldAt(fields, 7),
			}
			file.Groups = append(file.Groups, currentGroup)

		case tagAccountHeader:
			currentAccount = &AccountRecord{
				CustomerAccount: fieldAt(fields, 1),
				CurrencyCode:    fieldAt(fields, 2),
			}
			// The header repeats type-code/amount/item-count/funds-type
			// quadruples until it runs out of fields.
			for i := 3; i < len(fields); i += 4 {
				entry := BalanceEntry{
					TypeCode:  fieldAt(fields, i),
					Amount:    fieldAt(fields, i+1),
					ItemCount: fieldAt(fields, i+2),
					FundsType: fieldAt(fields, i+3),
				}
				if entry.TypeCode != "" {
					currentAccount.Balances = append(currentAccount.Balances, entry)
				}
			}
			if currentGroup != nil {
				currentGroup.Accounts = append(currentGroup.Accounts, currentAccount)
			}

		case tagTransaction:
			txn := &TransactionRecord{
				TypeCode:    fieldAt(fields, 1),
				Amount:      fieldAt(fields, 2),
				FundsType:   fieldAt(fields, 3),
				BankRef:     fieldAt(fields, 4),
				CustomerRef: fieldAt(fields, 5),
			}
			// Memo text may itself contain commas, so it is everything
			// after the fixed positions joined back together.
			if len(fields) > 6 {
				txn.Text = strings.Join(fields[6:], ",")
			}
			if currentAccount != nil && currentGroup != nil {
				txn.AccountID = currentAccount.CustomerAccount
				txn.CurrencyCode = currentAccount.CurrencyCode
				if txn.CurrencyCode == "" {
					txn.CurrencyCode = currentGroup.CurrencyCode
				}
				txn.AsOfDate = currentGroup.AsOfDate
				txn.AsOfTime = currentGroup.AsOfTime
				txn.AsOfDateModifier = currentGroup.AsOfDateModifier
				txn.BankID = currentGroup.OriginatorID
				txn.CustomerID = currentGroup.UltimateReceiverID
				txn.FileDate = file.CreationDate
				txn.FileTime = file.CreationTime
			}
			if currentAccount != nil {
				currentAccount.Transactions = append(currentAccount.Transactions, txn)
			} else {
				file.Orphans = append(file.Orphans, txn)
			}

		case tagAccountTrailer:
			if currentAccount != nil {
				currentAccount.ControlTotal = fieldAt(fields, 1)
				currentAccount.RecordCount = fieldAt(fields, 2)
			}

		case tagGroupTrailer:
			if currentGroup != nil {
				currentGroup.ControlTotal = fieldAt(fields, 1)
				currentGroup.RecordCount = fieldAt(fields, 2)
			}
			currentAccount = nil

		case tagFileTrailer:
			file.ControlTotal = fieldAt(fields, 1)
			file.RecordCount = fieldAt(fields, 2)
			currentGroup = nil
		}
	}

	if !sawHeader {
		return nil, ErrNoFileHeader
	}
	return file, nil
}

// joinContinuations merges 88 continuation records into their preceding
// logical record, dropping blank lines. A continuation's payload is
// appended to the previous joined line with that line's trailing record
// terminator stripped, so a run of continuations folds left to right.
func joinContinuations(lines []string) []string {
	var merged []string
	for _, line := range lines {
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}
		tag, _, _ := strings.Cut(line, ",")
		if tag == tagContinuation && len(merged) > 0 {
			payload := line[2:]
			if strings.HasPrefix(line, tagContinuation+",") {
				payload = line[3:]
			}
			merged[len(merged)-1] = strings.TrimRight(merged[len(merged)-1], "/") + payload
			continue
		}
		merged = append(merged, line)
	}
	return merged
}

// splitFields strips the trailing record terminator and any trailing
// field separators, then splits the record into its fields.
func splitFields(line string) []string {
	line = strings.TrimRight(line, "/")
	line = strings.TrimRight(line, ",")
	return strings.Split(line, ",")
}

// fieldAt returns fields[i], or "" when the record is too short. Every
// field position is optional.
func fieldAt(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}
