// Package bai2 decodes BAI2 cash-position interchange files into a typed
// record tree and flattens the tree into export rows.
package bai2

// BAI2 record type tags. The tag is always the first field of a line.
const (
	tagFileHeader     = "01"
	tagGroupHeader    = "02"
	tagAccountHeader  = "03"
	tagTransaction    = "16"
	tagAccountTrailer = "49"
	tagContinuation   = "88"
	tagGroupTrailer   = "98"
	tagFileTrailer    = "99"
)

// FileRecord is the root of a decoded BAI2 file (01/99 records).
type FileRecord struct {
	SenderID         string
	ReceiverID       string
	CreationDate     string
	CreationTime     string
	ResendIndicator  string
	RecordSize       string
	BlockingFactor   string
	VersionNumber    string
	Groups           []*GroupRecord
	// Orphans collects transaction records that appeared without an open
	// account. They never reach the row projections.
	Orphans []*TransactionRecord
	// Trailer fields, empty until a 99 record is seen.
	ControlTotal string
	RecordCount  string
}

// GroupRecord is one group of accounts (02/98 records).
type GroupRecord struct {
	UltimateReceiverID string
	OriginatorID       string
	Status             string
	AsOfDate           string
	AsOfTime           string
	CurrencyCode       string
	AsOfDateModifier   string
	Accounts           []*AccountRecord
	// Trailer fields, empty until a 98 record is seen.
	ControlTotal string
	RecordCount  string
}

// AccountRecord is one customer account (03/49 records).
type AccountRecord struct {
	CustomerAccount string
	CurrencyCode    string
	Balances        []BalanceEntry
	Transactions    []*TransactionRecord
	// Trailer fields, empty until a 49 record is seen.
	ControlTotal string
	RecordCount  string
}

// BalanceEntry is one type-code/amount/item-count/funds-type quadruple
// from an account header. An 03 record may carry any number of these.
type BalanceEntry struct {
	TypeCode  string
	Amount    string
	ItemCount string
	FundsType string
}

// TransactionRecord is one transaction detail (16 record). The amount is
// kept as reported: an integer string of minor currency units.
type TransactionRecord struct {
	TypeCode    string
	Amount      string
	FundsType   string
	BankRef     string
	CustomerRef string
	Text        string

	// Ancestor context copied at parse time so row exports never walk
	// back up the tree. Empty when the record arrived orphaned.
	AccountID        string
	CurrencyCode     string
	AsOfDate         string
	AsOfTime         string
	AsOfDateModifier string
	BankID           string
	CustomerID       string
	FileDate         string
	FileTime         string
}
