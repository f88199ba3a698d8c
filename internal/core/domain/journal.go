package domain

import "github.com/shopspring/decimal"

// JournalOutcome is the tri-state result reported back by the downstream
// general-ledger import. A journal stays PENDING until the import either
// accepts (SUCCEEDED) or rejects (FAILED) the exported file.
type JournalOutcome string

const (
	OutcomePending   JournalOutcome = "PENDING"
	OutcomeSucceeded JournalOutcome = "SUCCEEDED"
	OutcomeFailed    JournalOutcome = "FAILED"
)

// ReconciliationStatus is derived from the journal outcome plus the states of
// its attached billable records. It is never stored.
type ReconciliationStatus string

const (
	StatusPending                ReconciliationStatus = "Pending"
	StatusFailed                 ReconciliationStatus = "Failed"
	StatusSuccessfulReconciled   ReconciliationStatus = "SuccessfulReconciled"
	StatusSuccessfulUnreconciled ReconciliationStatus = "SuccessfulUnreconciled"
)

// Journal represents one billing run: a batch of double-entry rows created
// from billable records, awaiting the downstream import result.
type Journal struct {
	JournalID  string         `json:"journalID"`
	FacilityID *string        `json:"facilityID"` // nil means a multi-facility journal
	Outcome    JournalOutcome `json:"outcome"`
	Reference  string         `json:"reference"` // required once the journal leaves PENDING
	FileObject *string        `json:"fileObject"`
	AuditFields
	// Rows are loaded separately.
	Rows []JournalRow `json:"rows,omitempty"`
}

// Open reports whether the journal is still awaiting its import outcome.
func (j Journal) Open() bool {
	return j.Outcome == OutcomePending
}

// JournalRow is a single ledger line. A row that references a billable record
// is a charge against that record's funding account; a row without one is the
// aggregate recharge crediting a product's revenue account.
type JournalRow struct {
	RowID       string          `json:"rowID"`
	JournalID   string          `json:"journalID"`
	RecordID    *string         `json:"recordID"`
	Account     string          `json:"account"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	AuditFields
}

// IsCharge reports whether the row bills a specific record rather than
// offsetting a product group.
func (r JournalRow) IsCharge() bool {
	return r.RecordID != nil
}
