package models

import "github.com/shopspring/decimal"

// JournalOutcome mirrors the stored outcome column.
type JournalOutcome string

const (
	OutcomePending   JournalOutcome = "PENDING"
	OutcomeSucceeded JournalOutcome = "SUCCEEDED"
	OutcomeFailed    JournalOutcome = "FAILED"
)

// Journal represents a row of the journals table.
type Journal struct {
	JournalID  string         `json:"journalID"`
	FacilityID *string        `json:"facilityID"` // NULL for multi-facility journals
	Outcome    JournalOutcome `json:"outcome"`
	Reference  string         `json:"reference"`
	FileObject *string        `json:"fileObject"`
	AuditFields
}

// JournalRow represents a row of the journal_rows table.
type JournalRow struct {
	RowID       string          `json:"rowID"`
	JournalID   string          `json:"journalID"`
	RecordID    *string         `json:"recordID"` // NULL for aggregate recharge rows
	Account     string          `json:"account"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	AuditFields
}
