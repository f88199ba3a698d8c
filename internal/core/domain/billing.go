package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillableState is the lifecycle state of a billable record. Only the states
// the journal engine cares about are enumerated; records arrive here already
// fulfilled.
type BillableState string

const (
	BillableComplete   BillableState = "complete"
	BillableReconciled BillableState = "reconciled"
)

// Facility groups products and, transitively, billable records and journals.
type Facility struct {
	FacilityID   string `json:"facilityID"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	AuditFields
}

// FacilityAccount holds the revenue account recharge rows credit.
type FacilityAccount struct {
	FacilityAccountID string `json:"facilityAccountID"`
	FacilityID        string `json:"facilityID"`
	RevenueAccount    string `json:"revenueAccount"`
	AuditFields
}

// Product is a billable offering of a facility.
// RevenueAccount is joined in from the product's facility account.
type Product struct {
	ProductID         string `json:"productID"`
	FacilityID        string `json:"facilityID"`
	FacilityAccountID string `json:"facilityAccountID"`
	Name              string `json:"name"`
	RevenueAccount    string `json:"revenueAccount"`
	AuditFields
}

// FundingAccount is the payment source a billable record charges against.
type FundingAccount struct {
	AccountID     string     `json:"accountID"`
	AccountNumber string     `json:"accountNumber"`
	Description   string     `json:"description"`
	Owner         string     `json:"owner"`
	ExpiresAt     *time.Time `json:"expiresAt"`
	SuspendedAt   *time.Time `json:"suspendedAt"`
	AuditFields
}

// BillableRecord is a fulfilled unit of work awaiting journaling.
// FacilityID is joined in from the record's product.
type BillableRecord struct {
	RecordID    string          `json:"recordID"`
	ProductID   string          `json:"productID"`
	AccountID   string          `json:"accountID"`
	FacilityID  string          `json:"facilityID"`
	Requester   string          `json:"requester"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
	FulfilledAt time.Time       `json:"fulfilledAt"`
	State       BillableState   `json:"state"`
	JournalID   *string         `json:"journalID"` // set exactly once, never reassigned
	AuditFields
}

// Journaled reports whether the record has already been picked up by a journal.
func (b BillableRecord) Journaled() bool {
	return b.JournalID != nil
}
