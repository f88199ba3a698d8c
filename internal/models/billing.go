package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Facility represents a row of the facilities table.
type Facility struct {
	FacilityID   string `json:"facilityID"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	AuditFields
}

// FacilityAccount represents a row of the facility_accounts table.
type FacilityAccount struct {
	FacilityAccountID string `json:"facilityAccountID"`
	FacilityID        string `json:"facilityID"`
	RevenueAccount    string `json:"revenueAccount"`
	AuditFields
}

// Product represents a row of the products table. RevenueAccount is joined
// from the product's facility account when reading.
type Product struct {
	ProductID         string `json:"productID"`
	FacilityID        string `json:"facilityID"`
	FacilityAccountID string `json:"facilityAccountID"`
	Name              string `json:"name"`
	RevenueAccount    string `json:"revenueAccount"`
	AuditFields
}

// FundingAccount represents a row of the funding_accounts table.
type FundingAccount struct {
	AccountID     string     `json:"accountID"`
	AccountNumber string     `json:"accountNumber"`
	Description   string     `json:"description"`
	Owner         string     `json:"owner"`
	ExpiresAt     *time.Time `json:"expiresAt"`
	SuspendedAt   *time.Time `json:"suspendedAt"`
	AuditFields
}

// BillableRecord represents a row of the billable_records table. FacilityID is
// joined from the record's product when reading.
type BillableRecord struct {
	RecordID    string          `json:"recordID"`
	ProductID   string          `json:"productID"`
	AccountID   string          `json:"accountID"`
	FacilityID  string          `json:"facilityID"`
	Requester   string          `json:"requester"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
	FulfilledAt time.Time       `json:"fulfilledAt"`
	State       string          `json:"state"`
	JournalID   *string         `json:"journalID"`
	AuditFields
}
