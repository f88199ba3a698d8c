package dto

import (
	"time"

	"github.com/corefac/facility_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BillableRecordResponse defines the data returned for a billable record.
type BillableRecordResponse struct {
	RecordID    string          `json:"recordID"`
	ProductID   string          `json:"productID"`
	AccountID   string          `json:"accountID"`
	FacilityID  string          `json:"facilityID"`
	Requester   string          `json:"requester"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
	FulfilledAt time.Time       `json:"fulfilledAt"`
	State       string          `json:"state"`
	JournalID   *string         `json:"journalID,omitempty"`
}

// ToBillableRecordResponse converts a domain.BillableRecord to BillableRecordResponse.
func ToBillableRecordResponse(b *domain.BillableRecord) BillableRecordResponse {
	return BillableRecordResponse{
		RecordID:    b.RecordID,
		ProductID:   b.ProductID,
		AccountID:   b.AccountID,
		FacilityID:  b.FacilityID,
		Requester:   b.Requester,
		Quantity:    b.Quantity,
		Total:       b.Total,
		FulfilledAt: b.FulfilledAt,
		State:       string(b.State),
		JournalID:   b.JournalID,
	}
}

// ToBillableRecordResponses converts a slice of domain.BillableRecord.
func ToBillableRecordResponses(records []domain.BillableRecord) []BillableRecordResponse {
	responses := make([]BillableRecordResponse, len(records))
	for i, b := range records {
		responses[i] = ToBillableRecordResponse(&b)
	}
	return responses
}
