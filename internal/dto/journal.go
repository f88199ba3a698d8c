package dto

import (
	"time"

	"github.com/corefac/facility_billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateJournalRequest selects the billable records a new journal batches.
// A nil FacilityID creates a multi-facility journal.
type CreateJournalRequest struct {
	FacilityID *string  `json:"facilityID"`
	RecordIDs  []string `json:"recordIDs"`
	CreatedBy  string   `json:"createdBy" binding:"required"`
}

// CloseJournalRequest records the downstream import outcome on a journal.
type CloseJournalRequest struct {
	Succeeded *bool  `json:"succeeded" binding:"required"`
	Reference string `json:"reference"`
	UpdatedBy string `json:"updatedBy"`
}

// ExportJournalRequest names the user attaching the exported file.
type ExportJournalRequest struct {
	UpdatedBy string `json:"updatedBy" binding:"required"`
}

// SpanCheckRequest asks whether a record selection crosses a fiscal year.
type SpanCheckRequest struct {
	RecordIDs []string `json:"recordIDs" binding:"required,min=1"`
}

// ListJournalsParams holds parameters for listing journals.
type ListJournalsParams struct {
	FacilityIDs  []string
	IncludeMulti bool
	IncludeRows  bool
	Limit        int
	NextToken    *string
}

// JournalRowResponse defines the data returned for a journal row.
type JournalRowResponse struct {
	RowID       string          `json:"rowID"`
	RecordID    *string         `json:"recordID,omitempty"`
	Account     string          `json:"account"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Charge      bool            `json:"charge"`
}

// JournalResponse defines the data returned for a journal.
type JournalResponse struct {
	JournalID  string                `json:"journalID"`
	FacilityID *string               `json:"facilityID,omitempty"`
	Outcome    domain.JournalOutcome `json:"outcome"`
	Reference  string                `json:"reference,omitempty"`
	FileObject *string               `json:"fileObject,omitempty"`
	CreatedAt  time.Time             `json:"createdAt"`
	CreatedBy  string                `json:"createdBy"`
	Rows       []JournalRowResponse  `json:"rows,omitempty"`
}

// ListJournalsResponse wraps a page of journals plus the next page token.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// JournalStatusResponse combines the derived status views of a journal.
type JournalStatusResponse struct {
	JournalID   string                      `json:"journalID"`
	Status      domain.ReconciliationStatus `json:"status"`
	Reconciled  bool                        `json:"reconciled"`
	Amount      decimal.Decimal             `json:"amount"`
	FacilityIDs []string                    `json:"facilityIDs"`
}

// SpanCheckResponse reports the fiscal-year span check result.
type SpanCheckResponse struct {
	SpansFiscalYears bool `json:"spansFiscalYears"`
}

// ToJournalRowResponse converts a domain.JournalRow to JournalRowResponse.
func ToJournalRowResponse(r *domain.JournalRow) JournalRowResponse {
	return JournalRowResponse{
		RowID:       r.RowID,
		RecordID:    r.RecordID,
		Account:     r.Account,
		Amount:      r.Amount,
		Description: r.Description,
		Charge:      r.IsCharge(),
	}
}

// ToJournalRowResponses converts a slice of domain.JournalRow to []JournalRowResponse.
func ToJournalRowResponses(rows []domain.JournalRow) []JournalRowResponse {
	responses := make([]JournalRowResponse, len(rows))
	for i, r := range rows {
		responses[i] = ToJournalRowResponse(&r)
	}
	return responses
}

// ToJournalResponse converts a domain.Journal to JournalResponse.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	resp := JournalResponse{
		JournalID:  j.JournalID,
		FacilityID: j.FacilityID,
		Outcome:    j.Outcome,
		Reference:  j.Reference,
		FileObject: j.FileObject,
		CreatedAt:  j.CreatedAt,
		CreatedBy:  j.CreatedBy,
	}
	if len(j.Rows) > 0 {
		resp.Rows = ToJournalRowResponses(j.Rows)
	}
	return resp
}
