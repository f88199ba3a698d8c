package services

import (
	"context"

	"github.com/corefac/facility_billing_app/internal/core/domain"
	"github.com/corefac/facility_billing_app/internal/dto"
	"github.com/shopspring/decimal"
)

// JournalSvcFacade defines the journal engine operations exposed to callers.
type JournalSvcFacade interface {
	// CreateJournal batches the selected billable records into a new pending
	// journal: one charge row per record, one aggregate recharge row per
	// product, journal_id stamped on every record, all atomically.
	CreateJournal(ctx context.Context, req dto.CreateJournalRequest, createdBy string) (*domain.Journal, error)

	// GetJournalByID retrieves a journal with its rows.
	GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListJournals retrieves a paginated list of journals for a facility scope.
	ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)

	// Status derives the reconciliation status of a journal.
	Status(ctx context.Context, journalID string) (domain.ReconciliationStatus, error)

	// IsReconciled reports whether nothing about the journal awaits further
	// reconciliation work.
	IsReconciled(ctx context.Context, journalID string) (bool, error)

	// Amount computes the gross billed total a journal carries: the sum of its
	// positive (charge) rows.
	Amount(ctx context.Context, journalID string) (decimal.Decimal, error)

	// CloseJournal records the downstream import outcome on a pending journal.
	CloseJournal(ctx context.Context, journalID string, succeeded bool, reference string, updatedBy string) (*domain.Journal, error)

	// ExportSpreadsheet renders the journal's rows to a spreadsheet and stores
	// it in blob storage. A journal with no rows is not exportable; that is the
	// false return, not an error.
	ExportSpreadsheet(ctx context.Context, journalID string, updatedBy string) (bool, error)

	// FacilityIDs resolves the distinct facilities a journal touches: its own
	// facility for a single-facility journal, or the facilities of its
	// attached records for a multi-facility one.
	FacilityIDs(ctx context.Context, journalID string) ([]string, error)

	// SpansFiscalYears reports whether a record selection crosses the
	// September 1st fiscal year boundary.
	SpansFiscalYears(ctx context.Context, recordIDs []string) (bool, error)

	// PendingFacilityIDs lists the facilities that currently have an open journal.
	PendingFacilityIDs(ctx context.Context) ([]string, error)
}

// BillableSvcFacade defines operations on billable records.
type BillableSvcFacade interface {
	// ListUnjournaled retrieves the completed, not-yet-journaled records of a
	// facility — the selection feed for journal creation.
	ListUnjournaled(ctx context.Context, facilityID string) ([]domain.BillableRecord, error)
}
