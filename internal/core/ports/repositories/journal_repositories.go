package repositories

import (
	"context"
	"time"

	"github.com/corefac/facility_billing_app/internal/core/domain"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a specific journal by its unique identifier.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListJournalsByFacilities retrieves a paginated list of journals for the
	// given facilities using token-based pagination. When includeMulti is set,
	// multi-facility journals touching any of the facilities are included.
	ListJournalsByFacilities(ctx context.Context, facilityIDs []string, includeMulti bool, limit int, nextToken *string) ([]domain.Journal, *string, error)

	// PendingFacilityIDs reports the facilities that currently have an open
	// journal. It is computed fresh on every call from committed state; caching
	// here would let two pending journals slip through for one facility.
	PendingFacilityIDs(ctx context.Context) (map[string]struct{}, error)

	// JournalFacilityIDs resolves the distinct facilities a journal touches:
	// its own facility for a single-facility journal, or the facilities of its
	// attached records for a multi-facility one.
	JournalFacilityIDs(ctx context.Context, journalID string) ([]string, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// CreateJournalWithRows persists the journal, its rows, and the journal_id
	// stamp on every selected billable record in one database transaction.
	// Either everything commits or nothing does.
	CreateJournalWithRows(ctx context.Context, journal domain.Journal, rows []domain.JournalRow, recordIDs []string) error

	// UpdateJournalOutcome moves a pending journal to SUCCEEDED or FAILED,
	// recording the downstream reference and the acting user.
	UpdateJournalOutcome(ctx context.Context, journalID string, outcome domain.JournalOutcome, reference string, updatedBy string, updatedAt time.Time) error

	// AttachFileObject stores the blob handle of the exported spreadsheet.
	AttachFileObject(ctx context.Context, journalID string, object string, updatedBy string, updatedAt time.Time) error
}

// JournalRowReader defines read operations for journal row data
type JournalRowReader interface {
	// FindRowsByJournalID retrieves all rows of a journal in insertion order.
	FindRowsByJournalID(ctx context.Context, journalID string) ([]domain.JournalRow, error)

	// CountUnreconciledRecords counts attached billable records whose state has
	// not yet reached reconciled.
	CountUnreconciledRecords(ctx context.Context, journalID string) (int64, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	JournalRowReader
}
