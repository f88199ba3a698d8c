package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/corefac/facility_billing_app/internal/apperrors"
	"github.com/corefac/facility_billing_app/internal/core/domain"
	portsrepo "github.com/corefac/facility_billing_app/internal/core/ports/repositories"
	"github.com/corefac/facility_billing_app/internal/models"
	"github.com/corefac/facility_billing_app/internal/utils/mapping"
	"github.com/corefac/facility_billing_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pendingFacilityConstraint is the partial unique index that anchors the
// one-pending-journal-per-facility invariant at the storage layer.
const pendingFacilityConstraint = "ux_journals_pending_facility"

type PgxJournalRepository struct {
	BaseRepository
}

// NewPgxJournalRepository creates a new repository for journal and row data.
func NewPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// CreateJournalWithRows persists a journal, its rows, and the journal_id stamp
// on the selected billable records within one DB transaction. The stamp update
// is guarded by journal_id IS NULL so a concurrent journal cannot steal a
// record; the partial unique index guards pending-journal exclusivity. Any
// failure rolls back the whole batch.
func (r *PgxJournalRepository) CreateJournalWithRows(ctx context.Context, journal domain.Journal, rows []domain.JournalRow, recordIDs []string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored once the transaction commits.

	modelJournal := mapping.ToModelJournal(journal)
	journalQuery := `
		INSERT INTO journals (
			journal_id, facility_id, outcome, reference, file_object,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, journalQuery,
		modelJournal.JournalID,
		modelJournal.FacilityID,
		modelJournal.Outcome,
		modelJournal.Reference,
		modelJournal.FileObject,
		modelJournal.CreatedAt,
		modelJournal.CreatedBy,
		modelJournal.LastUpdatedAt,
		modelJournal.LastUpdatedBy,
	)
	if err != nil {
		if translated := translatePendingConflict(err, journal.FacilityID); translated != nil {
			return translated
		}
		return apperrors.NewAppError(500, "failed to insert journal "+modelJournal.JournalID, err)
	}

	batch := &pgx.Batch{}
	rowQuery := `
		INSERT INTO journal_rows (row_id, journal_id, record_id, account, amount, description, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, row := range rows {
		modelRow := mapping.ToModelJournalRow(row)
		batch.Queue(rowQuery,
			modelRow.RowID,
			modelRow.JournalID,
			modelRow.RecordID,
			modelRow.Account,
			modelRow.Amount,
			modelRow.Description,
			modelRow.CreatedAt,
			modelRow.CreatedBy,
			modelRow.LastUpdatedAt,
			modelRow.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute row batch for journal "+modelJournal.JournalID, err)
	}

	if len(recordIDs) > 0 {
		stampQuery := `
			UPDATE billable_records
			SET journal_id = $1, last_updated_at = $2, last_updated_by = $3
			WHERE record_id = ANY($4) AND journal_id IS NULL;
		`
		cmdTag, err := tx.Exec(ctx, stampQuery, modelJournal.JournalID, modelJournal.LastUpdatedAt, modelJournal.CreatedBy, recordIDs)
		if err != nil {
			return apperrors.NewAppError(500, "failed to stamp billable records for journal "+modelJournal.JournalID, err)
		}
		if cmdTag.RowsAffected() != int64(len(recordIDs)) {
			// A concurrent journal got to one of the records first. Name it.
			return r.stampConflictError(ctx, tx, recordIDs)
		}
	}

	return r.Commit(ctx, tx)
}

// stampConflictError locates a record from the selection that already carries
// a journal_id, for the AlreadyJournaledError raised on a stamp shortfall.
func (r *PgxJournalRepository) stampConflictError(ctx context.Context, tx pgx.Tx, recordIDs []string) error {
	query := `
		SELECT record_id, journal_id FROM billable_records
		WHERE record_id = ANY($1) AND journal_id IS NOT NULL
		LIMIT 1;
	`
	var recordID, journalID string
	err := tx.QueryRow(ctx, query, recordIDs).Scan(&recordID, &journalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Shortfall without a stamped record means an unknown ID slipped in.
			return apperrors.NewNotFoundError("billable record selection includes unknown records")
		}
		return apperrors.NewAppError(500, "failed to identify journaled record", err)
	}
	return &apperrors.AlreadyJournaledError{RecordID: recordID, JournalID: journalID}
}

// translatePendingConflict converts a unique violation of the pending-journal
// index into the error shape callers expect, regardless of which layer caught
// the conflict first.
func translatePendingConflict(err error, facilityID *string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == pendingFacilityConstraint {
		facility := ""
		if facilityID != nil {
			facility = *facilityID
		}
		return &apperrors.FacilityHasPendingJournalError{FacilityID: facility}
	}
	return nil
}

// FindJournalByID retrieves a journal by its ID.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	query := `
		SELECT journal_id, facility_id, outcome, reference, file_object,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM journals
		WHERE journal_id = $1;
	`
	var m models.Journal
	err := r.Pool.QueryRow(ctx, query, journalID).Scan(
		&m.JournalID,
		&m.FacilityID,
		&m.Outcome,
		&m.Reference,
		&m.FileObject,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal by ID "+journalID, err)
	}

	domainJournal := mapping.ToDomainJournal(m)
	return &domainJournal, nil
}

// FindRowsByJournalID retrieves all rows of a journal in insertion order.
func (r *PgxJournalRepository) FindRowsByJournalID(ctx context.Context, journalID string) ([]domain.JournalRow, error) {
	query := `
		SELECT row_id, journal_id, record_id, account, amount, description, created_at, created_by, last_updated_at, last_updated_by
		FROM journal_rows
		WHERE journal_id = $1
		ORDER BY created_at, row_id;
	`
	rows, err := r.Pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query rows for journal "+journalID, err)
	}
	defer rows.Close()

	journalRows := []models.JournalRow{}
	for rows.Next() {
		var m models.JournalRow
		err := rows.Scan(
			&m.RowID,
			&m.JournalID,
			&m.RecordID,
			&m.Account,
			&m.Amount,
			&m.Description,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal row for journal "+journalID, err)
		}
		journalRows = append(journalRows, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal rows for journal "+journalID, err)
	}

	return mapping.ToDomainJournalRowSlice(journalRows), nil
}

// CountUnreconciledRecords counts attached billable records not yet reconciled.
func (r *PgxJournalRepository) CountUnreconciledRecords(ctx context.Context, journalID string) (int64, error) {
	query := `
		SELECT COUNT(*) FROM billable_records
		WHERE journal_id = $1 AND state <> 'reconciled';
	`
	var count int64
	if err := r.Pool.QueryRow(ctx, query, journalID).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count unreconciled records for journal "+journalID, err)
	}
	return count, nil
}

// PendingFacilityIDs scans committed state for facilities with an open
// journal. No caching: a stale answer here would let a second pending journal
// through for the same facility.
func (r *PgxJournalRepository) PendingFacilityIDs(ctx context.Context) (map[string]struct{}, error) {
	query := `
		SELECT facility_id FROM journals
		WHERE outcome = 'PENDING' AND facility_id IS NOT NULL
		UNION
		SELECT p.facility_id
		FROM journals j
		JOIN journal_rows r ON r.journal_id = j.journal_id
		JOIN billable_records b ON b.record_id = r.record_id
		JOIN products p ON p.product_id = b.product_id
		WHERE j.outcome = 'PENDING';
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query pending facility IDs", err)
	}
	defer rows.Close()

	facilityIDs := make(map[string]struct{})
	for rows.Next() {
		var facilityID string
		if err := rows.Scan(&facilityID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan pending facility ID", err)
		}
		facilityIDs[facilityID] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating pending facility IDs", err)
	}
	return facilityIDs, nil
}

// JournalFacilityIDs resolves the distinct facilities a journal touches.
func (r *PgxJournalRepository) JournalFacilityIDs(ctx context.Context, journalID string) ([]string, error) {
	journal, err := r.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if journal.FacilityID != nil {
		return []string{*journal.FacilityID}, nil
	}

	query := `
		SELECT DISTINCT p.facility_id
		FROM journal_rows r
		JOIN billable_records b ON b.record_id = r.record_id
		JOIN products p ON p.product_id = b.product_id
		WHERE r.journal_id = $1
		ORDER BY p.facility_id;
	`
	rows, err := r.Pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query facilities for journal "+journalID, err)
	}
	defer rows.Close()

	facilityIDs := []string{}
	for rows.Next() {
		var facilityID string
		if err := rows.Scan(&facilityID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan facility ID for journal "+journalID, err)
		}
		facilityIDs = append(facilityIDs, facilityID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating facility IDs for journal "+journalID, err)
	}
	return facilityIDs, nil
}

// ListJournalsByFacilities retrieves a paginated list of journals for the
// given facilities using token-based pagination. Multi-facility journals are
// matched through their records when includeMulti is set.
func (r *PgxJournalRepository) ListJournalsByFacilities(ctx context.Context, facilityIDs []string, includeMulti bool, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT journal_id, facility_id, outcome, reference, file_object,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM journals
	`
	filterClause := `WHERE (facility_id = ANY($1)`
	if includeMulti {
		filterClause += ` OR (facility_id IS NULL AND EXISTS (
			SELECT 1 FROM journal_rows r
			JOIN billable_records b ON b.record_id = r.record_id
			JOIN products p ON p.product_id = b.product_id
			WHERE r.journal_id = journals.journal_id AND p.facility_id = ANY($1)
		))`
	}
	filterClause += `)`

	// Ordering must be stable for the cursor to make sense.
	orderByClause := `ORDER BY created_at DESC, journal_id DESC`

	args := []interface{}{facilityIDs}
	var query string
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastJournalID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause := `AND (created_at, journal_id) < ($2, $3)`
		args = append(args, lastCreatedAt, lastJournalID)
		query = baseQuery + " " + filterClause + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	} else {
		query = baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	}
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journals", err)
	}
	defer rows.Close()

	modelJournals := make([]models.Journal, 0, fetchLimit)
	for rows.Next() {
		var m models.Journal
		scanErr := rows.Scan(
			&m.JournalID,
			&m.FacilityID,
			&m.Outcome,
			&m.Reference,
			&m.FileObject,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal row", scanErr)
		}
		modelJournals = append(modelJournals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal rows", err)
	}

	var nextTokenVal *string
	results := modelJournals
	if len(modelJournals) > limit {
		lastJournal := modelJournals[limit-1]
		newToken := pagination.EncodeToken(lastJournal.CreatedAt, lastJournal.JournalID)
		nextTokenVal = &newToken
		results = modelJournals[:limit]
	}

	domainJournals := make([]domain.Journal, len(results))
	for i, m := range results {
		domainJournals[i] = mapping.ToDomainJournal(m)
	}
	return domainJournals, nextTokenVal, nil
}

// UpdateJournalOutcome moves a pending journal to its final outcome. The
// WHERE guard keeps a closed journal from being flipped again.
func (r *PgxJournalRepository) UpdateJournalOutcome(ctx context.Context, journalID string, outcome domain.JournalOutcome, reference string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE journals
		SET outcome = $2,
		    reference = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE journal_id = $1 AND outcome = 'PENDING';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, journalID, models.JournalOutcome(outcome), reference, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update outcome for journal "+journalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Either the journal is unknown or it already left PENDING.
		if _, findErr := r.FindJournalByID(ctx, journalID); findErr != nil {
			return findErr
		}
		return apperrors.ErrConflict
	}
	return nil
}

// AttachFileObject stores the blob handle of the exported spreadsheet.
func (r *PgxJournalRepository) AttachFileObject(ctx context.Context, journalID string, object string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE journals
		SET file_object = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE journal_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, journalID, object, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to attach file to journal "+journalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal " + journalID + " not found for file attach")
	}
	return nil
}
