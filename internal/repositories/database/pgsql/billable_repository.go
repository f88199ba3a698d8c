package pgsql

import (
	"context"
	"fmt"

	"github.com/corefac/facility_billing_app/internal/apperrors"
	"github.com/corefac/facility_billing_app/internal/core/domain"
	"github.com/corefac/facility_billing_app/internal/models"
	"github.com/corefac/facility_billing_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxBillableRepository implements the BillableReader port using pgx
type PgxBillableRepository struct {
	BaseRepository
}

// NewPgxBillableRepository creates a new PgxBillableRepository
func NewPgxBillableRepository(pool *pgxpool.Pool) *PgxBillableRepository {
	return &PgxBillableRepository{BaseRepository: BaseRepository{Pool: pool}}
}

const billableColumns = `
	br.record_id, br.product_id, br.account_id, p.facility_id, br.requester,
	br.quantity, br.total, br.fulfilled_at, br.state, br.journal_id,
	br.created_at, br.created_by, br.last_updated_at, br.last_updated_by
`

func (r *PgxBillableRepository) scanBillables(ctx context.Context, query string, args ...any) ([]domain.BillableRecord, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query billable records", err)
	}
	defer rows.Close()

	var out []models.BillableRecord
	for rows.Next() {
		var m models.BillableRecord
		err := rows.Scan(
			&m.RecordID, &m.ProductID, &m.AccountID, &m.FacilityID, &m.Requester,
			&m.Quantity, &m.Total, &m.FulfilledAt, &m.State, &m.JournalID,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan billable record", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating billable records", err)
	}
	return mapping.ToDomainBillableRecordSlice(out), nil
}

// FindBillablesByIDs fetches the given records, joined with their product for
// the owning facility. Every requested ID must exist.
func (r *PgxBillableRepository) FindBillablesByIDs(ctx context.Context, recordIDs []string) ([]domain.BillableRecord, error) {
	if len(recordIDs) == 0 {
		return []domain.BillableRecord{}, nil
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM billable_records br
		JOIN products p ON p.product_id = br.product_id
		WHERE br.record_id = ANY($1)
		ORDER BY br.fulfilled_at ASC, br.record_id ASC;
	`, billableColumns)

	records, err := r.scanBillables(ctx, query, recordIDs)
	if err != nil {
		return nil, err
	}
	if len(records) != len(recordIDs) {
		found := make(map[string]struct{}, len(records))
		for _, rec := range records {
			found[rec.RecordID] = struct{}{}
		}
		for _, id := range recordIDs {
			if _, ok := found[id]; !ok {
				return nil, apperrors.NewNotFoundError(fmt.Sprintf("billable record not found: %s", id))
			}
		}
	}
	return records, nil
}

// ListUnjournaledByFacility lists completed records of a facility that have
// not yet been claimed by any journal.
func (r *PgxBillableRepository) ListUnjournaledByFacility(ctx context.Context, facilityID string) ([]domain.BillableRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM billable_records br
		JOIN products p ON p.product_id = br.product_id
		WHERE p.facility_id = $1 AND br.state = $2 AND br.journal_id IS NULL
		ORDER BY br.fulfilled_at ASC, br.record_id ASC;
	`, billableColumns)

	return r.scanBillables(ctx, query, facilityID, string(domain.BillableComplete))
}
