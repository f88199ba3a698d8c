package pgsql

import (
	"context"

	"github.com/corefac/facility_billing_app/internal/apperrors"
	"github.com/corefac/facility_billing_app/internal/core/domain"
	"github.com/corefac/facility_billing_app/internal/models"
	"github.com/corefac/facility_billing_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxAccountRepository implements the FundingAccountReader port using pgx
type PgxAccountRepository struct {
	BaseRepository
}

// NewPgxAccountRepository creates a new PgxAccountRepository
func NewPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// FindFundingAccountsByIDs fetches funding accounts keyed by ID.
func (r *PgxAccountRepository) FindFundingAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.FundingAccount, error) {
	result := make(map[string]domain.FundingAccount, len(accountIDs))
	if len(accountIDs) == 0 {
		return result, nil
	}
	query := `
		SELECT account_id, account_number, description, owner, expires_at, suspended_at,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM funding_accounts
		WHERE account_id = ANY($1);
	`
	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query funding accounts", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.FundingAccount
		err := rows.Scan(
			&m.AccountID, &m.AccountNumber, &m.Description, &m.Owner, &m.ExpiresAt, &m.SuspendedAt,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan funding account", err)
		}
		result[m.AccountID] = mapping.ToDomainFundingAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating funding accounts", err)
	}
	return result, nil
}
