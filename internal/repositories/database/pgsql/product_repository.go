package pgsql

import (
	"context"

	"github.com/corefac/facility_billing_app/internal/apperrors"
	"github.com/corefac/facility_billing_app/internal/core/domain"
	"github.com/corefac/facility_billing_app/internal/models"
	"github.com/corefac/facility_billing_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxProductRepository implements the ProductReader port using pgx
type PgxProductRepository struct {
	BaseRepository
}

// NewPgxProductRepository creates a new PgxProductRepository
func NewPgxProductRepository(pool *pgxpool.Pool) *PgxProductRepository {
	return &PgxProductRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// FindProductsByIDs fetches products keyed by ID, each joined with its
// facility account so the revenue account number rides along.
func (r *PgxProductRepository) FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	result := make(map[string]domain.Product, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}
	query := `
		SELECT p.product_id, p.facility_id, p.facility_account_id, p.name,
		       fa.revenue_account,
		       p.created_at, p.created_by, p.last_updated_at, p.last_updated_by
		FROM products p
		JOIN facility_accounts fa ON fa.facility_account_id = p.facility_account_id
		WHERE p.product_id = ANY($1);
	`
	rows, err := r.Pool.Query(ctx, query, productIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query products", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Product
		err := rows.Scan(
			&m.ProductID, &m.FacilityID, &m.FacilityAccountID, &m.Name,
			&m.RevenueAccount,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan product", err)
		}
		result[m.ProductID] = mapping.ToDomainProduct(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating products", err)
	}
	return result, nil
}
