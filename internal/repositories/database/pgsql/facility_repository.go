package pgsql

import (
	"context"
	"errors"

	"github.com/corefac/facility_billing_app/internal/apperrors"
	"github.com/corefac/facility_billing_app/internal/core/domain"
	"github.com/corefac/facility_billing_app/internal/models"
	"github.com/corefac/facility_billing_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxFacilityRepository implements the FacilityReader port using pgx
type PgxFacilityRepository struct {
	BaseRepository
}

// NewPgxFacilityRepository creates a new PgxFacilityRepository
func NewPgxFacilityRepository(pool *pgxpool.Pool) *PgxFacilityRepository {
	return &PgxFacilityRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// FindFacilityByID fetches a single facility.
func (r *PgxFacilityRepository) FindFacilityByID(ctx context.Context, facilityID string) (*domain.Facility, error) {
	query := `
		SELECT facility_id, name, abbreviation,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM facilities
		WHERE facility_id = $1;
	`
	var m models.Facility
	err := r.Pool.QueryRow(ctx, query, facilityID).Scan(
		&m.FacilityID, &m.Name, &m.Abbreviation,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("facility not found")
		}
		return nil, apperrors.NewAppError(500, "failed to fetch facility", err)
	}
	facility := mapping.ToDomainFacility(m)
	return &facility, nil
}
