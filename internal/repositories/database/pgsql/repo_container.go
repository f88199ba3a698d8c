package pgsql

import (
	"github.com/corefac/facility_billing_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the pgx-backed repositories into the provider
// consumed by the service container.
func NewRepositoryProvider(pool *pgxpool.Pool) *repositories.RepositoryProvider {
	return &repositories.RepositoryProvider{
		JournalRepo:  NewPgxJournalRepository(pool),
		BillableRepo: NewPgxBillableRepository(pool),
		ProductRepo:  NewPgxProductRepository(pool),
		AccountRepo:  NewPgxAccountRepository(pool),
		FacilityRepo: NewPgxFacilityRepository(pool),
	}
}
