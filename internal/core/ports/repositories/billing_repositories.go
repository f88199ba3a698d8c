package repositories

import (
	"context"

	"github.com/corefac/facility_billing_app/internal/core/domain"
)

// BillableReader defines read operations for billable record data
type BillableReader interface {
	// FindBillablesByIDs retrieves the given records (with their product's
	// facility joined in). Every requested ID must exist.
	FindBillablesByIDs(ctx context.Context, recordIDs []string) ([]domain.BillableRecord, error)

	// ListUnjournaledByFacility retrieves completed records of a facility that
	// no journal has picked up yet, oldest fulfillment first.
	ListUnjournaledByFacility(ctx context.Context, facilityID string) ([]domain.BillableRecord, error)
}

// ProductReader defines read operations for product data
type ProductReader interface {
	// FindProductsByIDs retrieves products keyed by ID, with the revenue
	// account of each product's facility account joined in.
	FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error)
}

// FundingAccountReader defines read operations for funding account data
type FundingAccountReader interface {
	// FindFundingAccountsByIDs retrieves funding accounts keyed by ID.
	FindFundingAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.FundingAccount, error)
}

// FacilityReader defines read operations for facility data
type FacilityReader interface {
	// FindFacilityByID retrieves a facility by its unique identifier.
	FindFacilityByID(ctx context.Context, facilityID string) (*domain.Facility, error)
}
