package services

import (
	"context"

	"github.com/corefac/facility_billing_app/internal/core/domain"
	portsrepo "github.com/corefac/facility_billing_app/internal/core/ports/repositories"
	portssvc "github.com/corefac/facility_billing_app/internal/core/ports/services"
)

// billableService exposes read operations on billable records.
type billableService struct {
	billableRepo portsrepo.BillableReader
	facilityRepo portsrepo.FacilityReader
}

// NewBillableService creates a new BillableService.
func NewBillableService(billableRepo portsrepo.BillableReader, facilityRepo portsrepo.FacilityReader) portssvc.BillableSvcFacade {
	return &billableService{billableRepo: billableRepo, facilityRepo: facilityRepo}
}

var _ portssvc.BillableSvcFacade = (*billableService)(nil)

// ListUnjournaled retrieves the completed, not-yet-journaled records of a
// facility.
// Implements portssvc.BillableSvcFacade
func (s *billableService) ListUnjournaled(ctx context.Context, facilityID string) ([]domain.BillableRecord, error) {
	if _, err := s.facilityRepo.FindFacilityByID(ctx, facilityID); err != nil {
		return nil, err
	}
	return s.billableRepo.ListUnjournaledByFacility(ctx, facilityID)
}
