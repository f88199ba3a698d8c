package services

import (
	portsrepo "github.com/corefac/facility_billing_app/internal/core/ports/repositories"
	portssvc "github.com/corefac/facility_billing_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	repos *portsrepo.RepositoryProvider,
	validator portssvc.AccountValidator,
	renderer portssvc.SpreadsheetRenderer,
	blob portssvc.BlobStore,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Journal = NewJournalService(repos, validator, renderer, blob)
	container.Billable = NewBillableService(repos.BillableRepo, repos.FacilityRepo)

	return container
}
