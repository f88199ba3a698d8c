package mapping

import (
	"github.com/corefac/facility_billing_app/internal/core/domain"
	"github.com/corefac/facility_billing_app/internal/models"
)

// ToDomainFacility converts a model Facility to a domain Facility
func ToDomainFacility(m models.Facility) domain.Facility {
	return domain.Facility{
		FacilityID:   m.FacilityID,
		Name:         m.Name,
		Abbreviation: m.Abbreviation,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainProduct converts a model Product to a domain Product
func ToDomainProduct(m models.Product) domain.Product {
	return domain.Product{
		ProductID:         m.ProductID,
		FacilityID:        m.FacilityID,
		FacilityAccountID: m.FacilityAccountID,
		Name:              m.Name,
		RevenueAccount:    m.RevenueAccount,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainFundingAccount converts a model FundingAccount to a domain FundingAccount
func ToDomainFundingAccount(m models.FundingAccount) domain.FundingAccount {
	return domain.FundingAccount{
		AccountID:     m.AccountID,
		AccountNumber: m.AccountNumber,
		Description:   m.Description,
		Owner:         m.Owner,
		ExpiresAt:     m.ExpiresAt,
		SuspendedAt:   m.SuspendedAt,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBillableRecord converts a model BillableRecord to a domain BillableRecord
func ToDomainBillableRecord(m models.BillableRecord) domain.BillableRecord {
	return domain.BillableRecord{
		RecordID:    m.RecordID,
		ProductID:   m.ProductID,
		AccountID:   m.AccountID,
		FacilityID:  m.FacilityID,
		Requester:   m.Requester,
		Quantity:    m.Quantity,
		Total:       m.Total,
		FulfilledAt: m.FulfilledAt,
		State:       domain.BillableState(m.State),
		JournalID:   m.JournalID,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBillableRecordSlice converts a slice of model BillableRecords
func ToDomainBillableRecordSlice(ms []models.BillableRecord) []domain.BillableRecord {
	ds := make([]domain.BillableRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBillableRecord(m)
	}
	return ds
}
