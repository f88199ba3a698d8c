package mapping

import (
	"github.com/corefac/facility_billing_app/internal/core/domain"
	"github.com/corefac/facility_billing_app/internal/models"
)

// ToModelJournal converts a domain Journal to a model Journal
func ToModelJournal(d domain.Journal) models.Journal {
	return models.Journal{
		JournalID:   d.JournalID,
		FacilityID:  d.FacilityID,
		Outcome:     models.JournalOutcome(d.Outcome),
		Reference:   d.Reference,
		FileObject:  d.FileObject,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournal converts a model Journal to a domain Journal
func ToDomainJournal(m models.Journal) domain.Journal {
	return domain.Journal{
		JournalID:   m.JournalID,
		FacilityID:  m.FacilityID,
		Outcome:     domain.JournalOutcome(m.Outcome),
		Reference:   m.Reference,
		FileObject:  m.FileObject,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalRow converts a domain JournalRow to a model JournalRow
func ToModelJournalRow(d domain.JournalRow) models.JournalRow {
	return models.JournalRow{
		RowID:       d.RowID,
		JournalID:   d.JournalID,
		RecordID:    d.RecordID,
		Account:     d.Account,
		Amount:      d.Amount,
		Description: d.Description,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalRow converts a model JournalRow to a domain JournalRow
func ToDomainJournalRow(m models.JournalRow) domain.JournalRow {
	return domain.JournalRow{
		RowID:       m.RowID,
		JournalID:   m.JournalID,
		RecordID:    m.RecordID,
		Account:     m.Account,
		Amount:      m.Amount,
		Description: m.Description,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainJournalRowSlice converts a slice of model JournalRows to domain JournalRows
func ToDomainJournalRowSlice(ms []models.JournalRow) []domain.JournalRow {
	ds := make([]domain.JournalRow, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalRow(m)
	}
	return ds
}
