package apperrors

import "fmt"

// AlreadyJournaledError is returned when a billable record selected for a new
// journal has already been stamped by another journal.
type AlreadyJournaledError struct {
	RecordID  string
	JournalID string // the journal that already owns the record
}

func (e *AlreadyJournaledError) Error() string {
	return fmt.Sprintf("billable record %s is already journaled by journal %s", e.RecordID, e.JournalID)
}

// FacilityHasPendingJournalError is returned when a facility already has an
// open journal. At most one pending journal may exist per facility.
type FacilityHasPendingJournalError struct {
	FacilityID string
}

func (e *FacilityHasPendingJournalError) Error() string {
	return fmt.Sprintf("facility %s already has a pending journal", e.FacilityID)
}

// InvalidAccountError is returned when a record's funding account is rejected
// by the account validator. Reason is the validator's message, verbatim.
type InvalidAccountError struct {
	RecordID      string
	AccountNumber string
	Reason        string
}

func (e *InvalidAccountError) Error() string {
	return fmt.Sprintf("account %s on billable record %s is invalid: %s", e.AccountNumber, e.RecordID, e.Reason)
}

// RequiredFieldError is returned when a field the journal lifecycle requires
// is missing: created_by at creation, reference and updated_by on any
// transition away from pending.
type RequiredFieldError struct {
	Field string
}

func (e *RequiredFieldError) Error() string {
	return fmt.Sprintf("required field %s is missing", e.Field)
}
