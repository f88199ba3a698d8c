package domain

import (
	"time"

	"github.com/corefac/facility_billing_app/internal/apperrors"
)

// The fiscal year rolls over on September 1st.
const fiscalYearStartMonth = time.September

// FiscalYearWindow returns the half-open window [start, end) of the fiscal
// year containing d.
func FiscalYearWindow(d time.Time) (time.Time, time.Time) {
	year := d.Year()
	if d.Month() < fiscalYearStartMonth {
		year--
	}
	start := time.Date(year, fiscalYearStartMonth, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year+1, fiscalYearStartMonth, 1, 0, 0, 0, 0, time.UTC)
	return start, end
}

// SpansFiscalYears reports whether the records' fulfillment dates cross a
// fiscal year boundary. The window is anchored on the first record; any record
// fulfilled outside it makes the batch span. An empty batch is a caller error.
func SpansFiscalYears(records []BillableRecord) (bool, error) {
	if len(records) == 0 {
		return false, apperrors.ErrValidation
	}
	start, end := FiscalYearWindow(records[0].FulfilledAt)
	for _, r := range records {
		d := dateOf(r.FulfilledAt)
		if d.Before(start) || !d.Before(end) {
			return true, nil
		}
	}
	return false, nil
}

// dateOf truncates a timestamp to its calendar date in UTC.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
