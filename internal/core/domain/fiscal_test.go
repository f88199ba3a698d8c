package domain_test

import (
	"testing"
	"time"

	"github.com/corefac/facility_billing_app/internal/apperrors"
	"github.com/corefac/facility_billing_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func recordFulfilledAt(t time.Time) domain.BillableRecord {
	return domain.BillableRecord{FulfilledAt: t}
}

func TestFiscalYearWindow(t *testing.T) {
	tests := []struct {
		name      string
		date      time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "date after September rollover",
			date:      day(2023, time.October, 15),
			wantStart: day(2023, time.September, 1),
			wantEnd:   day(2024, time.September, 1),
		},
		{
			name:      "date before September rollover",
			date:      day(2023, time.August, 15),
			wantStart: day(2022, time.September, 1),
			wantEnd:   day(2023, time.September, 1),
		},
		{
			name:      "first day of the fiscal year",
			date:      day(2023, time.September, 1),
			wantStart: day(2023, time.September, 1),
			wantEnd:   day(2024, time.September, 1),
		},
		{
			name:      "last day of the fiscal year",
			date:      day(2023, time.August, 31),
			wantStart: day(2022, time.September, 1),
			wantEnd:   day(2023, time.September, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := domain.FiscalYearWindow(tt.date)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestSpansFiscalYears(t *testing.T) {
	t.Run("records inside one window", func(t *testing.T) {
		records := []domain.BillableRecord{
			recordFulfilledAt(day(2023, time.October, 15)),
			recordFulfilledAt(day(2023, time.December, 1)),
		}
		spans, err := domain.SpansFiscalYears(records)
		assert.NoError(t, err)
		assert.False(t, spans)
	})

	t.Run("records across the September boundary", func(t *testing.T) {
		records := []domain.BillableRecord{
			recordFulfilledAt(day(2023, time.August, 15)),
			recordFulfilledAt(day(2023, time.October, 1)),
		}
		spans, err := domain.SpansFiscalYears(records)
		assert.NoError(t, err)
		assert.True(t, spans)
	})

	t.Run("window anchored on the first record", func(t *testing.T) {
		records := []domain.BillableRecord{
			recordFulfilledAt(day(2023, time.October, 1)),
			recordFulfilledAt(day(2023, time.August, 15)),
		}
		spans, err := domain.SpansFiscalYears(records)
		assert.NoError(t, err)
		assert.True(t, spans)
	})

	t.Run("end of window is exclusive", func(t *testing.T) {
		records := []domain.BillableRecord{
			recordFulfilledAt(day(2023, time.September, 2)),
			recordFulfilledAt(day(2024, time.September, 1)),
		}
		spans, err := domain.SpansFiscalYears(records)
		assert.NoError(t, err)
		assert.True(t, spans)
	})

	t.Run("empty input is a caller error", func(t *testing.T) {
		_, err := domain.SpansFiscalYears(nil)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}
