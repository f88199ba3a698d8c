package services

import (
	"context"

	"github.com/corefac/facility_billing_app/internal/core/domain"
)

// AccountValidator answers whether a funding account may be billed for a
// product. A nil return means the account is open; a non-nil error carries the
// rejection reason, which is surfaced verbatim to callers.
type AccountValidator interface {
	AccountIsOpen(ctx context.Context, account domain.FundingAccount, product domain.Product) error
}
