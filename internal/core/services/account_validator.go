package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/corefac/facility_billing_app/internal/core/domain"
	portssvc "github.com/corefac/facility_billing_app/internal/core/ports/services"
)

// patternAccountValidator validates funding accounts against a configured
// account number pattern plus expiry and suspension checks.
type patternAccountValidator struct {
	pattern *regexp.Regexp
	now     func() time.Time
}

// NewAccountValidator compiles the account number pattern and returns a
// validator. An empty pattern accepts any account number.
func NewAccountValidator(pattern string) (portssvc.AccountValidator, error) {
	v := &patternAccountValidator{now: time.Now}
	if pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid account number pattern %q: %w", pattern, err)
		}
		v.pattern = re
	}
	return v, nil
}

var _ portssvc.AccountValidator = (*patternAccountValidator)(nil)

// AccountIsOpen reports whether the account may be billed for the product.
// The returned error message is surfaced verbatim to callers.
func (v *patternAccountValidator) AccountIsOpen(_ context.Context, account domain.FundingAccount, _ domain.Product) error {
	if account.AccountNumber == "" {
		return errors.New("account number is blank")
	}
	if v.pattern != nil && !v.pattern.MatchString(account.AccountNumber) {
		return fmt.Errorf("account number %s is not billable", account.AccountNumber)
	}
	now := v.now().UTC()
	if account.SuspendedAt != nil && !account.SuspendedAt.After(now) {
		return fmt.Errorf("account was suspended on %s", account.SuspendedAt.Format("01/02/2006"))
	}
	if account.ExpiresAt != nil && !account.ExpiresAt.After(now) {
		return fmt.Errorf("account expired on %s", account.ExpiresAt.Format("01/02/2006"))
	}
	return nil
}
