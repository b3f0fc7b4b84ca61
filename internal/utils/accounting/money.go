package accounting

import (
	"fmt"

	"github.com/acctsys/voucherledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Tolerance is the maximum absolute difference at which two currency amounts
// are still considered equal. All balance checks in the system use it.
var Tolerance = decimal.New(1, -2) // 0.01

// RoundCurrency rounds an amount to 2 decimal places using round-half-up.
// Every amount crossing a service boundary is passed through here exactly
// once so precision never drifts against the balance invariant.
func RoundCurrency(amount decimal.Decimal) decimal.Decimal {
	// decimal.Round is round-half-away-from-zero, which matches half-up for
	// the non-negative amounts this ledger records.
	return amount.Round(2)
}

// WithinTolerance reports whether a and b differ by less than Tolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(Tolerance)
}

// SumBySide totals the debit and credit sides of a set of entry lines.
func SumBySide(lines []domain.EntryLine) (debits, credits decimal.Decimal) {
	debits = decimal.Zero
	credits = decimal.Zero
	for _, line := range lines {
		if line.Side == domain.Debit {
			debits = debits.Add(line.Amount)
		} else {
			credits = credits.Add(line.Amount)
		}
	}
	return debits, credits
}

// ValidateEntryBalance checks the double-entry invariant for a set of entry
// lines against a declared total: every amount positive, debits equal credits
// within Tolerance, and at least one side equal to the total within Tolerance.
func ValidateEntryBalance(lines []domain.EntryLine, total decimal.Decimal) error {
	if len(lines) < 2 {
		return fmt.Errorf("a voucher needs at least two entry lines, got %d", len(lines))
	}
	for _, line := range lines {
		if line.Amount.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("entry line amount must be positive for account %s", line.AccountCode)
		}
		if line.Side != domain.Debit && line.Side != domain.Credit {
			return fmt.Errorf("entry line side must be %q or %q for account %s", domain.Debit, domain.Credit, line.AccountCode)
		}
	}
	debits, credits := SumBySide(lines)
	if !WithinTolerance(debits, credits) {
		return fmt.Errorf("debits %s do not equal credits %s", debits.StringFixed(2), credits.StringFixed(2))
	}
	if !WithinTolerance(debits, total) && !WithinTolerance(credits, total) {
		return fmt.Errorf("neither debits %s nor credits %s match the declared total %s",
			debits.StringFixed(2), credits.StringFixed(2), total.StringFixed(2))
	}
	return nil
}

// CheckBalance summarises the debit/credit totals of a set of entry lines
// into a BalanceCheck usable as a read-only diagnostic.
func CheckBalance(lines []domain.EntryLine) domain.BalanceCheck {
	debits, credits := SumBySide(lines)
	diff := debits.Sub(credits).Abs()
	return domain.BalanceCheck{
		Balanced:     diff.LessThan(Tolerance),
		TotalDebits:  debits,
		TotalCredits: credits,
		Difference:   diff,
	}
}
