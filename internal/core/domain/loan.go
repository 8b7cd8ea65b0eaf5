package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// LoanTerms holds the figures derived when a loan is issued
type LoanTerms struct {
	Principal          decimal.Decimal
	InterestRate       decimal.Decimal
	DurationMonths     int
	Interest           decimal.Decimal
	TotalPayable       decimal.Decimal
	MonthlyInstallment decimal.Decimal
}

// ComputeLoanTerms applies simple interest: total = principal + principal*rate/100,
// rounded to two places, and installment = total / months. The installment is not
// rounded; callers round for display.
func ComputeLoanTerms(principal, ratePercent decimal.Decimal, months int) (LoanTerms, error) {
	if !principal.IsPositive() {
		return LoanTerms{}, ErrInvalidAmount
	}
	if ratePercent.IsNegative() {
		return LoanTerms{}, ErrInvalidInterestRate
	}
	if months <= 0 {
		return LoanTerms{}, ErrInvalidDuration
	}

	total := principal.Add(principal.Mul(ratePercent).Div(hundred)).Round(2)

	return LoanTerms{
		Principal:          principal,
		InterestRate:       ratePercent,
		DurationMonths:     months,
		Interest:           total.Sub(principal),
		TotalPayable:       total,
		MonthlyInstallment: total.Div(decimal.NewFromInt(int64(months))),
	}, nil
}

// NormalizeAmount rounds a caller-supplied amount to two decimal places and rejects
// anything that is not strictly positive afterwards.
func NormalizeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	rounded := amount.Round(2)
	if !rounded.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return rounded, nil
}
