package service

import (
	"math"
	"time"

	"loanbook/domain"
)

// BuildSchedule produces the full period-by-period amortization schedule for
// a loan, reconciled against its recorded payments. The schedule is empty
// when the principal, resolved term, or resolved payment is not positive.
//
// Each period accrues interest on the opening balance and applies the fixed
// payment, with two overrides: the final period's payment is forced to close
// the balance at exactly zero (balloon correction), and any earlier period
// where the payment would not cover interest has it raised to exactly the
// interest, so the principal component never goes negative. All figures are
// rounded to currency precision per row; a rounded closing balance that dips
// below zero is corrected by shrinking the payment, never by touching the
// interest or opening balance.
//
// The schedule never re-amortizes after a missed or partial real payment:
// ActualPayment diverges from Payment freely while the expected columns stay
// on the idealized track.
func BuildSchedule(loan domain.Loan, now time.Time) ([]domain.AmortizationRow, error) {
	terms, err := Resolve(loan.Principal, loan.InterestRate, loan.TermMonths, loan.MonthlyPayment)
	if err != nil {
		return nil, err
	}
	totalPeriods := int(math.Ceil(terms.TermMonths))
	if loan.Principal <= 0 || totalPeriods <= 0 || terms.MonthlyPayment <= 0 {
		return nil, nil
	}

	start := ResolveStartDate(loan, now)
	ledger := NormalizeLedger(loan.Payments, start, totalPeriods)
	monthlyRate := loan.InterestRate / 12 / 100

	rows := make([]domain.AmortizationRow, 0, totalPeriods)
	opening := loan.Principal
	for period := 1; period <= totalPeriods; period++ {
		final := period == totalPeriods

		interest := opening * monthlyRate
		payment := terms.MonthlyPayment
		if final {
			// Balloon correction: close at zero regardless of the fixed
			// payment.
			payment = opening + interest
		} else if monthlyRate > 0 && payment <= interest {
			payment = interest
		}

		interest = roundTo2Decimals(interest)
		payment = roundTo2Decimals(payment)
		principal := roundTo2Decimals(payment - interest)
		closing := roundTo2Decimals(opening - principal)
		if closing < 0 {
			payment = roundTo2Decimals(payment + closing)
			principal = roundTo2Decimals(payment - interest)
			closing = 0
		}

		actual := payment
		if recorded, ok := ledger[period]; ok {
			actual = roundTo2Decimals(recorded)
		}

		rows = append(rows, domain.AmortizationRow{
			Period:         period,
			Date:           AddMonths(start, period-1),
			OpeningBalance: roundTo2Decimals(opening),
			Interest:       interest,
			Payment:        payment,
			Principal:      principal,
			ClosingBalance: closing,
			ActualPayment:  actual,
			Final:          final,
		})

		opening = closing
		if opening < 0 {
			opening = 0
		}
	}
	return rows, nil
}
