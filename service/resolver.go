package service

import (
	"math"

	"loanbook/domain"
)

// roundTo2Decimals rounds a float64 to currency precision.
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

// Resolve fills in whichever of term or monthly payment is missing, using
// the standard annuity formulas. Zero or negative term/payment inputs are
// treated as absent; when both are absent the term defaults to
// DefaultTermMonths and the payment is derived from it.
//
// A principal of zero or less yields zero terms and no error: such a loan
// simply has no schedule.
//
// When the term is derived from a fixed payment the result is continuous
// (fractional); callers round it up to whole periods before building a
// schedule. A payment that never covers the monthly interest has no finite
// term and returns domain.ErrUnpayableLoan.
func Resolve(principal, annualRatePercent, termMonths, monthlyPayment float64) (domain.ResolvedTerms, error) {
	if principal <= 0 {
		return domain.ResolvedTerms{}, nil
	}
	if termMonths < 0 {
		termMonths = 0
	}
	if monthlyPayment < 0 {
		monthlyPayment = 0
	}
	if termMonths == 0 && monthlyPayment == 0 {
		termMonths = DefaultTermMonths
	}

	monthlyRate := annualRatePercent / 12 / 100

	switch {
	case termMonths > 0 && monthlyPayment == 0:
		if monthlyRate == 0 {
			monthlyPayment = principal / termMonths
		} else {
			monthlyPayment = principal * monthlyRate / (1 - math.Pow(1+monthlyRate, -termMonths))
		}
	case monthlyPayment > 0 && termMonths == 0:
		if monthlyRate == 0 {
			termMonths = principal / monthlyPayment
		} else {
			if monthlyPayment <= principal*monthlyRate {
				return domain.ResolvedTerms{}, domain.ErrUnpayableLoan
			}
			termMonths = math.Log(monthlyPayment/(monthlyPayment-principal*monthlyRate)) / math.Log(1+monthlyRate)
		}
	}

	return domain.ResolvedTerms{TermMonths: termMonths, MonthlyPayment: monthlyPayment}, nil
}
