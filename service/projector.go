package service

import "loanbook/domain"

// Project derives the loan-level aggregates for display. The balance is the
// real one (principal minus everything actually paid), not the idealized
// schedule balance.
func Project(loan domain.Loan, schedule []domain.AmortizationRow) domain.LoanSummary {
	paid := 0.0
	for _, p := range loan.Payments {
		paid += p.Amount
	}
	summary := domain.LoanSummary{
		Balance: roundTo2Decimals(loan.Principal - paid),
	}

	total := 0.0
	for _, row := range schedule {
		total += row.Payment
	}
	summary.TotalExpectedRepayment = roundTo2Decimals(total)

	if n := len(schedule); n > 0 {
		last := schedule[n-1]
		summary.LastExpected = &domain.PaymentPoint{Amount: last.Payment, Date: last.Date}
		summary.LastActual = &domain.PaymentPoint{Amount: last.ActualPayment, Date: last.Date}
	}
	return summary
}
