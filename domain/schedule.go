package domain

import "time"

// AmortizationRow is one monthly period of a loan's amortization schedule.
// Periods are 1-based and contiguous; the closing balance of period N equals
// the opening balance of period N+1, and the final period closes at exactly
// zero after rounding correction.
type AmortizationRow struct {
	Period         int       `json:"period"`
	Date           time.Time `json:"date"`
	OpeningBalance float64   `json:"opening_balance"`
	Interest       float64   `json:"interest"`
	Payment        float64   `json:"payment"`
	Principal      float64   `json:"principal"`
	ClosingBalance float64   `json:"closing_balance"`
	ActualPayment  float64   `json:"actual_payment"`
	Final          bool      `json:"final"`
}

// PaymentPoint is an (amount, date) pair used for summary display.
type PaymentPoint struct {
	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
}

// LoanSummary holds the loan-level aggregates shown on list and detail
// pages. Balance is the real running balance from recorded payments and is
// independent of the idealized schedule.
type LoanSummary struct {
	Balance                float64       `json:"balance"`
	TotalExpectedRepayment float64       `json:"total_expected_repayment"`
	LastExpected           *PaymentPoint `json:"last_expected,omitempty"`
	LastActual             *PaymentPoint `json:"last_actual,omitempty"`
}
