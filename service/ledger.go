package service

import (
	"time"

	"loanbook/domain"
)

// ResolveStartDate picks the date period 1 is anchored to: the loan's
// explicit start date, else the earliest parseable payment date, else the
// first day of the current month.
func ResolveStartDate(loan domain.Loan, now time.Time) time.Time {
	if t, err := time.Parse(DateLayout, loan.StartDate); err == nil {
		return t
	}
	var earliest time.Time
	for _, p := range loan.Payments {
		t, err := time.Parse(DateLayout, p.Date)
		if err != nil {
			continue
		}
		if earliest.IsZero() || t.Before(earliest) {
			earliest = t
		}
	}
	if !earliest.IsZero() {
		return earliest
	}
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NormalizeLedger assigns each recorded payment to a monthly period and sums
// amounts landing in the same period. The period index is the whole-month
// difference between the payment date and the schedule start, plus one,
// clamped to [1, totalPeriods]. Zero-amount payments are ignored;
// unparseable dates fall back to the schedule start.
func NormalizeLedger(payments []domain.Payment, start time.Time, totalPeriods int) map[int]float64 {
	ledger := make(map[int]float64)
	if totalPeriods <= 0 {
		return ledger
	}
	for _, p := range payments {
		if p.Amount == 0 {
			continue
		}
		date := start
		if t, err := time.Parse(DateLayout, p.Date); err == nil {
			date = t
		}
		period := MonthsBetween(start, date) + 1
		if period < 1 {
			period = 1
		}
		if period > totalPeriods {
			period = totalPeriods
		}
		ledger[period] += p.Amount
	}
	return ledger
}
