package domain

import "errors"

// ErrUnpayableLoan is returned when a fixed monthly payment can never cover
// the interest accruing each period, so no finite term exists.
var ErrUnpayableLoan = errors.New("monthly payment never covers accrued interest")

// Loan is one stored loan record. The ID is the filename stem (slug) and is
// never written into the record itself.
type Loan struct {
	ID             string    `json:"-"`
	Name           string    `json:"name"`
	Principal      float64   `json:"principal"`
	InterestRate   float64   `json:"interest_rate"` // annual, percent
	TermMonths     float64   `json:"term_months,omitempty"`
	MonthlyPayment float64   `json:"monthly_payment,omitempty"`
	StartDate      string    `json:"start_date,omitempty"` // YYYY-MM-DD
	Payments       []Payment `json:"payments"`
}

// Payment is one recorded repayment. Payments are identified by their index
// in the loan's list; reordering the stored list changes identity.
type Payment struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Note   string  `json:"note,omitempty"`
}

// ResolvedTerms carries the outcome of term resolution: both the term and
// the monthly payment filled in. TermMonths may be fractional when it was
// derived from a fixed payment; callers round it up before building a
// schedule.
type ResolvedTerms struct {
	TermMonths     float64
	MonthlyPayment float64
}
