package domain

// CalculatorInput is a standalone loan calculation request. Zero or negative
// term/payment values mean "absent"; the resolver fills in the missing one.
type CalculatorInput struct {
	Principal      float64 `json:"principal"`
	InterestRate   float64 `json:"interest_rate"`
	TermMonths     float64 `json:"term_months"`
	MonthlyPayment float64 `json:"monthly_payment"`
}

// CalculatorResult is the resolved terms plus schedule totals.
type CalculatorResult struct {
	TermMonths     float64 `json:"term_months"`
	MonthlyPayment float64 `json:"monthly_payment"`
	Periods        int     `json:"periods"`
	TotalPayment   float64 `json:"total_payment"`
	TotalInterest  float64 `json:"total_interest"`
}
