package domain

// PayoffInput asks what paying more per month would do to a stored loan.
// Each extra payment amount is evaluated on top of the loan's resolved
// monthly payment, against the current real balance.
type PayoffInput struct {
	ExtraPayments []float64 `json:"extra_payments"`
}

// PayoffScenario is the outcome of one candidate monthly payment.
type PayoffScenario struct {
	MonthlyPayment float64 `json:"monthly_payment"`
	MonthsToPayoff int     `json:"months_to_payoff"`
	TotalPaid      float64 `json:"total_paid"`
	InterestPaid   float64 `json:"interest_paid"`
	InterestSaved  float64 `json:"interest_saved"`
	MonthsSaved    int     `json:"months_saved"`
	Reason         string  `json:"reason"`
}

// PayoffResult holds the baseline (keep paying as scheduled) and the
// evaluated scenarios, best savings first.
type PayoffResult struct {
	Balance   float64          `json:"balance"`
	Baseline  PayoffScenario   `json:"baseline"`
	Scenarios []PayoffScenario `json:"scenarios"`
}
