package service

import "time"

const (
	MaxLoanAmount   = 1_000_000_000.0
	MaxInterestRate = 1000.0 // percent, annual
	MaxTermMonths   = 600    // 50 years

	// DefaultTermMonths is assumed when neither a term nor a fixed payment
	// is supplied.
	DefaultTermMonths = 12

	// MaxPayoffScenarios bounds the candidate payments evaluated per payoff
	// request.
	MaxPayoffScenarios = 20

	// CalculatorCacheTTL bounds how long standalone calculation results stay
	// cached. Stored loans are never cached; their schedules are recomputed
	// on every read.
	CalculatorCacheTTL = 24 * time.Hour
)
