package service

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"loanbook/domain"
	"loanbook/repository"
)

func newTestPayoffService(t *testing.T) (*PayoffService, *LoanService) {
	t.Helper()
	loans, _, _ := newTestLoanService()
	return NewPayoffService(loans, zerolog.Nop()), loans
}

func TestPlan_ExtraPaymentShortensPayoff(t *testing.T) {
	payoff, loans := newTestPayoffService(t)

	if _, err := loans.CreateLoan(domain.Loan{
		Name: "Bike", Principal: 1200, TermMonths: 12, StartDate: "2024-01-01",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := payoff.Plan("bike", domain.PayoffInput{ExtraPayments: []float64{100}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Balance != 1200.0 {
		t.Errorf("expected balance 1200.00, got %.2f", result.Balance)
	}
	if result.Baseline.MonthsToPayoff != 12 {
		t.Errorf("expected baseline of 12 months, got %d", result.Baseline.MonthsToPayoff)
	}
	if len(result.Scenarios) != 1 {
		t.Fatalf("expected 1 scenario, got %d", len(result.Scenarios))
	}
	s := result.Scenarios[0]
	if s.MonthlyPayment != 200.0 || s.MonthsToPayoff != 6 || s.MonthsSaved != 6 {
		t.Errorf("unexpected scenario: %+v", s)
	}
	if s.InterestSaved != 0 {
		t.Errorf("zero-rate loan cannot save interest, got %.2f", s.InterestSaved)
	}
}

func TestPlan_SkipsInvalidCandidates(t *testing.T) {
	payoff, loans := newTestPayoffService(t)

	if _, err := loans.CreateLoan(domain.Loan{
		Name: "Bike", Principal: 1200, TermMonths: 12,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := payoff.Plan("bike", domain.PayoffInput{ExtraPayments: []float64{-50, 0}}); err == nil {
		t.Errorf("expected error when no candidate is valid")
	}
}

func TestPlan_LoanNotFound(t *testing.T) {
	payoff, _ := newTestPayoffService(t)

	_, err := payoff.Plan("ghost", domain.PayoffInput{ExtraPayments: []float64{100}})
	if !errors.Is(err, repository.ErrLoanNotFound) {
		t.Errorf("expected ErrLoanNotFound, got %v", err)
	}
}

func TestPlan_AlreadyPaidOff(t *testing.T) {
	payoff, loans := newTestPayoffService(t)

	if _, err := loans.CreateLoan(domain.Loan{
		Name: "Bike", Principal: 1200, TermMonths: 12,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := loans.AddPayment("bike", domain.Payment{Date: "2024-02-01", Amount: 1200}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := payoff.Plan("bike", domain.PayoffInput{ExtraPayments: []float64{100}}); err == nil {
		t.Errorf("expected error for a paid-off loan")
	}
}
