package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"loanbook/domain"
	"loanbook/repository"
)

// SpyCache records cache traffic so tests can assert the calculator uses it.
type SpyCache struct {
	data      map[string]string
	SetCalled int
	GetHits   int
}

func NewSpyCache() *SpyCache {
	return &SpyCache{data: make(map[string]string)}
}

func (c *SpyCache) Get(_ context.Context, key string) (string, bool) {
	val, ok := c.data[key]
	if ok {
		c.GetHits++
	}
	return val, ok
}

func (c *SpyCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.SetCalled++
	c.data[key] = value
	return nil
}

func newTestLoanService() (*LoanService, *repository.LoanRepositoryMemory, *SpyCache) {
	repo := repository.NewLoanRepositoryMemory()
	cache := NewSpyCache()
	return NewLoanService(repo, cache, zerolog.Nop()), repo, cache
}

func TestCreateLoan_ResolvesAndPersists(t *testing.T) {
	svc, repo, _ := newTestLoanService()

	created, err := svc.CreateLoan(domain.Loan{
		Name:       "Car Loan",
		Principal:  1200,
		TermMonths: 12,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != "car-loan" {
		t.Errorf("expected slug id car-loan, got %q", created.ID)
	}
	if created.MonthlyPayment != 100.0 {
		t.Errorf("expected resolved payment 100.00, got %.2f", created.MonthlyPayment)
	}

	stored, err := repo.Get("car-loan")
	if err != nil {
		t.Fatalf("loan was not persisted: %v", err)
	}
	if stored.MonthlyPayment != 100.0 {
		t.Errorf("persisted payment mismatch: %.2f", stored.MonthlyPayment)
	}
}

func TestCreateLoan_Duplicate(t *testing.T) {
	svc, _, _ := newTestLoanService()

	loan := domain.Loan{Name: "House", Principal: 1000, TermMonths: 12}
	if _, err := svc.CreateLoan(loan); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.CreateLoan(loan); err == nil {
		t.Errorf("expected error for duplicate loan")
	}
}

func TestCreateLoan_InvalidPrincipal(t *testing.T) {
	svc, repo, _ := newTestLoanService()

	_, err := svc.CreateLoan(domain.Loan{Name: "Bad", Principal: 0})
	if err == nil {
		t.Errorf("expected error for invalid principal")
	}
	if loans, _ := repo.List(); len(loans) != 0 {
		t.Errorf("nothing should be persisted on validation failure")
	}
}

func TestCreateLoan_Unpayable(t *testing.T) {
	svc, _, _ := newTestLoanService()

	_, err := svc.CreateLoan(domain.Loan{
		Name:           "Hopeless",
		Principal:      100,
		InterestRate:   50,
		MonthlyPayment: 1,
	})
	if !errors.Is(err, domain.ErrUnpayableLoan) {
		t.Errorf("expected ErrUnpayableLoan, got %v", err)
	}
}

func TestUpdateTerms_RecomputesPayment(t *testing.T) {
	svc, _, _ := newTestLoanService()

	if _, err := svc.CreateLoan(domain.Loan{Name: "Bike", Principal: 1200, TermMonths: 12}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	updated, err := svc.UpdateTerms("bike", domain.Loan{
		Name:       "Bike",
		Principal:  2400,
		TermMonths: 12,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.MonthlyPayment != 200.0 {
		t.Errorf("expected recomputed payment 200.00, got %.2f", updated.MonthlyPayment)
	}
}

func TestAddPayment(t *testing.T) {
	svc, repo, _ := newTestLoanService()

	if _, err := svc.CreateLoan(domain.Loan{Name: "Bike", Principal: 1200, TermMonths: 12}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.AddPayment("bike", domain.Payment{Date: "2024-02-01", Amount: 100}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.AddPayment("bike", domain.Payment{Date: "2024-03-01", Amount: 0}); err == nil {
		t.Errorf("expected error for zero amount")
	}

	loan, _ := repo.Get("bike")
	if len(loan.Payments) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(loan.Payments))
	}
}

func TestUpdatePayment_IndexOutOfRange(t *testing.T) {
	svc, _, _ := newTestLoanService()

	if _, err := svc.CreateLoan(domain.Loan{Name: "Bike", Principal: 1200, TermMonths: 12}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := svc.UpdatePayment("bike", 3, domain.Payment{Date: "2024-02-01", Amount: 50})
	if !errors.Is(err, ErrPaymentIndex) {
		t.Errorf("expected ErrPaymentIndex, got %v", err)
	}
}

func TestDeletePayment_ShiftsIndexes(t *testing.T) {
	svc, repo, _ := newTestLoanService()

	if _, err := svc.CreateLoan(domain.Loan{Name: "Bike", Principal: 1200, TermMonths: 12}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc.AddPayment("bike", domain.Payment{Date: "2024-02-01", Amount: 100})
	svc.AddPayment("bike", domain.Payment{Date: "2024-03-01", Amount: 200})

	if err := svc.DeletePayment("bike", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loan, _ := repo.Get("bike")
	if len(loan.Payments) != 1 || loan.Payments[0].Amount != 200 {
		t.Errorf("expected the second payment to remain, got %+v", loan.Payments)
	}
}

func TestGetLoan_RecomputesSchedule(t *testing.T) {
	svc, _, _ := newTestLoanService()

	if _, err := svc.CreateLoan(domain.Loan{
		Name: "Bike", Principal: 1200, TermMonths: 12, StartDate: "2024-01-01",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	detail, err := svc.GetLoan("bike")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detail.Schedule) != 12 {
		t.Errorf("expected 12 schedule rows, got %d", len(detail.Schedule))
	}
	if detail.Summary.Balance != 1200.0 {
		t.Errorf("expected balance 1200.00, got %.2f", detail.Summary.Balance)
	}
}

func TestCalculate_UsesCache(t *testing.T) {
	svc, _, cache := newTestLoanService()
	input := domain.CalculatorInput{Principal: 1200, TermMonths: 12}

	first, err := svc.Calculate(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.MonthlyPayment != 100.0 || first.Periods != 12 {
		t.Errorf("unexpected result: %+v", first)
	}
	if cache.SetCalled != 1 {
		t.Errorf("expected result to be cached")
	}

	second, err := svc.Calculate(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.GetHits != 1 {
		t.Errorf("expected second call to hit the cache")
	}
	if second != first {
		t.Errorf("cached result differs: %+v vs %+v", second, first)
	}
}

func TestCalculate_InvalidInput(t *testing.T) {
	svc, _, cache := newTestLoanService()

	if _, err := svc.Calculate(context.Background(), domain.CalculatorInput{Principal: 0}); err == nil {
		t.Errorf("expected error for invalid principal")
	}
	if cache.SetCalled != 0 {
		t.Errorf("nothing should be cached on failure")
	}
}
