package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"loanbook/domain"
	"loanbook/repository"
)

// ErrPaymentIndex is returned when a payment index does not exist on the
// loan.
var ErrPaymentIndex = errors.New("payment index out of range")

// LoanOverview is a loan with its display aggregates, for the index page.
type LoanOverview struct {
	Loan    domain.Loan
	Summary domain.LoanSummary
}

// LoanDetail is everything the detail page needs. ScheduleError carries the
// unpayable-loan condition so the page can still render the loan fields with
// an actionable error instead of failing outright.
type LoanDetail struct {
	Loan          domain.Loan
	Schedule      []domain.AmortizationRow
	Summary       domain.LoanSummary
	ScheduleError string
}

// LoanService orchestrates loan storage and the amortization engine. The
// schedule is recomputed from the stored record on every read; only the
// stateless calculator results go through the cache.
type LoanService struct {
	repo  repository.LoanRepository
	cache repository.CacheRepository
	log   zerolog.Logger
}

// NewLoanService creates a new LoanService with the given repositories.
func NewLoanService(
	repo repository.LoanRepository,
	cache repository.CacheRepository,
	log zerolog.Logger,
) *LoanService {
	return &LoanService{
		repo:  repo,
		cache: cache,
		log:   log.With().Str("component", "loan_service").Logger(),
	}
}

// ListLoans returns all stored loans with their summaries.
func (s *LoanService) ListLoans() ([]LoanOverview, error) {
	loans, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	overviews := make([]LoanOverview, 0, len(loans))
	for _, loan := range loans {
		overviews = append(overviews, LoanOverview{
			Loan:    loan,
			Summary: Project(loan, nil),
		})
	}
	return overviews, nil
}

// Loan returns the bare stored record.
func (s *LoanService) Loan(id string) (domain.Loan, error) {
	return s.repo.Get(id)
}

// GetLoan loads a loan and rebuilds its schedule and summary.
func (s *LoanService) GetLoan(id string) (LoanDetail, error) {
	loan, err := s.repo.Get(id)
	if err != nil {
		return LoanDetail{}, err
	}
	detail := LoanDetail{Loan: loan}
	schedule, err := BuildSchedule(loan, time.Now())
	if errors.Is(err, domain.ErrUnpayableLoan) {
		detail.ScheduleError = err.Error()
	} else if err != nil {
		return LoanDetail{}, err
	}
	detail.Schedule = schedule
	detail.Summary = Project(loan, schedule)
	return detail, nil
}

// CreateLoan validates a new loan, resolves its missing term or payment once
// and persists the resolved values. The id is derived from the name.
func (s *LoanService) CreateLoan(loan domain.Loan) (domain.Loan, error) {
	if loan.Name == "" {
		return domain.Loan{}, errors.New("name is required")
	}
	if err := validateTerms(loan); err != nil {
		return domain.Loan{}, err
	}

	loan.ID = repository.Slugify(loan.Name)
	if _, err := s.repo.Get(loan.ID); err == nil {
		return domain.Loan{}, fmt.Errorf("loan %q already exists", loan.ID)
	} else if !errors.Is(err, repository.ErrLoanNotFound) {
		return domain.Loan{}, err
	}

	resolved, err := resolveInto(loan)
	if err != nil {
		return domain.Loan{}, err
	}
	if resolved.Payments == nil {
		resolved.Payments = []domain.Payment{}
	}
	if err := s.repo.Save(resolved); err != nil {
		return domain.Loan{}, err
	}
	s.log.Info().Str("loan", resolved.ID).Float64("principal", resolved.Principal).Msg("Loan created")
	return resolved, nil
}

// UpdateTerms replaces a loan's core terms and re-runs the resolver. Blank
// (zero) term or payment values are recomputed from the other; recorded
// payments are untouched.
func (s *LoanService) UpdateTerms(id string, updated domain.Loan) (domain.Loan, error) {
	if err := validateTerms(updated); err != nil {
		return domain.Loan{}, err
	}
	loan, err := s.repo.Get(id)
	if err != nil {
		return domain.Loan{}, err
	}
	loan.Name = updated.Name
	loan.Principal = updated.Principal
	loan.InterestRate = updated.InterestRate
	loan.TermMonths = updated.TermMonths
	loan.MonthlyPayment = updated.MonthlyPayment
	loan.StartDate = updated.StartDate

	resolved, err := resolveInto(loan)
	if err != nil {
		return domain.Loan{}, err
	}
	if err := s.repo.Save(resolved); err != nil {
		return domain.Loan{}, err
	}
	return resolved, nil
}

// DeleteLoan removes the stored record.
func (s *LoanService) DeleteLoan(id string) error {
	return s.repo.Delete(id)
}

// AddPayment appends a payment to the loan's list.
func (s *LoanService) AddPayment(id string, payment domain.Payment) error {
	if payment.Amount == 0 {
		return errors.New("payment amount must be nonzero")
	}
	loan, err := s.repo.Get(id)
	if err != nil {
		return err
	}
	loan.Payments = append(loan.Payments, payment)
	return s.repo.Save(loan)
}

// UpdatePayment replaces the payment at the given list index.
func (s *LoanService) UpdatePayment(id string, index int, payment domain.Payment) error {
	if payment.Amount == 0 {
		return errors.New("payment amount must be nonzero")
	}
	loan, err := s.repo.Get(id)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(loan.Payments) {
		return ErrPaymentIndex
	}
	loan.Payments[index] = payment
	return s.repo.Save(loan)
}

// DeletePayment removes the payment at the given list index. Later payments
// shift down, changing their identity.
func (s *LoanService) DeletePayment(id string, index int) error {
	loan, err := s.repo.Get(id)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(loan.Payments) {
		return ErrPaymentIndex
	}
	loan.Payments = append(loan.Payments[:index], loan.Payments[index+1:]...)
	return s.repo.Save(loan)
}

// Raw returns the stored record bytes for download.
func (s *LoanService) Raw(id string) ([]byte, error) {
	return s.repo.Raw(id)
}

// Calculate resolves a standalone calculation and derives schedule totals,
// without touching stored loans. Results are cached by input key; a cache
// failure is logged and ignored.
func (s *LoanService) Calculate(ctx context.Context, input domain.CalculatorInput) (domain.CalculatorResult, error) {
	if input.Principal <= 0 {
		return domain.CalculatorResult{}, errors.New("invalid principal")
	}
	if input.Principal > MaxLoanAmount {
		return domain.CalculatorResult{}, fmt.Errorf("principal exceeds the maximum of $%.2f", MaxLoanAmount)
	}
	if input.InterestRate < 0 {
		return domain.CalculatorResult{}, errors.New("invalid interest rate")
	}
	if input.InterestRate > MaxInterestRate {
		return domain.CalculatorResult{}, fmt.Errorf("interest rate exceeds the maximum of %.2f%%", MaxInterestRate)
	}
	if input.TermMonths > MaxTermMonths {
		return domain.CalculatorResult{}, fmt.Errorf("term exceeds the maximum of %d months", MaxTermMonths)
	}

	key := fmt.Sprintf("calc:%g:%g:%g:%g",
		input.Principal, input.InterestRate, input.TermMonths, input.MonthlyPayment)
	if cached, ok := s.cache.Get(ctx, key); ok {
		var result domain.CalculatorResult
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			return result, nil
		}
	}

	terms, err := Resolve(input.Principal, input.InterestRate, input.TermMonths, input.MonthlyPayment)
	if err != nil {
		return domain.CalculatorResult{}, err
	}
	if math.Ceil(terms.TermMonths) > MaxTermMonths {
		return domain.CalculatorResult{}, fmt.Errorf("payment implies a term beyond %d months", MaxTermMonths)
	}

	schedule, err := BuildSchedule(domain.Loan{
		Principal:      input.Principal,
		InterestRate:   input.InterestRate,
		TermMonths:     terms.TermMonths,
		MonthlyPayment: terms.MonthlyPayment,
	}, time.Now())
	if err != nil {
		return domain.CalculatorResult{}, err
	}

	total := 0.0
	for _, row := range schedule {
		total += row.Payment
	}
	result := domain.CalculatorResult{
		TermMonths:     roundTo2Decimals(terms.TermMonths),
		MonthlyPayment: roundTo2Decimals(terms.MonthlyPayment),
		Periods:        len(schedule),
		TotalPayment:   roundTo2Decimals(total),
		TotalInterest:  roundTo2Decimals(total - input.Principal),
	}

	if encoded, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, key, string(encoded), CalculatorCacheTTL); err != nil {
			s.log.Warn().Err(err).Msg("Failed to cache calculator result")
		}
	}
	return result, nil
}

// resolveInto runs the resolver and writes the resolved values back onto the
// loan. The payment is stored at currency precision; a term derived from a
// payment keeps its fractional value so re-resolving is a no-op.
func resolveInto(loan domain.Loan) (domain.Loan, error) {
	terms, err := Resolve(loan.Principal, loan.InterestRate, loan.TermMonths, loan.MonthlyPayment)
	if err != nil {
		return domain.Loan{}, err
	}
	loan.TermMonths = terms.TermMonths
	loan.MonthlyPayment = roundTo2Decimals(terms.MonthlyPayment)
	return loan, nil
}

func validateTerms(loan domain.Loan) error {
	if loan.Principal <= 0 {
		return errors.New("invalid principal")
	}
	if loan.Principal > MaxLoanAmount {
		return fmt.Errorf("principal exceeds the maximum of $%.2f", MaxLoanAmount)
	}
	if loan.InterestRate < 0 {
		return errors.New("invalid interest rate")
	}
	if loan.InterestRate > MaxInterestRate {
		return fmt.Errorf("interest rate exceeds the maximum of %.2f%%", MaxInterestRate)
	}
	if loan.TermMonths > MaxTermMonths {
		return fmt.Errorf("term exceeds the maximum of %d months", MaxTermMonths)
	}
	return nil
}
