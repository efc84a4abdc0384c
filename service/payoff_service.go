package service

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"loanbook/domain"
)

// PayoffService answers "what if I paid more each month" for a stored loan.
// Each candidate extra amount is added to the resolved monthly payment and
// simulated against the current real balance; the existing schedule is never
// re-amortized.
type PayoffService struct {
	loans *LoanService
	log   zerolog.Logger
}

func NewPayoffService(loans *LoanService, log zerolog.Logger) *PayoffService {
	return &PayoffService{
		loans: loans,
		log:   log.With().Str("component", "payoff_service").Logger(),
	}
}

// Plan evaluates the baseline payment and every candidate extra amount,
// returning scenarios sorted by interest saved. Candidates that are not
// positive are skipped.
func (s *PayoffService) Plan(id string, input domain.PayoffInput) (domain.PayoffResult, error) {
	if len(input.ExtraPayments) == 0 {
		return domain.PayoffResult{}, errors.New("no extra payment amounts provided")
	}
	if len(input.ExtraPayments) > MaxPayoffScenarios {
		return domain.PayoffResult{}, fmt.Errorf("number of scenarios exceeds the maximum of %d", MaxPayoffScenarios)
	}

	loan, err := s.loans.Loan(id)
	if err != nil {
		return domain.PayoffResult{}, err
	}
	balance := Project(loan, nil).Balance
	if balance <= 0 {
		return domain.PayoffResult{}, errors.New("loan is already paid off")
	}

	terms, err := Resolve(loan.Principal, loan.InterestRate, loan.TermMonths, loan.MonthlyPayment)
	if err != nil {
		return domain.PayoffResult{}, err
	}
	if terms.MonthlyPayment <= 0 {
		return domain.PayoffResult{}, errors.New("loan has no monthly payment to build on")
	}

	baseline, err := s.scenario(balance, loan.InterestRate, terms.MonthlyPayment)
	if err != nil {
		return domain.PayoffResult{}, err
	}
	baseline.Reason = "current schedule, unchanged"

	scenarios := []domain.PayoffScenario{}
	for _, extra := range input.ExtraPayments {
		if extra <= 0 {
			s.log.Warn().Float64("extra", extra).Msg("Skipping non-positive extra payment")
			continue
		}
		scenario, err := s.scenario(balance, loan.InterestRate, terms.MonthlyPayment+extra)
		if err != nil {
			s.log.Warn().Err(err).Float64("extra", extra).Msg("Skipping payoff scenario")
			continue
		}
		scenario.InterestSaved = roundTo2Decimals(math.Max(0, baseline.InterestPaid-scenario.InterestPaid))
		scenario.MonthsSaved = baseline.MonthsToPayoff - scenario.MonthsToPayoff
		scenario.Reason = fmt.Sprintf(
			"paying %.2f more per month clears the loan %d months sooner and saves %.2f in interest",
			extra, scenario.MonthsSaved, scenario.InterestSaved)
		scenarios = append(scenarios, scenario)
	}
	if len(scenarios) == 0 {
		return domain.PayoffResult{}, errors.New("no valid payoff scenarios")
	}

	sort.Slice(scenarios, func(i, j int) bool {
		return scenarios[i].InterestSaved > scenarios[j].InterestSaved
	})

	return domain.PayoffResult{
		Balance:   balance,
		Baseline:  baseline,
		Scenarios: scenarios,
	}, nil
}

// scenario amortizes the current balance at the given payment and reads the
// totals off the resulting schedule.
func (s *PayoffService) scenario(balance, ratePercent, payment float64) (domain.PayoffScenario, error) {
	terms, err := Resolve(balance, ratePercent, 0, payment)
	if err != nil {
		return domain.PayoffScenario{}, err
	}
	if math.Ceil(terms.TermMonths) > MaxTermMonths {
		return domain.PayoffScenario{}, fmt.Errorf("payment implies a payoff beyond %d months", MaxTermMonths)
	}
	schedule, err := BuildSchedule(domain.Loan{
		Principal:      balance,
		InterestRate:   ratePercent,
		TermMonths:     terms.TermMonths,
		MonthlyPayment: payment,
	}, time.Now())
	if err != nil {
		return domain.PayoffScenario{}, err
	}

	total := 0.0
	for _, row := range schedule {
		total += row.Payment
	}
	return domain.PayoffScenario{
		MonthlyPayment: roundTo2Decimals(payment),
		MonthsToPayoff: len(schedule),
		TotalPaid:      roundTo2Decimals(total),
		InterestPaid:   roundTo2Decimals(total - balance),
	}, nil
}
