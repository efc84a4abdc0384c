package repository

import (
	"encoding/json"
	"sort"
	"sync"

	"loanbook/domain"
)

// LoanRepositoryMemory is an in-memory LoanRepository used in tests and as a
// throwaway backend.
type LoanRepositoryMemory struct {
	mu    sync.Mutex
	loans map[string]domain.Loan
}

// NewLoanRepositoryMemory creates a new in-memory loan repository.
func NewLoanRepositoryMemory() *LoanRepositoryMemory {
	return &LoanRepositoryMemory{loans: make(map[string]domain.Loan)}
}

func (r *LoanRepositoryMemory) List() ([]domain.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loans := make([]domain.Loan, 0, len(r.loans))
	for _, loan := range r.loans {
		loans = append(loans, loan)
	}
	sort.Slice(loans, func(i, j int) bool { return loans[i].ID < loans[j].ID })
	return loans, nil
}

func (r *LoanRepositoryMemory) Get(id string) (domain.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loan, ok := r.loans[id]
	if !ok {
		return domain.Loan{}, ErrLoanNotFound
	}
	return loan, nil
}

func (r *LoanRepositoryMemory) Save(loan domain.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loans[loan.ID] = loan
	return nil
}

func (r *LoanRepositoryMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.loans[id]; !ok {
		return ErrLoanNotFound
	}
	delete(r.loans, id)
	return nil
}

func (r *LoanRepositoryMemory) Raw(id string) ([]byte, error) {
	loan, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(loan, "", "  ")
}
