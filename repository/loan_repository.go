package repository

import (
	"errors"

	"loanbook/domain"
)

// ErrLoanNotFound is returned when no loan exists under the given id.
var ErrLoanNotFound = errors.New("loan not found")

// LoanRepository stores loan records keyed by slug id.
type LoanRepository interface {
	List() ([]domain.Loan, error)
	Get(id string) (domain.Loan, error)
	Save(loan domain.Loan) error
	Delete(id string) error
	// Raw returns the stored record bytes, for download.
	Raw(id string) ([]byte, error)
}
