package repository

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"loanbook/domain"
)

func newTestStore(t *testing.T) (*FileLoanRepository, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewFileLoanRepository(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return store, dir
}

func TestFileStore_SaveAndGet(t *testing.T) {
	store, dir := newTestStore(t)

	loan := domain.Loan{
		ID:           "car-loan",
		Name:         "Car Loan",
		Principal:    1200,
		InterestRate: 5,
		TermMonths:   12,
		StartDate:    "2024-01-01",
		Payments:     []domain.Payment{{Date: "2024-02-01", Amount: 100, Note: "first"}},
	}
	if err := store.Save(loan); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Get("car-loan")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "car-loan" || got.Name != "Car Loan" || got.Principal != 1200 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if len(got.Payments) != 1 || got.Payments[0].Note != "first" {
		t.Errorf("payments did not round trip: %+v", got.Payments)
	}

	// Atomic write must not leave tmp files behind.
	entries, _ := os.ReadDir(dir)
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Errorf("leftover tmp file: %s", entry.Name())
		}
	}
}

func TestFileStore_GetNotFound(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.Get("ghost"); !errors.Is(err, ErrLoanNotFound) {
		t.Errorf("expected ErrLoanNotFound, got %v", err)
	}
}

func TestFileStore_LenientFieldCoercion(t *testing.T) {
	store, dir := newTestStore(t)

	// Hand-edited records may quote numbers or hold garbage; decoding
	// degrades to zero values rather than failing the page.
	raw := `{
  "name": "Messy",
  "principal": "1200.50",
  "interest_rate": "oops",
  "payments": [
    {"date": "2024-02-01", "amount": "75"},
    {"date": "2024-03-01", "amount": "not a number"}
  ]
}`
	if err := os.WriteFile(filepath.Join(dir, "messy.json"), []byte(raw), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loan, err := store.Get("messy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loan.Principal != 1200.5 {
		t.Errorf("expected quoted principal coerced to 1200.5, got %v", loan.Principal)
	}
	if loan.InterestRate != 0 {
		t.Errorf("expected garbage rate coerced to 0, got %v", loan.InterestRate)
	}
	if loan.Payments[0].Amount != 75 || loan.Payments[1].Amount != 0 {
		t.Errorf("payment amounts not coerced: %+v", loan.Payments)
	}
}

func TestFileStore_ListSkipsCorruptFiles(t *testing.T) {
	store, dir := newTestStore(t)

	if err := store.Save(domain.Loan{ID: "good", Name: "Good", Principal: 100}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644)

	loans, err := store.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loans) != 1 || loans[0].ID != "good" {
		t.Errorf("expected only the good loan, got %+v", loans)
	}
}

func TestFileStore_ListSorted(t *testing.T) {
	store, _ := newTestStore(t)

	store.Save(domain.Loan{ID: "zebra", Principal: 1})
	store.Save(domain.Loan{ID: "alpha", Principal: 1})

	loans, err := store.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loans) != 2 || loans[0].ID != "alpha" || loans[1].ID != "zebra" {
		t.Errorf("expected sorted ids, got %+v", loans)
	}
}

func TestFileStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)

	store.Save(domain.Loan{ID: "gone", Principal: 1})
	if err := store.Delete("gone"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Delete("gone"); !errors.Is(err, ErrLoanNotFound) {
		t.Errorf("expected ErrLoanNotFound, got %v", err)
	}
}

func TestFileStore_RawOmitsID(t *testing.T) {
	store, _ := newTestStore(t)

	store.Save(domain.Loan{ID: "car", Name: "Car", Principal: 1})
	raw, err := store.Raw("car")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(raw), `"id"`) {
		t.Errorf("stored record must not contain the id: %s", raw)
	}
}
