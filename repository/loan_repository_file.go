package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"loanbook/domain"
)

// FileLoanRepository keeps one <id>.json file per loan under a single
// directory. The directory is an explicit constructor argument so the store
// can be pointed at a temp dir in tests.
//
// Writes are atomic (tmp file + rename) but not serialized across processes
// or requests: concurrent edits to the same loan are last-writer-wins. That
// is an accepted limitation for a personal-use tool, not something this
// layer tries to fix.
type FileLoanRepository struct {
	dir string
	log zerolog.Logger
}

// NewFileLoanRepository creates the data directory if needed.
func NewFileLoanRepository(dir string, log zerolog.Logger) (*FileLoanRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileLoanRepository{
		dir: dir,
		log: log.With().Str("component", "loan_store").Logger(),
	}, nil
}

// List loads every loan file in the directory, sorted by id. Unreadable
// files are skipped with a warning so one corrupt record cannot take down
// the index page.
func (r *FileLoanRepository) List() ([]domain.Loan, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	loans := []domain.Loan{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		loan, err := r.Get(id)
		if err != nil {
			r.log.Warn().Err(err).Str("loan", id).Msg("Skipping unreadable loan file")
			continue
		}
		loans = append(loans, loan)
	}
	sort.Slice(loans, func(i, j int) bool { return loans[i].ID < loans[j].ID })
	return loans, nil
}

func (r *FileLoanRepository) Get(id string) (domain.Loan, error) {
	data, err := r.Raw(id)
	if err != nil {
		return domain.Loan{}, err
	}
	var loan domain.Loan
	if err := json.Unmarshal(data, &loan); err != nil {
		return domain.Loan{}, fmt.Errorf("decode loan %s: %w", id, err)
	}
	loan.ID = id
	return loan, nil
}

func (r *FileLoanRepository) Save(loan domain.Loan) error {
	data, err := json.MarshalIndent(loan, "", "  ")
	if err != nil {
		return fmt.Errorf("encode loan %s: %w", loan.ID, err)
	}
	path := r.path(loan.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write loan %s: %w", loan.ID, err)
	}
	return os.Rename(tmp, path)
}

func (r *FileLoanRepository) Delete(id string) error {
	err := os.Remove(r.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrLoanNotFound
	}
	return err
}

func (r *FileLoanRepository) Raw(id string) ([]byte, error) {
	data, err := os.ReadFile(r.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrLoanNotFound
	}
	return data, err
}

func (r *FileLoanRepository) path(id string) string {
	return filepath.Join(r.dir, id+".json")
}
