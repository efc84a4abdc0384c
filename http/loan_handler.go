package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"loanbook/domain"
	"loanbook/repository"
	"loanbook/service"
)

// LoanHandler serves the HTML pages: list, detail, create/edit forms, and
// payment recording.
type LoanHandler struct {
	service *service.LoanService
	log     zerolog.Logger
}

func NewLoanHandler(svc *service.LoanService, log zerolog.Logger) *LoanHandler {
	return &LoanHandler{
		service: svc,
		log:     log.With().Str("component", "loan_handler").Logger(),
	}
}

// Index lists all loans with their running balances.
func (h *LoanHandler) Index(w http.ResponseWriter, r *http.Request) {
	loans, err := h.service.ListLoans()
	if err != nil {
		h.serverError(w, err)
		return
	}
	h.render(w, "index.html", map[string]any{"Loans": loans})
}

// Show renders the loan detail page with payments and the full schedule.
func (h *LoanHandler) Show(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.GetLoan(chi.URLParam(r, "id"))
	if errors.Is(err, repository.ErrLoanNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}
	h.render(w, "loan.html", map[string]any{"Detail": detail})
}

// NewForm renders an empty loan form.
func (h *LoanHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "loan_form.html", map[string]any{
		"Title":  "New loan",
		"Action": "/loans/new",
		"Loan":   domain.Loan{},
	})
}

// Create persists a new loan after running the resolver once. Validation
// and unpayable-loan errors re-render the form.
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	loan := loanFromForm(r)
	created, err := h.service.CreateLoan(loan)
	if err != nil {
		h.render(w, "loan_form.html", map[string]any{
			"Title":  "New loan",
			"Action": "/loans/new",
			"Loan":   loan,
			"Error":  err.Error(),
		})
		return
	}
	http.Redirect(w, r, "/loan/"+created.ID, http.StatusSeeOther)
}

// EditForm renders the form pre-filled with a loan's current terms.
func (h *LoanHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	loan, err := h.service.Loan(chi.URLParam(r, "id"))
	if errors.Is(err, repository.ErrLoanNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}
	h.render(w, "loan_form.html", map[string]any{
		"Title":  "Edit " + loan.Name,
		"Action": "/loan/" + loan.ID + "/edit",
		"Loan":   loan,
	})
}

// Update re-resolves and saves edited loan terms.
func (h *LoanHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	loan := loanFromForm(r)
	if _, err := h.service.UpdateTerms(id, loan); err != nil {
		if errors.Is(err, repository.ErrLoanNotFound) {
			http.NotFound(w, r)
			return
		}
		loan.ID = id
		h.render(w, "loan_form.html", map[string]any{
			"Title":  "Edit " + loan.Name,
			"Action": "/loan/" + id + "/edit",
			"Loan":   loan,
			"Error":  err.Error(),
		})
		return
	}
	http.Redirect(w, r, "/loan/"+id, http.StatusSeeOther)
}

// Delete removes a loan record.
func (h *LoanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteLoan(id); err != nil {
		if errors.Is(err, repository.ErrLoanNotFound) {
			http.NotFound(w, r)
			return
		}
		h.serverError(w, err)
		return
	}
	h.log.Info().Str("loan", id).Msg("Loan deleted")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// PaymentForm renders the add-payment form, dated today.
func (h *LoanHandler) PaymentForm(w http.ResponseWriter, r *http.Request) {
	loan, err := h.service.Loan(chi.URLParam(r, "id"))
	if errors.Is(err, repository.ErrLoanNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}
	h.render(w, "payment_form.html", map[string]any{
		"Title":   "Add payment",
		"Action":  "/loan/" + loan.ID + "/payment",
		"Loan":    loan,
		"Payment": domain.Payment{Date: time.Now().Format(service.DateLayout)},
	})
}

// AddPayment appends a payment; a blank or bad date falls back to today.
func (h *LoanHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	payment := paymentFromForm(r)
	if err := h.service.AddPayment(id, payment); err != nil {
		if errors.Is(err, repository.ErrLoanNotFound) {
			http.NotFound(w, r)
			return
		}
		loan, lerr := h.service.Loan(id)
		if lerr != nil {
			h.serverError(w, lerr)
			return
		}
		h.render(w, "payment_form.html", map[string]any{
			"Title":   "Add payment",
			"Action":  "/loan/" + id + "/payment",
			"Loan":    loan,
			"Payment": payment,
			"Error":   err.Error(),
		})
		return
	}
	http.Redirect(w, r, "/loan/"+id, http.StatusSeeOther)
}

// EditPaymentForm renders the form for one payment, addressed by index.
func (h *LoanHandler) EditPaymentForm(w http.ResponseWriter, r *http.Request) {
	loan, err := h.service.Loan(chi.URLParam(r, "id"))
	if errors.Is(err, repository.ErrLoanNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 || index >= len(loan.Payments) {
		http.NotFound(w, r)
		return
	}
	h.render(w, "payment_form.html", map[string]any{
		"Title":   fmt.Sprintf("Edit payment %d", index),
		"Action":  fmt.Sprintf("/loan/%s/payment/%d/edit", loan.ID, index),
		"Loan":    loan,
		"Payment": loan.Payments[index],
	})
}

// UpdatePayment replaces the payment at the given index.
func (h *LoanHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	payment := paymentFromForm(r)
	if err := h.service.UpdatePayment(id, index, payment); err != nil {
		if errors.Is(err, repository.ErrLoanNotFound) || errors.Is(err, service.ErrPaymentIndex) {
			http.NotFound(w, r)
			return
		}
		h.serverError(w, err)
		return
	}
	http.Redirect(w, r, "/loan/"+id, http.StatusSeeOther)
}

// DeletePayment removes the payment at the given index.
func (h *LoanHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := h.service.DeletePayment(id, index); err != nil {
		if errors.Is(err, repository.ErrLoanNotFound) || errors.Is(err, service.ErrPaymentIndex) {
			http.NotFound(w, r)
			return
		}
		h.serverError(w, err)
		return
	}
	http.Redirect(w, r, "/loan/"+id, http.StatusSeeOther)
}

// Download serves the raw stored record as an attachment.
func (h *LoanHandler) Download(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data, err := h.service.Raw(id)
	if errors.Is(err, repository.ErrLoanNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+".json"))
	w.Write(data)
}

func (h *LoanHandler) render(w http.ResponseWriter, name string, data any) {
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		h.log.Error().Err(err).Str("template", name).Msg("Failed to render template")
	}
}

func (h *LoanHandler) serverError(w http.ResponseWriter, err error) {
	h.log.Error().Err(err).Msg("Request failed")
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// loanFromForm coerces raw form fields into a loan. Bad numbers become zero,
// which the resolver treats as absent; a bad date becomes blank.
func loanFromForm(r *http.Request) domain.Loan {
	return domain.Loan{
		Name:           strings.TrimSpace(r.FormValue("name")),
		Principal:      formFloat(r, "principal"),
		InterestRate:   formFloat(r, "interest_rate"),
		TermMonths:     formFloat(r, "term_months"),
		MonthlyPayment: formFloat(r, "monthly_payment"),
		StartDate:      formDate(r, "start_date", ""),
	}
}

func paymentFromForm(r *http.Request) domain.Payment {
	return domain.Payment{
		Date:   formDate(r, "date", time.Now().Format(service.DateLayout)),
		Amount: formFloat(r, "amount"),
		Note:   strings.TrimSpace(r.FormValue("note")),
	}
}

func formFloat(r *http.Request, name string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue(name)), 64)
	if err != nil {
		return 0
	}
	return v
}

func formDate(r *http.Request, name, fallback string) string {
	s := strings.TrimSpace(r.FormValue(name))
	if _, err := time.Parse(service.DateLayout, s); err != nil {
		return fallback
	}
	return s
}
