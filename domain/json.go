package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Stored loan files are hand-editable, so decoding is lenient: a numeric
// field holding a quoted number is accepted, and anything unparseable
// degrades to the zero value instead of failing the whole record.

// UnmarshalJSON decodes a loan record, coercing malformed numeric fields to
// zero.
func (l *Loan) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name           string          `json:"name"`
		Principal      json.RawMessage `json:"principal"`
		InterestRate   json.RawMessage `json:"interest_rate"`
		TermMonths     json.RawMessage `json:"term_months"`
		MonthlyPayment json.RawMessage `json:"monthly_payment"`
		StartDate      string          `json:"start_date"`
		Payments       []Payment       `json:"payments"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.Name = raw.Name
	l.Principal = coerceFloat(raw.Principal)
	l.InterestRate = coerceFloat(raw.InterestRate)
	l.TermMonths = coerceFloat(raw.TermMonths)
	l.MonthlyPayment = coerceFloat(raw.MonthlyPayment)
	l.StartDate = raw.StartDate
	l.Payments = raw.Payments
	return nil
}

// UnmarshalJSON decodes a payment, coercing a malformed amount to zero. The
// ledger normalizer then ignores zero-amount payments.
func (p *Payment) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date   string          `json:"date"`
		Amount json.RawMessage `json:"amount"`
		Note   string          `json:"note"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Date = raw.Date
	p.Amount = coerceFloat(raw.Amount)
	p.Note = raw.Note
	return nil
}

func coerceFloat(raw json.RawMessage) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0
	}
	s := strings.Trim(string(raw), `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
