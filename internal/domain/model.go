// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of the application — it depends on nothing.
package domain

import (
	"fmt"
	"time"
)

// ─── People ─────────────────────────────────────────────────────────────────

// DocumentType classifies a Brazilian tax identifier.
type DocumentType string

const (
	DocumentCPF  DocumentType = "cpf"  // individual, 11 digits
	DocumentCNPJ DocumentType = "cnpj" // organization, 14 digits
)

// Document is a typed tax-ID record attached to a Person.
type Document struct {
	Type   DocumentType `json:"type"`
	Number string       `json:"number"`
}

// Contact is a reachable address for a Person (email, phone, ...).
type Contact struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// Person is a donor, member, or supplier in the registry.
type Person struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Documents        []Document `json:"documents,omitempty"`
	Contacts         []Contact  `json:"contacts,omitempty"`
	MembershipStatus string     `json:"membership_status,omitempty"`
	Active           bool       `json:"active"`

	// ContributionAmount is the agreed monthly contribution for members.
	// Nil means no contribution commitment exists.
	ContributionAmount *float64 `json:"contribution_amount,omitempty"`
}

// ─── Financial Instruments ──────────────────────────────────────────────────

// Direction tells whether an instrument is money in or money out.
type Direction string

const (
	Receivable Direction = "receivable"
	Payable    Direction = "payable"
)

// Nature is the accounting category of an instrument.
type Nature string

const (
	NatureContribution Nature = "contribution"
	NatureDonation     Nature = "donation"
	NatureEvent        Nature = "event"
	NatureAgreement    Nature = "agreement"
	NatureService      Nature = "service"
	NatureUtility      Nature = "utility"
	NatureFee          Nature = "fee"
	NatureTax          Nature = "tax"
	NatureMaterial     Nature = "material"
	NatureOther        Nature = "other"
)

// InstrumentStatus is the lifecycle state of an instrument.
type InstrumentStatus string

const (
	StatusDraft           InstrumentStatus = "draft"
	StatusPendingApproval InstrumentStatus = "pending_approval"
	StatusApproved        InstrumentStatus = "approved"
	StatusSettled         InstrumentStatus = "settled"
	StatusCanceled        InstrumentStatus = "canceled"
)

// Settlement records a cash movement that (partially) settles an instrument.
type Settlement struct {
	PaymentDate        time.Time `json:"payment_date"`
	FinancialAccountID string    `json:"financial_account_id"`
}

// FinancialInstrument is a receivable or payable obligation ("título").
// CompetenceDate is the accrual-basis date: the period the fact belongs to,
// independent of when cash actually moved.
type FinancialInstrument struct {
	ID             string           `json:"id"`
	Direction      Direction        `json:"direction"`
	Nature         Nature           `json:"nature"`
	CounterpartyID string           `json:"counterparty_id,omitempty"`
	Description    string           `json:"description,omitempty"`
	IssueDate      time.Time        `json:"issue_date"`
	CompetenceDate time.Time        `json:"competence_date"`
	DueDate        time.Time        `json:"due_date"`
	NetAmount      float64          `json:"net_amount"`
	Status         InstrumentStatus `json:"status"`
	Settlements    []Settlement     `json:"settlements,omitempty"`
	SourceSystem   string           `json:"source_system,omitempty"`
}

// IsRevenue reports whether the instrument represents incoming funds.
func (fi *FinancialInstrument) IsRevenue() bool { return fi.Direction == Receivable }

// ─── Ledger ─────────────────────────────────────────────────────────────────

// LedgerEntry is a double-entry posting summarized into debit/credit totals.
// The double-entry law requires TotalDebit == TotalCredit within a monetary
// tolerance; violations are the central audit finding.
type LedgerEntry struct {
	ID             string    `json:"id"`
	Number         int       `json:"number"`
	CompetenceDate time.Time `json:"competence_date"`
	Narrative      string    `json:"narrative"`
	TotalDebit     float64   `json:"total_debit"`
	TotalCredit    float64   `json:"total_credit"`
}

// ─── Accounting Periods ─────────────────────────────────────────────────────

// PeriodStatus is open or closed.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "open"
	PeriodClosed PeriodStatus = "closed"
)

// AccountingPeriod is one month of the books.
type AccountingPeriod struct {
	ID     string       `json:"id"`
	Year   int          `json:"year"`
	Month  time.Month   `json:"month"`
	Status PeriodStatus `json:"status"`
}

// Contains reports whether t falls inside the period's month.
func (p AccountingPeriod) Contains(t time.Time) bool {
	return t.Year() == p.Year && t.Month() == p.Month
}

// Label formats the period as "2025-03".
func (p AccountingPeriod) Label() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// ─── Bank Statement ─────────────────────────────────────────────────────────

// BankStatementLine is one movement imported from a bank statement.
type BankStatementLine struct {
	ID                 string    `json:"id"`
	FinancialAccountID string    `json:"financial_account_id"`
	MovementDate       time.Time `json:"movement_date"`
	Amount             float64   `json:"amount"`
	Reconciled         bool      `json:"reconciled"`
	Status             string    `json:"status"` // pending, ignored, ...
	LinkedInstrumentID string    `json:"linked_instrument_id,omitempty"`
}

// ─── Legacy Raw Import ──────────────────────────────────────────────────────

// RawRowInternalTransfer is the legacy category for money moved between the
// entity's own accounts. Rows of this type must never surface as revenue.
const RawRowInternalTransfer = "internal_transfer"

// RawImportRow is a frozen record from the legacy monthly spreadsheet
// imports. It is ground truth for cross-checks and is never mutated.
type RawImportRow struct {
	Type             string    `json:"type"`
	CounterpartyName string    `json:"counterparty_name"`
	Description      string    `json:"description,omitempty"`
	TotalAmount      float64   `json:"total_amount"`
	Date             time.Time `json:"date"`
	LineNumber       int       `json:"line_number"`
	SourceFile       string    `json:"source_file"`
}
