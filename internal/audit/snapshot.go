// Package audit implements the financial integrity audit engine: snapshot
// construction, the validator registry, and run orchestration.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/contaudit/contaudit/internal/domain"
)

// ─── Scope ──────────────────────────────────────────────────────────────────

// Scope narrows an audit run to a month, a year, or everything.
// Zero Year means unrestricted; zero Month with a Year means the whole year.
type Scope struct {
	Year  int
	Month time.Month
}

// IsAll reports whether the scope is unrestricted.
func (s Scope) IsAll() bool { return s.Year == 0 }

// Matches reports whether a date falls inside the scope.
func (s Scope) Matches(t time.Time) bool {
	if s.IsAll() {
		return true
	}
	if t.Year() != s.Year {
		return false
	}
	return s.Month == 0 || t.Month() == s.Month
}

// String formats the scope for reports ("all", "2025", "2025-03").
func (s Scope) String() string {
	switch {
	case s.IsAll():
		return "all"
	case s.Month == 0:
		return fmt.Sprintf("%04d", s.Year)
	default:
		return fmt.Sprintf("%04d-%02d", s.Year, int(s.Month))
	}
}

// ─── Raw Import Keys ────────────────────────────────────────────────────────

// Legacy spreadsheets are monthly pt-BR files; their rows are keyed by the
// Portuguese month name and year, e.g. "janeiro-2025".
var ptBRMonths = [12]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// MonthKey returns the raw-import bucket key for a date.
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%s-%d", ptBRMonths[int(t.Month())-1], t.Year())
}

// ─── Snapshot ───────────────────────────────────────────────────────────────

// Snapshot is the consistent, queryable view of all entities inside the
// requested scope. It is a pure read projection: validators never mutate it.
// Out-of-scope entities are excluded entirely, not merely unreferenced.
type Snapshot struct {
	Scope Scope

	// Now is captured at build time so every validator sees the same clock.
	Now time.Time

	Persons     []domain.Person
	Instruments []domain.FinancialInstrument
	Entries     []domain.LedgerEntry
	Periods     []domain.AccountingPeriod
	BankLines   []domain.BankStatementLine
	RawRows     []domain.RawImportRow

	personsByName  map[string][]int // normalized name → Persons indexes
	personsByID    map[string]int
	instrsByOwner  map[string][]int // counterparty id → Instruments indexes
	instrsByID     map[string]int
	rawByMonth     map[string][]int // "janeiro-2025" → RawRows indexes
	periodsByMonth map[string]int   // "2025-01" → Periods index
}

// BuildSnapshot loads all collections from the data source, filters them to
// the scope, and builds the lookup indexes. A scope that matches no
// accounting period is a configuration error (ErrEmptyScope), not an empty
// result: auditing a period the books do not know about is ambiguous.
func BuildSnapshot(ctx context.Context, src domain.DataSource, scope Scope, now time.Time) (*Snapshot, error) {
	persons, err := src.Persons(ctx)
	if err != nil {
		return nil, fmt.Errorf("load persons: %w", err)
	}
	instruments, err := src.Instruments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load instruments: %w", err)
	}
	entries, err := src.LedgerEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger entries: %w", err)
	}
	periods, err := src.Periods(ctx)
	if err != nil {
		return nil, fmt.Errorf("load periods: %w", err)
	}
	bankLines, err := src.BankLines(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bank lines: %w", err)
	}
	rawRows, err := src.RawRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load raw import rows: %w", err)
	}

	snap := &Snapshot{Scope: scope, Now: now}

	// Persons carry no date; the registry is always audited whole.
	snap.Persons = persons

	for _, p := range periods {
		if scope.IsAll() || (p.Year == scope.Year && (scope.Month == 0 || p.Month == scope.Month)) {
			snap.Periods = append(snap.Periods, p)
		}
	}
	if len(snap.Periods) == 0 {
		return nil, fmt.Errorf("scope %s: %w", scope, domain.ErrEmptyScope)
	}

	for _, fi := range instruments {
		if scope.Matches(fi.CompetenceDate) {
			snap.Instruments = append(snap.Instruments, fi)
		}
	}
	for _, e := range entries {
		if scope.Matches(e.CompetenceDate) {
			snap.Entries = append(snap.Entries, e)
		}
	}
	for _, l := range bankLines {
		if scope.Matches(l.MovementDate) {
			snap.BankLines = append(snap.BankLines, l)
		}
	}
	for _, r := range rawRows {
		if scope.Matches(r.Date) {
			snap.RawRows = append(snap.RawRows, r)
		}
	}

	snap.buildIndexes()
	return snap, nil
}

func (s *Snapshot) buildIndexes() {
	s.personsByName = make(map[string][]int, len(s.Persons))
	s.personsByID = make(map[string]int, len(s.Persons))
	for i, p := range s.Persons {
		s.personsByName[domain.NormalizeName(p.Name)] = append(s.personsByName[domain.NormalizeName(p.Name)], i)
		s.personsByID[p.ID] = i
	}

	s.instrsByOwner = make(map[string][]int)
	s.instrsByID = make(map[string]int, len(s.Instruments))
	for i, fi := range s.Instruments {
		if fi.CounterpartyID != "" {
			s.instrsByOwner[fi.CounterpartyID] = append(s.instrsByOwner[fi.CounterpartyID], i)
		}
		s.instrsByID[fi.ID] = i
	}

	s.rawByMonth = make(map[string][]int)
	for i, r := range s.RawRows {
		key := MonthKey(r.Date)
		s.rawByMonth[key] = append(s.rawByMonth[key], i)
	}

	s.periodsByMonth = make(map[string]int, len(s.Periods))
	for i, p := range s.Periods {
		s.periodsByMonth[p.Label()] = i
	}
}

// PersonsByName returns persons whose normalized name equals the given
// normalized string, in registry order.
func (s *Snapshot) PersonsByName(normalized string) []*domain.Person {
	idxs := s.personsByName[normalized]
	out := make([]*domain.Person, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, &s.Persons[i])
	}
	return out
}

// PersonByID returns the person with the given id, or nil.
func (s *Snapshot) PersonByID(id string) *domain.Person {
	if i, ok := s.personsByID[id]; ok {
		return &s.Persons[i]
	}
	return nil
}

// InstrumentsOf returns the instruments owned by a person, in source order.
func (s *Snapshot) InstrumentsOf(personID string) []*domain.FinancialInstrument {
	idxs := s.instrsByOwner[personID]
	out := make([]*domain.FinancialInstrument, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, &s.Instruments[i])
	}
	return out
}

// InstrumentByID returns the instrument with the given id, or nil.
func (s *Snapshot) InstrumentByID(id string) *domain.FinancialInstrument {
	if i, ok := s.instrsByID[id]; ok {
		return &s.Instruments[i]
	}
	return nil
}

// RawRowsForMonth returns the raw import rows bucketed under a month key
// such as "janeiro-2025".
func (s *Snapshot) RawRowsForMonth(key string) []*domain.RawImportRow {
	idxs := s.rawByMonth[key]
	out := make([]*domain.RawImportRow, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, &s.RawRows[i])
	}
	return out
}

// PeriodFor returns the accounting period containing a date, or nil if the
// snapshot holds no period for that month.
func (s *Snapshot) PeriodFor(t time.Time) *domain.AccountingPeriod {
	key := fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
	if i, ok := s.periodsByMonth[key]; ok {
		return &s.Periods[i]
	}
	return nil
}
