package validators

import (
	"context"
	"testing"
	"time"

	"github.com/contaudit/contaudit/internal/audit"
	"github.com/contaudit/contaudit/internal/audit/catalog"
	"github.com/contaudit/contaudit/internal/domain"
)

// fixture is an in-memory DataSource for validator tests.
type fixture struct {
	persons     []domain.Person
	instruments []domain.FinancialInstrument
	entries     []domain.LedgerEntry
	periods     []domain.AccountingPeriod
	bankLines   []domain.BankStatementLine
	rawRows     []domain.RawImportRow
}

func (f *fixture) Persons(context.Context) ([]domain.Person, error) { return f.persons, nil }
func (f *fixture) Instruments(context.Context) ([]domain.FinancialInstrument, error) {
	return f.instruments, nil
}
func (f *fixture) LedgerEntries(context.Context) ([]domain.LedgerEntry, error) {
	return f.entries, nil
}
func (f *fixture) Periods(context.Context) ([]domain.AccountingPeriod, error) {
	return f.periods, nil
}
func (f *fixture) BankLines(context.Context) ([]domain.BankStatementLine, error) {
	return f.bankLines, nil
}
func (f *fixture) RawRows(context.Context) ([]domain.RawImportRow, error) {
	return f.rawRows, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// openPeriod keeps snapshot construction happy for fixtures that do not
// care about periods.
func openPeriod(y int, m time.Month) domain.AccountingPeriod {
	return domain.AccountingPeriod{ID: "per-test", Year: y, Month: m, Status: domain.PeriodOpen}
}

// snap builds a snapshot over the fixture for March 2025 with a fixed clock.
func snap(t *testing.T, f *fixture) *audit.Snapshot {
	t.Helper()
	if len(f.periods) == 0 {
		f.periods = []domain.AccountingPeriod{openPeriod(2025, time.March)}
	}
	s, err := audit.BuildSnapshot(context.Background(), f, audit.Scope{Year: 2025, Month: time.March}, day(2025, time.April, 10))
	if err != nil {
		t.Fatalf("BuildSnapshot() error: %v", err)
	}
	return s
}

// countRule tallies findings for one rule id.
func countRule(findings []domain.Finding, ruleID string) int {
	n := 0
	for _, f := range findings {
		if f.RuleID == ruleID {
			n++
		}
	}
	return n
}

// firstRule returns the first finding for a rule id, or nil.
func firstRule(findings []domain.Finding, ruleID string) *domain.Finding {
	for i := range findings {
		if findings[i].RuleID == ruleID {
			return &findings[i]
		}
	}
	return nil
}

func defaultThresholds() catalog.Thresholds { return catalog.DefaultThresholds() }

func amount(v float64) *float64 { return &v }
