package validators

import (
	"fmt"
	"strings"

	"github.com/contaudit/contaudit/internal/audit"
	"github.com/contaudit/contaudit/internal/audit/catalog"
	"github.com/contaudit/contaudit/internal/domain"
)

// LedgerValidator audits double-entry integrity: balanced totals, postings
// into closed periods, narrative quality, and stale open periods.
type LedgerValidator struct {
	th catalog.Thresholds
}

// NewLedgerValidator creates the ledger module.
func NewLedgerValidator(th catalog.Thresholds) *LedgerValidator {
	return &LedgerValidator{th: th}
}

// Name implements audit.Validator.
func (v *LedgerValidator) Name() string { return catalog.ModuleLedger }

// Validate implements audit.Validator.
func (v *LedgerValidator) Validate(snap *audit.Snapshot) []domain.Finding {
	var out []domain.Finding
	out = append(out, v.unbalancedEntries(snap)...)
	out = append(out, v.closedPeriodPostings(snap)...)
	out = append(out, v.shortNarratives(snap)...)
	out = append(out, v.staleOpenPeriods(snap)...)
	return out
}

// unbalancedEntries enforces the double-entry law: total debit equals total
// credit within the monetary tolerance. This is THE central invariant.
func (v *LedgerValidator) unbalancedEntries(snap *audit.Snapshot) []domain.Finding {
	var out []domain.Finding

	for i := range snap.Entries {
		e := &snap.Entries[i]
		if !exceedsTolerance(e.TotalDebit, e.TotalCredit, v.th.MonetaryTolerance) {
			continue
		}
		f := newFinding("CTB-001", fmt.Sprintf("entry %d: debit %.2f does not equal credit %.2f",
			e.Number, e.TotalDebit, e.TotalCredit))
		f.SubjectType = "ledger_entry"
		f.SubjectID = e.ID
		f.Observed = domain.NumberValue(e.TotalDebit)
		f.Expected = domain.NumberValue(e.TotalCredit)
		f.Suggestion = "correct the entry's lines so debits and credits balance"
		out = append(out, f)
	}

	return out
}

// closedPeriodPostings re-verifies, as a safety net, that no entry sits
// inside a closed period. Closing is enforced upstream; a hit here means
// the books were altered after closing.
func (v *LedgerValidator) closedPeriodPostings(snap *audit.Snapshot) []domain.Finding {
	var out []domain.Finding

	for i := range snap.Entries {
		e := &snap.Entries[i]
		p := snap.PeriodFor(e.CompetenceDate)
		if p == nil || p.Status != domain.PeriodClosed {
			continue
		}
		f := newFinding("CTB-002", fmt.Sprintf("entry %d posted into closed period %s", e.Number, p.Label()))
		f.SubjectType = "ledger_entry"
		f.SubjectID = e.ID
		f.Observed = domain.DateValue(e.CompetenceDate)
		f.Expected = domain.StringValue(p.Label())
		f.Suggestion = "reopen the period formally or move the entry to an open period"
		out = append(out, f)
	}

	return out
}

// shortNarratives flags entries whose narrative is absent or below the
// minimum length, which makes later audits impossible to follow.
func (v *LedgerValidator) shortNarratives(snap *audit.Snapshot) []domain.Finding {
	var out []domain.Finding

	for i := range snap.Entries {
		e := &snap.Entries[i]
		narrative := strings.TrimSpace(e.Narrative)
		if len(narrative) >= v.th.NarrativeMinLength {
			continue
		}
		f := newFinding("CTB-003", fmt.Sprintf("entry %d narrative has %d characters (minimum %d)",
			e.Number, len(narrative), v.th.NarrativeMinLength))
		f.SubjectType = "ledger_entry"
		f.SubjectID = e.ID
		f.Observed = domain.CountValue(len(narrative))
		f.Expected = domain.CountValue(v.th.NarrativeMinLength)
		f.Suggestion = "describe the economic fact in the narrative"
		out = append(out, f)
	}

	return out
}

// staleOpenPeriods flags periods still open two or more months in the past.
// The immediately preceding month gets a grace window because closing
// routinely lags a few weeks.
func (v *LedgerValidator) staleOpenPeriods(snap *audit.Snapshot) []domain.Finding {
	var out []domain.Finding

	nowIdx := snap.Now.Year()*12 + int(snap.Now.Month()) - 1
	for i := range snap.Periods {
		p := &snap.Periods[i]
		if p.Status != domain.PeriodOpen {
			continue
		}
		periodIdx := p.Year*12 + int(p.Month) - 1
		if nowIdx-periodIdx < 2 {
			continue
		}
		f := newFinding("CTB-004", fmt.Sprintf("period %s is still open %d months later", p.Label(), nowIdx-periodIdx))
		f.SubjectType = "accounting_period"
		f.SubjectID = p.ID
		f.Observed = domain.StringValue(string(p.Status))
		f.Expected = domain.StringValue(string(domain.PeriodClosed))
		f.Suggestion = "review and close the period"
		out = append(out, f)
	}

	return out
}
