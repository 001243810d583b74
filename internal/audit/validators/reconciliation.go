package validators

import (
	"fmt"

	"github.com/contaudit/contaudit/internal/audit"
	"github.com/contaudit/contaudit/internal/audit/catalog"
	"github.com/contaudit/contaudit/internal/domain"
)

// ReconciliationValidator audits the bank statement against the books:
// unreconciled lines, amount mismatches on reconciled lines, and
// settlement date drift.
type ReconciliationValidator struct {
	th catalog.Thresholds
}

// NewReconciliationValidator creates the reconciliation module.
func NewReconciliationValidator(th catalog.Thresholds) *ReconciliationValidator {
	return &ReconciliationValidator{th: th}
}

// Name implements audit.Validator.
func (v *ReconciliationValidator) Name() string { return catalog.ModuleReconciliation }

// Validate implements audit.Validator.
func (v *ReconciliationValidator) Validate(snap *audit.Snapshot) []domain.Finding {
	var out []domain.Finding
	out = append(out, v.unreconciledLines(snap)...)
	out = append(out, v.amountMismatches(snap)...)
	out = append(out, v.dateDrift(snap)...)
	return out
}

// unreconciledLines reports pending statement lines. Per-line warnings are
// capped at the sample cap; the remainder collapses into one info finding
// so huge backlogs do not drown the report. The cap is a reporting policy,
// not a detection limit.
func (v *ReconciliationValidator) unreconciledLines(snap *audit.Snapshot) []domain.Finding {
	var out []domain.Finding
	emitted := 0
	total := 0

	for i := range snap.BankLines {
		l := &snap.BankLines[i]
		if l.Reconciled || l.Status != "pending" {
			continue
		}
		total++
		if emitted >= v.th.UnreconciledSampleCap {
			continue
		}
		emitted++

		f := newFinding("CON-001", fmt.Sprintf("statement line %s of %.2f on %s is not reconciled",
			l.ID, l.Amount, l.MovementDate.Format("2006-01-02")))
		f.SubjectType = "bank_line"
		f.SubjectID = l.ID
		f.Observed = domain.NumberValue(l.Amount)
		f.Suggestion = "link the line to its instrument or mark it ignored"
		out = append(out, f)
	}

	if remaining := total - emitted; remaining > 0 {
		f := newFinding("CON-001", fmt.Sprintf("%d more unreconciled lines not listed individually", remaining))
		f.Severity = domain.SeverityInfo
		f.Observed = domain.CountValue(remaining)
		f.Suggestion = "work through the reconciliation backlog"
		out = append(out, f)
	}

	return out
}

// amountMismatches compares each reconciled line against its linked
// instrument's net amount.
func (v *ReconciliationValidator) amountMismatches(snap *audit.Snapshot) []domain.Finding {
	var out []domain.Finding

	for i := range snap.BankLines {
		l := &snap.BankLines[i]
		if !l.Reconciled || l.LinkedInstrumentID == "" {
			continue
		}
		fi := snap.InstrumentByID(l.LinkedInstrumentID)
		if fi == nil {
			continue
		}
		if !exceedsTolerance(l.Amount, fi.NetAmount, v.th.MonetaryTolerance) {
			continue
		}
		f := newFinding("CON-002", fmt.Sprintf("line %s amount %.2f differs from instrument %s amount %.2f",
			l.ID, l.Amount, fi.ID, fi.NetAmount))
		f.SubjectType = "bank_line"
		f.SubjectID = l.ID
		f.Observed = domain.NumberValue(l.Amount)
		f.Expected = domain.NumberValue(fi.NetAmount)
		f.Suggestion = "review the link; the amounts should match to the cent"
		out = append(out, f)
	}

	return out
}

// dateDrift compares the statement movement date with the nearest
// settlement payment date of the linked instrument. Drift beyond the
// tolerance but within MaxSettlementLagDays is a warning; beyond that it
// is a different class of problem and intentionally not flagged here.
func (v *ReconciliationValidator) dateDrift(snap *audit.Snapshot) []domain.Finding {
	var out []domain.Finding

	for i := range snap.BankLines {
		l := &snap.BankLines[i]
		if !l.Reconciled || l.LinkedInstrumentID == "" {
			continue
		}
		fi := snap.InstrumentByID(l.LinkedInstrumentID)
		if fi == nil || len(fi.Settlements) == 0 {
			continue
		}

		nearest := -1
		for _, st := range fi.Settlements {
			d := daysApart(l.MovementDate, st.PaymentDate)
			if nearest < 0 || d < nearest {
				nearest = d
			}
		}

		if nearest <= v.th.DateToleranceDays || nearest > v.th.MaxSettlementLagDays {
			continue
		}
		f := newFinding("CON-003", fmt.Sprintf("line %s moved %d days away from the settlement of instrument %s",
			l.ID, nearest, fi.ID))
		f.SubjectType = "bank_line"
		f.SubjectID = l.ID
		f.Observed = domain.CountValue(nearest)
		f.Expected = domain.CountValue(v.th.DateToleranceDays)
		f.Suggestion = "confirm the settlement payment date"
		out = append(out, f)
	}

	return out
}
