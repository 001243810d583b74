package validators

import (
	"fmt"
	"testing"
	"time"

	"github.com/contaudit/contaudit/internal/domain"
)

// ─── Unreconciled Lines ─────────────────────────────────────────────────────

func TestReconciliation_UnreconciledLines(t *testing.T) {
	f := &fixture{bankLines: []domain.BankStatementLine{
		{ID: "b1", MovementDate: day(2025, time.March, 3), Amount: 120, Status: "pending"},
		{ID: "b2", MovementDate: day(2025, time.March, 4), Amount: 80, Status: "ignored"},
		{ID: "b3", MovementDate: day(2025, time.March, 5), Amount: 50, Status: "pending", Reconciled: true},
	}}

	findings := NewReconciliationValidator(defaultThresholds()).Validate(snap(t, f))

	// Ignored and already-reconciled lines are left alone.
	if countRule(findings, "CON-001") != 1 {
		t.Fatalf("CON-001 count = %d, want 1", countRule(findings, "CON-001"))
	}
	if firstRule(findings, "CON-001").SubjectID != "b1" {
		t.Errorf("SubjectID = %q, want b1", firstRule(findings, "CON-001").SubjectID)
	}
}

func TestReconciliation_SampleCapCollapsesBacklog(t *testing.T) {
	f := &fixture{}
	for i := 0; i < 75; i++ {
		f.bankLines = append(f.bankLines, domain.BankStatementLine{
			ID:           fmt.Sprintf("b%03d", i),
			MovementDate: day(2025, time.March, 1+i%28),
			Amount:       float64(10 + i),
			Status:       "pending",
		})
	}

	findings := NewReconciliationValidator(defaultThresholds()).Validate(snap(t, f))

	warnings, infos := 0, 0
	var summary *domain.Finding
	for i := range findings {
		if findings[i].RuleID != "CON-001" {
			continue
		}
		switch findings[i].Severity {
		case domain.SeverityWarning:
			warnings++
		case domain.SeverityInfo:
			infos++
			summary = &findings[i]
		}
	}

	// 75 pending lines with a cap of 50: fifty per-line warnings plus one
	// info finding carrying the remainder.
	if warnings != 50 {
		t.Errorf("per-line warnings = %d, want 50", warnings)
	}
	if infos != 1 {
		t.Fatalf("summary findings = %d, want 1", infos)
	}
	if summary.Observed.String() != "25" {
		t.Errorf("summary remainder = %s, want 25", summary.Observed)
	}
}

// ─── Amount Mismatches ──────────────────────────────────────────────────────

func TestReconciliation_AmountMismatch(t *testing.T) {
	f := &fixture{
		instruments: []domain.FinancialInstrument{
			{ID: "t1", Direction: domain.Receivable, Nature: domain.NatureDonation,
				CompetenceDate: day(2025, time.March, 5), NetAmount: 100.00},
		},
		bankLines: []domain.BankStatementLine{
			{ID: "b1", MovementDate: day(2025, time.March, 6), Amount: 100.02,
				Reconciled: true, LinkedInstrumentID: "t1"},
		},
	}

	findings := NewReconciliationValidator(defaultThresholds()).Validate(snap(t, f))

	if countRule(findings, "CON-002") != 1 {
		t.Fatalf("CON-002 count = %d, want 1", countRule(findings, "CON-002"))
	}
	mismatch := firstRule(findings, "CON-002")
	if mismatch.Observed.String() != "100.02" || mismatch.Expected.String() != "100.00" {
		t.Errorf("Observed/Expected = %s/%s, want 100.02/100.00", mismatch.Observed, mismatch.Expected)
	}
}

func TestReconciliation_AmountToleranceBoundary(t *testing.T) {
	base := func(lineAmount float64) *fixture {
		return &fixture{
			instruments: []domain.FinancialInstrument{
				{ID: "t1", Direction: domain.Receivable, Nature: domain.NatureDonation,
					CompetenceDate: day(2025, time.March, 5), NetAmount: 100.00},
			},
			bankLines: []domain.BankStatementLine{
				{ID: "b1", MovementDate: day(2025, time.March, 6), Amount: lineAmount,
					Reconciled: true, LinkedInstrumentID: "t1"},
			},
		}
	}

	v := NewReconciliationValidator(defaultThresholds())

	if n := countRule(v.Validate(snap(t, base(100.01))), "CON-002"); n != 0 {
		t.Errorf("difference == tolerance flagged, want unflagged")
	}
	if n := countRule(v.Validate(snap(t, base(100.02))), "CON-002"); n != 1 {
		t.Errorf("difference > tolerance not flagged")
	}
}

// ─── Date Drift ─────────────────────────────────────────────────────────────

func TestReconciliation_DateDrift(t *testing.T) {
	settle := func(d time.Time) []domain.Settlement {
		return []domain.Settlement{{PaymentDate: d, FinancialAccountID: "acc1"}}
	}
	f := &fixture{
		instruments: []domain.FinancialInstrument{
			// Two days of drift: within tolerance.
			{ID: "t1", Direction: domain.Receivable, Nature: domain.NatureDonation,
				CompetenceDate: day(2025, time.March, 5), NetAmount: 100,
				Settlements: settle(day(2025, time.March, 12))},
			// Ten days: drift worth flagging.
			{ID: "t2", Direction: domain.Receivable, Nature: domain.NatureDonation,
				CompetenceDate: day(2025, time.March, 5), NetAmount: 100,
				Settlements: settle(day(2025, time.March, 20))},
			// Sixty-six days: beyond the lag window, another rule's territory.
			{ID: "t3", Direction: domain.Receivable, Nature: domain.NatureDonation,
				CompetenceDate: day(2025, time.March, 5), NetAmount: 100,
				Settlements: settle(day(2025, time.May, 15))},
		},
		bankLines: []domain.BankStatementLine{
			{ID: "b1", MovementDate: day(2025, time.March, 10), Amount: 100, Reconciled: true, LinkedInstrumentID: "t1"},
			{ID: "b2", MovementDate: day(2025, time.March, 10), Amount: 100, Reconciled: true, LinkedInstrumentID: "t2"},
			{ID: "b3", MovementDate: day(2025, time.March, 10), Amount: 100, Reconciled: true, LinkedInstrumentID: "t3"},
		},
	}

	findings := NewReconciliationValidator(defaultThresholds()).Validate(snap(t, f))

	if countRule(findings, "CON-003") != 1 {
		t.Fatalf("CON-003 count = %d, want 1", countRule(findings, "CON-003"))
	}
	drift := firstRule(findings, "CON-003")
	if drift.SubjectID != "b2" {
		t.Errorf("SubjectID = %q, want b2", drift.SubjectID)
	}
	if drift.Observed.String() != "10" {
		t.Errorf("Observed drift = %s, want 10", drift.Observed)
	}
}

func TestReconciliation_DateDriftUsesNearestSettlement(t *testing.T) {
	f := &fixture{
		instruments: []domain.FinancialInstrument{
			{ID: "t1", Direction: domain.Receivable, Nature: domain.NatureDonation,
				CompetenceDate: day(2025, time.March, 5), NetAmount: 100,
				Settlements: []domain.Settlement{
					{PaymentDate: day(2025, time.March, 25), FinancialAccountID: "acc1"},
					{PaymentDate: day(2025, time.March, 11), FinancialAccountID: "acc1"},
				}},
		},
		bankLines: []domain.BankStatementLine{
			{ID: "b1", MovementDate: day(2025, time.March, 10), Amount: 100, Reconciled: true, LinkedInstrumentID: "t1"},
		},
	}

	findings := NewReconciliationValidator(defaultThresholds()).Validate(snap(t, f))

	// The March 11 settlement is one day away; the distant one is ignored.
	if countRule(findings, "CON-003") != 0 {
		t.Errorf("CON-003 count = %d, want 0", countRule(findings, "CON-003"))
	}
}
