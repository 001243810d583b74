// Package validators ships the five audit modules: registry, receivables,
// ledger, fiscal, and reconciliation. Each is a pure function over the
// snapshot; rule metadata and thresholds come from the catalog.
package validators

import (
	"math"
	"time"

	"github.com/contaudit/contaudit/internal/audit"
	"github.com/contaudit/contaudit/internal/audit/catalog"
	"github.com/contaudit/contaudit/internal/domain"
)

// DefaultRegistry returns the registry with all five modules wired to the
// given thresholds, in canonical run order.
func DefaultRegistry(th catalog.Thresholds) *audit.Registry {
	reg := audit.NewRegistry()
	for _, v := range []audit.Validator{
		NewRegistryValidator(th),
		NewReceivablesValidator(th),
		NewLedgerValidator(th),
		NewFiscalValidator(th),
		NewReconciliationValidator(th),
	} {
		// Names are compile-time constants; duplicates cannot occur here.
		_ = reg.Register(v)
	}
	return reg
}

// newFinding builds a finding pre-filled from the rule catalog.
func newFinding(ruleID, message string) domain.Finding {
	r := catalog.Lookup(ruleID)
	return domain.Finding{
		RuleID:   r.ID,
		RuleName: r.Name,
		Severity: r.Severity,
		Category: r.Category,
		Message:  message,
	}
}

// exceedsTolerance compares two monetary amounts at cent precision.
// A difference of exactly the tolerance is within bounds; tolerance plus
// one cent is not. Comparing in integer cents avoids float artifacts at
// the boundary.
func exceedsTolerance(a, b, tolerance float64) bool {
	diff := cents(a) - cents(b)
	if diff < 0 {
		diff = -diff
	}
	return diff > cents(tolerance)
}

// cents rounds a currency amount to integer cents.
func cents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// daysApart returns the absolute whole-day distance between two dates.
func daysApart(a, b time.Time) int {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}

// isProjectNature classifies revenue natures tied to the entity's social
// projects; everything else counts as operating revenue for the
// revenue-split advisory.
func isProjectNature(n domain.Nature) bool {
	switch n {
	case domain.NatureContribution, domain.NatureDonation, domain.NatureAgreement, domain.NatureEvent:
		return true
	default:
		return false
	}
}
