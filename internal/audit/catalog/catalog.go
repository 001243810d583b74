// Package catalog is the single source of truth for audit rules and the
// numeric thresholds the validators read. Validators never hardcode rule
// metadata or tolerances; they look everything up here.
package catalog

import (
	"sort"

	"github.com/contaudit/contaudit/internal/domain"
)

// ─── Modules ────────────────────────────────────────────────────────────────

const (
	ModuleRegistry       = "registry"
	ModuleReceivables    = "receivables"
	ModuleLedger         = "ledger"
	ModuleFiscal         = "fiscal"
	ModuleReconciliation = "reconciliation"

	// ModuleEngine owns synthetic findings emitted by the engine itself
	// (validator execution failures in partial-results mode). It is not
	// selectable as a run module.
	ModuleEngine = "engine"
)

// ─── Rule Table ─────────────────────────────────────────────────────────────

// Rule describes one audit rule: canonical name, default severity, and the
// category/module it reports under.
type Rule struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Severity domain.Severity `json:"severity"`
	Category string          `json:"category"`
	Module   string          `json:"module"`
}

// Rules is the versioned rule table, ordered by module then id. Emission
// order inside validators follows this order for reproducible reports.
var Rules = []Rule{
	// Registry (people and documents)
	{ID: "CAD-001", Name: "possible duplicate person", Severity: domain.SeverityWarning, Category: "registry", Module: ModuleRegistry},
	{ID: "CAD-002", Name: "invalid tax document", Severity: domain.SeverityError, Category: "registry", Module: ModuleRegistry},
	{ID: "CAD-003", Name: "document shared by multiple persons", Severity: domain.SeverityError, Category: "registry", Module: ModuleRegistry},
	{ID: "CAD-004", Name: "active member without contribution", Severity: domain.SeverityWarning, Category: "registry", Module: ModuleRegistry},
	{ID: "CAD-005", Name: "active person without contact", Severity: domain.SeverityInfo, Category: "registry", Module: ModuleRegistry},

	// Receivables (contributions/donations vs. legacy raw import)
	{ID: "REC-001", Name: "receivable without counterparty", Severity: domain.SeverityWarning, Category: "billing", Module: ModuleReceivables},
	{ID: "REC-002", Name: "duplicate receivables", Severity: domain.SeverityError, Category: "billing", Module: ModuleReceivables},
	{ID: "REC-003", Name: "settled instrument without settlement record", Severity: domain.SeverityWarning, Category: "billing", Module: ModuleReceivables},
	{ID: "REC-004", Name: "legacy import person not found", Severity: domain.SeverityWarning, Category: "billing", Module: ModuleReceivables},
	{ID: "REC-005", Name: "legacy import without matching receivable", Severity: domain.SeverityError, Category: "billing", Module: ModuleReceivables},
	{ID: "REC-006", Name: "internal transfer recorded as instrument", Severity: domain.SeverityError, Category: "billing", Module: ModuleReceivables},

	// Ledger (double-entry integrity)
	{ID: "CTB-001", Name: "unbalanced ledger entry", Severity: domain.SeverityError, Category: "accounting", Module: ModuleLedger},
	{ID: "CTB-002", Name: "posting into closed period", Severity: domain.SeverityError, Category: "accounting", Module: ModuleLedger},
	{ID: "CTB-003", Name: "missing or short narrative", Severity: domain.SeverityWarning, Category: "accounting", Module: ModuleLedger},
	{ID: "CTB-004", Name: "stale open period", Severity: domain.SeverityWarning, Category: "accounting", Module: ModuleLedger},

	// Fiscal (compliance heuristics)
	{ID: "FIS-001", Name: "project revenue share below target", Severity: domain.SeverityInfo, Category: "compliance", Module: ModuleFiscal},
	{ID: "FIS-002", Name: "competence precedes issue beyond grace", Severity: domain.SeverityError, Category: "compliance", Module: ModuleFiscal},
	{ID: "FIS-003", Name: "undocumented payable", Severity: domain.SeverityWarning, Category: "compliance", Module: ModuleFiscal},
	{ID: "FIS-004", Name: "unclassified revenue", Severity: domain.SeverityWarning, Category: "compliance", Module: ModuleFiscal},

	// Bank reconciliation
	{ID: "CON-001", Name: "unreconciled statement line", Severity: domain.SeverityWarning, Category: "reconciliation", Module: ModuleReconciliation},
	{ID: "CON-002", Name: "reconciled amount mismatch", Severity: domain.SeverityError, Category: "reconciliation", Module: ModuleReconciliation},
	{ID: "CON-003", Name: "reconciled settlement date drift", Severity: domain.SeverityWarning, Category: "reconciliation", Module: ModuleReconciliation},

	// Engine
	{ID: "ENG-001", Name: "validator execution failure", Severity: domain.SeverityError, Category: "engine", Module: ModuleEngine},
}

var rulesByID = func() map[string]*Rule {
	m := make(map[string]*Rule, len(Rules))
	for i := range Rules {
		m[Rules[i].ID] = &Rules[i]
	}
	return m
}()

// Lookup returns the rule with the given id, or nil if unknown.
func Lookup(id string) *Rule {
	return rulesByID[id]
}

// ByModule returns all rules belonging to a module, in table order.
func ByModule(module string) []Rule {
	var out []Rule
	for _, r := range Rules {
		if r.Module == module {
			out = append(out, r)
		}
	}
	return out
}

// ByCategory returns all rules reporting under a category, in table order.
func ByCategory(category string) []Rule {
	var out []Rule
	for _, r := range Rules {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// Modules returns the selectable validator modules in canonical run order.
func Modules() []string {
	return []string{ModuleRegistry, ModuleReceivables, ModuleLedger, ModuleFiscal, ModuleReconciliation}
}

// Categories returns the distinct rule categories, sorted.
func Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range Rules {
		if !seen[r.Category] {
			seen[r.Category] = true
			out = append(out, r.Category)
		}
	}
	sort.Strings(out)
	return out
}
