package validators

import (
	"fmt"
	"sort"
	"time"

	"github.com/contaudit/contaudit/internal/audit"
	"github.com/contaudit/contaudit/internal/audit/catalog"
	"github.com/contaudit/contaudit/internal/domain"
)

// FiscalValidator applies compliance heuristics: the project/operating
// revenue split advisory, competence-vs-issue ordering, undocumented
// payables, and unclassified revenue.
type FiscalValidator struct {
	th catalog.Thresholds
}

// NewFiscalValidator creates the fiscal module.
func NewFiscalValidator(th catalog.Thresholds) *FiscalValidator {
	return &FiscalValidator{th: th}
}

// Name implements audit.Validator.
func (v *FiscalValidator) Name() string { return catalog.ModuleFiscal }

// Validate implements audit.Validator.
func (v *FiscalValidator) Validate(snap *audit.Snapshot) []domain.Finding {
	var out []domain.Finding
	out = append(out, v.revenueSplit(snap)...)
	out = append(out, v.competenceBeforeIssue(snap)...)
	out = append(out, v.undocumentedPayables(snap)...)
	out = append(out, v.unclassifiedRevenue(snap)...)
	return out
}

// revenueSplit checks each month's project-revenue share against the
// configured floor. Advisory only (info severity): whether a month's mix
// is acceptable is a legal judgment the engine cannot make.
func (v *FiscalValidator) revenueSplit(snap *audit.Snapshot) []domain.Finding {
	var out []domain.Finding

	type bucket struct {
		total   float64
		project float64
	}
	buckets := make(map[string]*bucket)

	for i := range snap.Instruments {
		fi := &snap.Instruments[i]
		if fi.Direction != domain.Receivable {
			continue
		}
		key := fmt.Sprintf("%04d-%02d", fi.CompetenceDate.Year(), int(fi.CompetenceDate.Month()))
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		b.total += fi.NetAmount
		if isProjectNature(fi.Nature) {
			b.project += fi.NetAmount
		}
	}

	months := make([]string, 0, len(buckets))
	for k := range buckets {
		months = append(months, k)
	}
	sort.Strings(months)

	for _, month := range months {
		b := buckets[month]
		if b.total < v.th.MinMonthlyRevenue {
			continue
		}
		pct := b.project / b.total * 100
		if pct >= v.th.MinProjectRevenuePct {
			continue
		}
		f := newFinding("FIS-001", fmt.Sprintf("%s: project revenue is %.1f%% of %.2f (floor %.0f%%, policy target 70%%)",
			month, pct, b.total, v.th.MinProjectRevenuePct))
		f.SubjectType = "month"
		f.SubjectID = month
		f.Observed = domain.NumberValue(pct)
		f.Expected = domain.NumberValue(v.th.MinProjectRevenuePct)
		f.Suggestion = "review the month's revenue classification with the accountant"
		out = append(out, f)
	}

	return out
}

// competenceBeforeIssue flags instruments whose competence date precedes
// the issue date by more than the grace window.
func (v *FiscalValidator) competenceBeforeIssue(snap *audit.Snapshot) []domain.Finding {
	var out []domain.Finding
	grace := time.Duration(v.th.CompetenceGraceDays) * 24 * time.Hour

	for i := range snap.Instruments {
		fi := &snap.Instruments[i]
		if fi.IssueDate.IsZero() || fi.CompetenceDate.IsZero() {
			continue
		}
		if fi.IssueDate.Sub(fi.CompetenceDate) <= grace {
			continue
		}
		f := newFinding("FIS-002", fmt.Sprintf("instrument %s: competence %s precedes issue %s by more than %d days",
			fi.ID, fi.CompetenceDate.Format("2006-01-02"), fi.IssueDate.Format("2006-01-02"), v.th.CompetenceGraceDays))
		f.SubjectType = "instrument"
		f.SubjectID = fi.ID
		f.Observed = domain.DateValue(fi.CompetenceDate)
		f.Expected = domain.DateValue(fi.IssueDate)
		f.Suggestion = "verify the competence date; late recognition distorts the period result"
		out = append(out, f)
	}

	return out
}

// undocumentedPayables flags outgoing amounts above the floor with neither
// a settlement account nor a source-system provenance tag.
func (v *FiscalValidator) undocumentedPayables(snap *audit.Snapshot) []domain.Finding {
	var out []domain.Finding

	for i := range snap.Instruments {
		fi := &snap.Instruments[i]
		if fi.Direction != domain.Payable || fi.NetAmount <= v.th.MinUndocumentedAmount {
			continue
		}
		if fi.SourceSystem != "" {
			continue
		}
		documented := false
		for _, st := range fi.Settlements {
			if st.FinancialAccountID != "" {
				documented = true
				break
			}
		}
		if documented {
			continue
		}
		f := newFinding("FIS-003", fmt.Sprintf("payable %s of %.2f has no settlement account and no provenance", fi.ID, fi.NetAmount))
		f.SubjectType = "instrument"
		f.SubjectID = fi.ID
		f.Observed = domain.NumberValue(fi.NetAmount)
		f.Suggestion = "attach the paying account or the originating document"
		out = append(out, f)
	}

	return out
}

// unclassifiedRevenue flags receivables of nature "other" above the floor:
// material revenue must carry a real category.
func (v *FiscalValidator) unclassifiedRevenue(snap *audit.Snapshot) []domain.Finding {
	var out []domain.Finding

	for i := range snap.Instruments {
		fi := &snap.Instruments[i]
		if fi.Direction != domain.Receivable || fi.Nature != domain.NatureOther {
			continue
		}
		if fi.NetAmount <= v.th.MinUnclassifiedAmount {
			continue
		}
		f := newFinding("FIS-004", fmt.Sprintf("receivable %s of %.2f is classified as \"other\"", fi.ID, fi.NetAmount))
		f.SubjectType = "instrument"
		f.SubjectID = fi.ID
		f.Observed = domain.NumberValue(fi.NetAmount)
		f.Suggestion = "assign a specific revenue nature"
		out = append(out, f)
	}

	return out
}
