package validators

import (
	"fmt"
	"strings"
	"time"

	"github.com/contaudit/contaudit/internal/audit"
	"github.com/contaudit/contaudit/internal/audit/catalog"
	"github.com/contaudit/contaudit/internal/domain"
)

// ReceivablesValidator audits contribution/donation receivables and
// cross-checks them against the frozen legacy import rows.
type ReceivablesValidator struct {
	th catalog.Thresholds
}

// NewReceivablesValidator creates the receivables module.
func NewReceivablesValidator(th catalog.Thresholds) *ReceivablesValidator {
	return &ReceivablesValidator{th: th}
}

// Name implements audit.Validator.
func (v *ReceivablesValidator) Name() string { return catalog.ModuleReceivables }

// Validate implements audit.Validator.
func (v *ReceivablesValidator) Validate(snap *audit.Snapshot) []domain.Finding {
	var out []domain.Finding
	out = append(out, v.missingCounterparties(snap)...)
	out = append(out, v.duplicateInstruments(snap)...)
	out = append(out, v.settledWithoutSettlement(snap)...)
	out = append(out, v.crossCheckRawImport(snap)...)
	out = append(out, v.internalTransfers(snap)...)
	return out
}

// missingCounterparties flags contribution/donation receivables with no
// linked person: anonymous income cannot be receipted.
func (v *ReceivablesValidator) missingCounterparties(snap *audit.Snapshot) []domain.Finding {
	var out []domain.Finding

	for i := range snap.Instruments {
		fi := &snap.Instruments[i]
		if fi.Direction != domain.Receivable || fi.CounterpartyID != "" {
			continue
		}
		if fi.Nature != domain.NatureContribution && fi.Nature != domain.NatureDonation {
			continue
		}
		f := newFinding("REC-001", fmt.Sprintf("%s receivable %s of %.2f has no counterparty", fi.Nature, fi.ID, fi.NetAmount))
		f.SubjectType = "instrument"
		f.SubjectID = fi.ID
		f.Observed = domain.NumberValue(fi.NetAmount)
		f.Suggestion = "link the receivable to the donor's registry record"
		out = append(out, f)
	}

	return out
}

// duplicateInstruments groups receivables by (counterparty, competence,
// amount in cents); any group larger than one is a double entry.
func (v *ReceivablesValidator) duplicateInstruments(snap *audit.Snapshot) []domain.Finding {
	var out []domain.Finding

	groups := make(map[string][]*domain.FinancialInstrument)
	var keyOrder []string

	for i := range snap.Instruments {
		fi := &snap.Instruments[i]
		if fi.Direction != domain.Receivable || fi.CounterpartyID == "" {
			continue
		}
		key := fmt.Sprintf("%s|%s|%d", fi.CounterpartyID, fi.CompetenceDate.Format("2006-01-02"), cents(fi.NetAmount))
		if _, seen := groups[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		groups[key] = append(groups[key], fi)
	}

	for _, key := range keyOrder {
		group := groups[key]
		if len(group) < 2 {
			continue
		}
		first := group[0]
		owner := first.CounterpartyID
		if p := snap.PersonByID(owner); p != nil {
			owner = p.Name
		}
		f := newFinding("REC-002", fmt.Sprintf("%d identical receivables for %q on %s (%.2f each)",
			len(group), owner, first.CompetenceDate.Format("2006-01-02"), first.NetAmount))
		f.SubjectType = "instrument"
		f.SubjectID = first.ID
		f.Observed = domain.CountValue(len(group))
		f.Expected = domain.CountValue(1)
		f.Suggestion = "cancel the duplicated receivables, keeping one"
		out = append(out, f)
	}

	return out
}

// settledWithoutSettlement flags instruments marked settled that carry no
// settlement record, so the cash trail is missing.
func (v *ReceivablesValidator) settledWithoutSettlement(snap *audit.Snapshot) []domain.Finding {
	var out []domain.Finding

	for i := range snap.Instruments {
		fi := &snap.Instruments[i]
		if fi.Status != domain.StatusSettled || len(fi.Settlements) > 0 {
			continue
		}
		f := newFinding("REC-003", fmt.Sprintf("instrument %s is marked settled but has no settlement record", fi.ID))
		f.SubjectType = "instrument"
		f.SubjectID = fi.ID
		f.Suggestion = "register the payment date and financial account, or revert the status"
		out = append(out, f)
	}

	return out
}

// crossCheckRawImport verifies each legacy contribution row against the
// current records: resolve the counterparty name (exact normalized match,
// then first/last-token fallback), then look for a receivable on the row's
// date within monetary tolerance, retrying by amount alone before declaring
// a true mismatch.
func (v *ReceivablesValidator) crossCheckRawImport(snap *audit.Snapshot) []domain.Finding {
	var out []domain.Finding

	for i := range snap.RawRows {
		row := &snap.RawRows[i]
		if row.Type != string(domain.NatureContribution) && row.Type != string(domain.NatureDonation) {
			continue
		}

		person := resolvePerson(snap, row.CounterpartyName)
		if person == nil {
			f := newFinding("REC-004", fmt.Sprintf("legacy row names %q but no matching person exists", row.CounterpartyName))
			f.SubjectType = "raw_import_row"
			f.Observed = domain.StringValue(row.CounterpartyName)
			f.Suggestion = "register the person or correct the legacy spelling"
			f.SourceFile = row.SourceFile
			f.LineNumber = row.LineNumber
			out = append(out, f)
			continue
		}

		instruments := snap.InstrumentsOf(person.ID)

		matched := false
		for _, fi := range instruments {
			if sameDay(fi.CompetenceDate, row.Date) && !exceedsTolerance(fi.NetAmount, row.TotalAmount, v.th.MonetaryTolerance) {
				matched = true
				break
			}
		}
		if !matched {
			// Legacy dates are unreliable; accept an amount-only match
			// before declaring a true mismatch.
			for _, fi := range instruments {
				if !exceedsTolerance(fi.NetAmount, row.TotalAmount, v.th.MonetaryTolerance) {
					matched = true
					break
				}
			}
		}
		if matched {
			continue
		}

		f := newFinding("REC-005", fmt.Sprintf("legacy row of %.2f on %s for %q has no matching receivable",
			row.TotalAmount, row.Date.Format("2006-01-02"), person.Name))
		f.SubjectType = "person"
		f.SubjectID = person.ID
		f.Observed = domain.NumberValue(row.TotalAmount)
		f.Expected = domain.DateValue(row.Date)
		f.Suggestion = "create the missing receivable or reconcile the legacy record"
		f.SourceFile = row.SourceFile
		f.LineNumber = row.LineNumber
		out = append(out, f)
	}

	return out
}

// internalTransfers flags instruments whose description matches a legacy
// internal_transfer row: money moved between the entity's own accounts
// must never be recorded as revenue or expense. The match is textual and
// independent of amounts.
func (v *ReceivablesValidator) internalTransfers(snap *audit.Snapshot) []domain.Finding {
	var out []domain.Finding
	flagged := make(map[string]bool)

	for i := range snap.RawRows {
		row := &snap.RawRows[i]
		if row.Type != domain.RawRowInternalTransfer {
			continue
		}
		phrase := domain.NormalizeName(row.Description)
		if phrase == "" {
			phrase = domain.NormalizeName(row.CounterpartyName)
		}
		if phrase == "" {
			continue
		}

		for j := range snap.Instruments {
			fi := &snap.Instruments[j]
			if flagged[fi.ID] {
				continue
			}
			desc := domain.NormalizeName(fi.Description)
			if desc == "" || !strings.Contains(desc, phrase) {
				continue
			}
			flagged[fi.ID] = true

			f := newFinding("REC-006", fmt.Sprintf("instrument %s (%q) matches internal transfer %q and is likely misclassified",
				fi.ID, fi.Description, row.Description))
			f.SubjectType = "instrument"
			f.SubjectID = fi.ID
			f.Observed = domain.StringValue(fi.Description)
			f.Suggestion = "reclassify as an internal transfer; it must not affect the result"
			f.SourceFile = row.SourceFile
			f.LineNumber = row.LineNumber
			out = append(out, f)
		}
	}

	return out
}

// resolvePerson finds the person a legacy counterparty name refers to.
// Exact normalized match wins; otherwise fall back to matching the first
// and last name tokens, which survives dropped middle names in the old
// spreadsheets. Best effort only: a miss is a warning, never fatal.
func resolvePerson(snap *audit.Snapshot, name string) *domain.Person {
	norm := domain.NormalizeName(name)
	if norm == "" {
		return nil
	}

	if exact := snap.PersonsByName(norm); len(exact) > 0 {
		return exact[0]
	}

	tokens := strings.Fields(norm)
	first, last := tokens[0], tokens[len(tokens)-1]
	for i := range snap.Persons {
		p := &snap.Persons[i]
		candidate := strings.Fields(domain.NormalizeName(p.Name))
		if len(candidate) == 0 {
			continue
		}
		if candidate[0] == first && candidate[len(candidate)-1] == last {
			return p
		}
	}
	return nil
}

// sameDay compares calendar dates ignoring time of day.
func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
