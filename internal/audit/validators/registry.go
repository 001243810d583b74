package validators

import (
	"fmt"
	"sort"
	"strings"

	"github.com/contaudit/contaudit/internal/audit"
	"github.com/contaudit/contaudit/internal/audit/catalog"
	"github.com/contaudit/contaudit/internal/domain"
	"github.com/contaudit/contaudit/internal/infra/dsa"
)

// RegistryValidator audits the people registry: fuzzy duplicate names,
// tax-document checksums and collisions, members without contributions,
// and missing contact data.
type RegistryValidator struct {
	th catalog.Thresholds
}

// NewRegistryValidator creates the registry module.
func NewRegistryValidator(th catalog.Thresholds) *RegistryValidator {
	return &RegistryValidator{th: th}
}

// Name implements audit.Validator.
func (v *RegistryValidator) Name() string { return catalog.ModuleRegistry }

// Validate implements audit.Validator.
func (v *RegistryValidator) Validate(snap *audit.Snapshot) []domain.Finding {
	var out []domain.Finding
	out = append(out, v.duplicateNames(snap)...)
	out = append(out, v.documentChecks(snap)...)
	out = append(out, v.membersWithoutContribution(snap)...)
	out = append(out, v.missingContacts(snap)...)
	return out
}

// duplicateNames compares every pair of normalized names once (i < j), so a
// pair is never flagged twice and a person never matches itself. Symmetry
// holds because edit distance is symmetric.
func (v *RegistryValidator) duplicateNames(snap *audit.Snapshot) []domain.Finding {
	var out []domain.Finding

	norms := make([]string, len(snap.Persons))
	for i, p := range snap.Persons {
		norms[i] = domain.NormalizeName(p.Name)
	}

	for i := 0; i < len(snap.Persons); i++ {
		for j := i + 1; j < len(snap.Persons); j++ {
			a, b := &snap.Persons[i], &snap.Persons[j]
			if norms[i] == "" || norms[j] == "" {
				continue
			}

			var dist int
			switch {
			case norms[i] == norms[j]:
				dist = 0
			case dsa.WithinDistance(norms[i], norms[j], v.th.DuplicateNameDistance):
				dist = dsa.Levenshtein(norms[i], norms[j])
			default:
				continue
			}

			f := newFinding("CAD-001", "")
			if dist == 0 {
				f.Message = fmt.Sprintf("%q and %q are the same name after normalization", a.Name, b.Name)
			} else {
				f.Message = fmt.Sprintf("%q and %q differ by %d character(s)", a.Name, b.Name, dist)
			}
			f.SubjectType = "person"
			f.SubjectID = a.ID
			f.Observed = domain.CountValue(dist)
			f.Suggestion = fmt.Sprintf("review persons %s and %s and merge if they are the same donor", a.ID, b.ID)
			out = append(out, f)
		}
	}

	return out
}

// documentChecks validates tax-ID checksums and detects numbers shared by
// more than one person.
func (v *RegistryValidator) documentChecks(snap *audit.Snapshot) []domain.Finding {
	var out []domain.Finding

	type owner struct{ personName, personID string }
	owners := make(map[string][]owner)
	var numberOrder []string

	for i := range snap.Persons {
		p := &snap.Persons[i]
		for _, doc := range p.Documents {
			norm := domain.NormalizeDocument(doc.Number)

			if !doc.Valid() {
				f := newFinding("CAD-002", fmt.Sprintf("document %s (%s) of %q fails checksum validation", doc.Number, doc.Type, p.Name))
				f.SubjectType = "person"
				f.SubjectID = p.ID
				f.Observed = domain.StringValue(doc.Number)
				f.Suggestion = "correct the document number or remove it from the record"
				out = append(out, f)
			}

			if norm == "" {
				continue
			}
			if _, seen := owners[norm]; !seen {
				numberOrder = append(numberOrder, norm)
			}
			owners[norm] = append(owners[norm], owner{personName: p.Name, personID: p.ID})
		}
	}

	for _, norm := range numberOrder {
		group := owners[norm]
		if len(group) < 2 {
			continue
		}
		names := make([]string, len(group))
		for i, o := range group {
			names[i] = o.personName
		}
		sort.Strings(names)

		f := newFinding("CAD-003", fmt.Sprintf("document %s is registered to %d persons: %s", norm, len(group), strings.Join(names, ", ")))
		f.SubjectType = "document"
		f.SubjectID = norm
		f.Observed = domain.CountValue(len(group))
		f.Expected = domain.CountValue(1)
		f.Suggestion = "a tax document must identify exactly one person; merge or fix the records"
		out = append(out, f)
	}

	return out
}

// membersWithoutContribution flags active members that committed to a
// contribution amount but have no contribution or donation receivable in
// the audited scope.
func (v *RegistryValidator) membersWithoutContribution(snap *audit.Snapshot) []domain.Finding {
	var out []domain.Finding

	for i := range snap.Persons {
		p := &snap.Persons[i]
		if !p.Active || p.ContributionAmount == nil {
			continue
		}

		found := false
		for _, fi := range snap.InstrumentsOf(p.ID) {
			if fi.Direction == domain.Receivable &&
				(fi.Nature == domain.NatureContribution || fi.Nature == domain.NatureDonation) {
				found = true
				break
			}
		}
		if found {
			continue
		}

		f := newFinding("CAD-004", fmt.Sprintf("active member %q has a committed contribution but no receivable in scope", p.Name))
		f.SubjectType = "person"
		f.SubjectID = p.ID
		f.Expected = domain.NumberValue(*p.ContributionAmount)
		f.Suggestion = "generate the contribution receivable or update the member's commitment"
		out = append(out, f)
	}

	return out
}

// missingContacts reports active persons with no contact record at all.
func (v *RegistryValidator) missingContacts(snap *audit.Snapshot) []domain.Finding {
	var out []domain.Finding

	for i := range snap.Persons {
		p := &snap.Persons[i]
		if !p.Active || len(p.Contacts) > 0 {
			continue
		}
		f := newFinding("CAD-005", fmt.Sprintf("active person %q has no contact information", p.Name))
		f.SubjectType = "person"
		f.SubjectID = p.ID
		f.Suggestion = "register at least one phone or email"
		out = append(out, f)
	}

	return out
}
