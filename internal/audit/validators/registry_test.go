package validators

import (
	"strings"
	"testing"
	"time"

	"github.com/contaudit/contaudit/internal/domain"
)

// ─── Duplicate Names ────────────────────────────────────────────────────────

func TestRegistry_ExactDuplicateAfterNormalization(t *testing.T) {
	f := &fixture{persons: []domain.Person{
		{ID: "p1", Name: "Maria Da Silva"},
		{ID: "p2", Name: "maria  da silva"},
	}}

	findings := NewRegistryValidator(defaultThresholds()).Validate(snap(t, f))

	if countRule(findings, "CAD-001") != 1 {
		t.Fatalf("CAD-001 count = %d, want 1 (pair flagged once)", countRule(findings, "CAD-001"))
	}
	dup := firstRule(findings, "CAD-001")
	if dup.Observed.String() != "0" {
		t.Errorf("Observed distance = %s, want 0 (exact duplicate, not merely similar)", dup.Observed)
	}
	if !strings.Contains(dup.Message, "same name") {
		t.Errorf("message %q should state an exact duplicate", dup.Message)
	}
}

func TestRegistry_FuzzyDuplicateWithinThreshold(t *testing.T) {
	f := &fixture{persons: []domain.Person{
		{ID: "p1", Name: "Maria da Silva"},
		{ID: "p2", Name: "Maria da Sylva"},
		{ID: "p3", Name: "Roberto Carlos"},
	}}

	findings := NewRegistryValidator(defaultThresholds()).Validate(snap(t, f))

	if countRule(findings, "CAD-001") != 1 {
		t.Fatalf("CAD-001 count = %d, want 1", countRule(findings, "CAD-001"))
	}
	dup := firstRule(findings, "CAD-001")
	if dup.Observed.String() != "1" {
		t.Errorf("Observed distance = %s, want 1", dup.Observed)
	}
}

func TestRegistry_NoSelfOrDoubleFlagging(t *testing.T) {
	f := &fixture{persons: []domain.Person{
		{ID: "p1", Name: "Ana"},
		{ID: "p2", Name: "Ana"},
		{ID: "p3", Name: "Ana"},
	}}

	findings := NewRegistryValidator(defaultThresholds()).Validate(snap(t, f))

	// 3 persons form exactly C(3,2)=3 pairs; never 6, never self-pairs.
	if countRule(findings, "CAD-001") != 3 {
		t.Errorf("CAD-001 count = %d, want 3", countRule(findings, "CAD-001"))
	}
}

func TestRegistry_DuplicateDetectionSymmetry(t *testing.T) {
	// Flagging must not depend on registry order.
	forward := &fixture{persons: []domain.Person{
		{ID: "p1", Name: "Maria da Silva"},
		{ID: "p2", Name: "Maria da Sylva"},
	}}
	reverse := &fixture{persons: []domain.Person{
		{ID: "p2", Name: "Maria da Sylva"},
		{ID: "p1", Name: "Maria da Silva"},
	}}

	v := NewRegistryValidator(defaultThresholds())
	a := countRule(v.Validate(snap(t, forward)), "CAD-001")
	b := countRule(v.Validate(snap(t, reverse)), "CAD-001")
	if a != b || a != 1 {
		t.Errorf("pair flagged %d/%d times depending on order, want 1/1", a, b)
	}
}

// ─── Documents ──────────────────────────────────────────────────────────────

func TestRegistry_InvalidDocument(t *testing.T) {
	f := &fixture{persons: []domain.Person{
		{ID: "p1", Name: "Maria", Documents: []domain.Document{{Type: domain.DocumentCPF, Number: "529.982.247-25"}}},
		{ID: "p2", Name: "João", Documents: []domain.Document{{Type: domain.DocumentCPF, Number: "529.982.247-24"}}},
	}}

	findings := NewRegistryValidator(defaultThresholds()).Validate(snap(t, f))

	if countRule(findings, "CAD-002") != 1 {
		t.Fatalf("CAD-002 count = %d, want 1", countRule(findings, "CAD-002"))
	}
	bad := firstRule(findings, "CAD-002")
	if bad.SubjectID != "p2" {
		t.Errorf("SubjectID = %q, want p2", bad.SubjectID)
	}
	if bad.Severity != domain.SeverityError {
		t.Errorf("Severity = %q, want error", bad.Severity)
	}
}

func TestRegistry_DocumentCollision(t *testing.T) {
	f := &fixture{persons: []domain.Person{
		{ID: "p1", Name: "Zefa", Documents: []domain.Document{{Type: domain.DocumentCPF, Number: "52998224725"}}},
		{ID: "p2", Name: "Ana", Documents: []domain.Document{{Type: domain.DocumentCPF, Number: "529.982.247-25"}}},
	}}

	findings := NewRegistryValidator(defaultThresholds()).Validate(snap(t, f))

	if countRule(findings, "CAD-003") != 1 {
		t.Fatalf("CAD-003 count = %d, want 1", countRule(findings, "CAD-003"))
	}
	col := firstRule(findings, "CAD-003")
	// Owner names are listed sorted for stable output.
	if !strings.Contains(col.Message, "Ana, Zefa") {
		t.Errorf("message %q should list both owners sorted", col.Message)
	}
	if col.Observed.String() != "2" {
		t.Errorf("Observed = %s, want 2", col.Observed)
	}
}

// ─── Members & Contacts ─────────────────────────────────────────────────────

func TestRegistry_MemberWithoutContribution(t *testing.T) {
	f := &fixture{
		persons: []domain.Person{
			{ID: "p1", Name: "Maria", Active: true, ContributionAmount: amount(50)},
			{ID: "p2", Name: "João", Active: true, ContributionAmount: amount(50)},
			{ID: "p3", Name: "Inativa", Active: false, ContributionAmount: amount(50)},
			{ID: "p4", Name: "Sem Compromisso", Active: true},
		},
		instruments: []domain.FinancialInstrument{
			{ID: "t1", Direction: domain.Receivable, Nature: domain.NatureContribution,
				CounterpartyID: "p1", CompetenceDate: day(2025, time.March, 1)},
		},
	}

	findings := NewRegistryValidator(defaultThresholds()).Validate(snap(t, f))

	if countRule(findings, "CAD-004") != 1 {
		t.Fatalf("CAD-004 count = %d, want 1", countRule(findings, "CAD-004"))
	}
	if firstRule(findings, "CAD-004").SubjectID != "p2" {
		t.Errorf("SubjectID = %q, want p2", firstRule(findings, "CAD-004").SubjectID)
	}
}

func TestRegistry_MissingContact(t *testing.T) {
	f := &fixture{persons: []domain.Person{
		{ID: "p1", Name: "Maria", Active: true, Contacts: []domain.Contact{{Kind: "phone", Value: "11 99999-0000"}}},
		{ID: "p2", Name: "João", Active: true},
		{ID: "p3", Name: "Inativo", Active: false},
	}}

	findings := NewRegistryValidator(defaultThresholds()).Validate(snap(t, f))

	if countRule(findings, "CAD-005") != 1 {
		t.Fatalf("CAD-005 count = %d, want 1", countRule(findings, "CAD-005"))
	}
	info := firstRule(findings, "CAD-005")
	if info.Severity != domain.SeverityInfo {
		t.Errorf("Severity = %q, want info", info.Severity)
	}
}
