package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/contaudit/contaudit/internal/audit"
	"github.com/contaudit/contaudit/internal/audit/catalog"
	"github.com/contaudit/contaudit/internal/audit/validators"
	"github.com/contaudit/contaudit/internal/domain"
)

// memSource is an in-memory DataSource for API tests.
type memSource struct {
	persons     []domain.Person
	instruments []domain.FinancialInstrument
	entries     []domain.LedgerEntry
	periods     []domain.AccountingPeriod
	bankLines   []domain.BankStatementLine
	rawRows     []domain.RawImportRow
}

func (s *memSource) Persons(context.Context) ([]domain.Person, error) { return s.persons, nil }
func (s *memSource) Instruments(context.Context) ([]domain.FinancialInstrument, error) {
	return s.instruments, nil
}
func (s *memSource) LedgerEntries(context.Context) ([]domain.LedgerEntry, error) {
	return s.entries, nil
}
func (s *memSource) Periods(context.Context) ([]domain.AccountingPeriod, error) {
	return s.periods, nil
}
func (s *memSource) BankLines(context.Context) ([]domain.BankStatementLine, error) {
	return s.bankLines, nil
}
func (s *memSource) RawRows(context.Context) ([]domain.RawImportRow, error) {
	return s.rawRows, nil
}

func newTestServer() *httptest.Server {
	src := &memSource{
		periods: []domain.AccountingPeriod{
			{ID: "per1", Year: 2025, Month: time.March, Status: domain.PeriodOpen},
		},
		entries: []domain.LedgerEntry{
			{ID: "e1", Number: 1, CompetenceDate: time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
				Narrative: "monthly contributions received", TotalDebit: 1000.00, TotalCredit: 999.50},
		},
	}
	engine := audit.NewEngine(src, validators.DefaultRegistry(catalog.DefaultThresholds()))
	return httptest.NewServer(NewServer(engine).Handler())
}

// ─── Plumbing Endpoints ─────────────────────────────────────────────────────

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestVersionEndpoint(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/version")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["version"] != Version {
		t.Errorf("version = %q, want %q", body["version"], Version)
	}
}

// ─── Catalog Endpoints ──────────────────────────────────────────────────────

func TestListRules(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/rules")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body struct {
		Rules []catalog.Rule `json:"rules"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Rules) != len(catalog.Rules) {
		t.Errorf("rules = %d, want %d", len(body.Rules), len(catalog.Rules))
	}
}

func TestListRules_ByModule(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/rules?module=ledger")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body struct {
		Rules []catalog.Rule `json:"rules"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Rules) != 4 {
		t.Errorf("ledger rules = %d, want 4", len(body.Rules))
	}
	for _, r := range body.Rules {
		if r.Module != catalog.ModuleLedger {
			t.Errorf("rule %s has module %q", r.ID, r.Module)
		}
	}
}

func TestListRules_UnknownModule(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/v1/rules?module=payroll")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

// ─── Audit Endpoint ─────────────────────────────────────────────────────────

func TestRunAudit(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/v1/audits", "application/json",
		strings.NewReader(`{"year": 2025, "month": 3}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var report domain.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatal(err)
	}
	if report.Scope != "2025-03" {
		t.Errorf("scope = %q, want 2025-03", report.Scope)
	}
	if report.Summary.ByRule["CTB-001"] != 1 {
		t.Errorf("CTB-001 = %d, want 1 (unbalanced fixture entry)", report.Summary.ByRule["CTB-001"])
	}
}

func TestRunAudit_ModuleFilter(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/v1/audits", "application/json",
		strings.NewReader(`{"year": 2025, "month": 3, "modules": ["registry"]}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var report domain.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatal(err)
	}
	if len(report.Modules) != 1 || report.Modules[0] != "registry" {
		t.Errorf("modules = %v, want [registry]", report.Modules)
	}
}

func TestRunAudit_BadRequests(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"year": `, http.StatusBadRequest},
		{"month out of range", `{"year": 2025, "month": 13}`, http.StatusBadRequest},
		{"month without year", `{"month": 3}`, http.StatusBadRequest},
		{"unknown module", `{"year": 2025, "month": 3, "modules": ["payroll"]}`, http.StatusBadRequest},
		{"empty scope", `{"year": 1990}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/v1/audits", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
