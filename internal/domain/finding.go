package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ─── Severity ───────────────────────────────────────────────────────────────

// Severity ranks a finding's importance, not its certainty.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Rank orders severities for display (error first).
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

// ─── Value ──────────────────────────────────────────────────────────────────

// ValueKind discriminates the closed set of observed/expected value types.
type ValueKind int

const (
	ValueNone ValueKind = iota
	ValueNumber
	ValueString
	ValueDate
	ValueCount
)

// Value is a closed variant (number | string | date | count) carried by a
// Finding for display. Resolved at construction time so the reporter can
// render deterministically without runtime type inspection.
type Value struct {
	kind  ValueKind
	num   float64
	str   string
	date  time.Time
	count int
}

// NumberValue wraps a monetary or numeric amount.
func NumberValue(v float64) Value { return Value{kind: ValueNumber, num: v} }

// StringValue wraps free text.
func StringValue(v string) Value { return Value{kind: ValueString, str: v} }

// DateValue wraps a calendar date.
func DateValue(v time.Time) Value { return Value{kind: ValueDate, date: v} }

// CountValue wraps an integer count.
func CountValue(v int) Value { return Value{kind: ValueCount, count: v} }

// IsZero reports whether the value is unset.
func (v Value) IsZero() bool { return v.kind == ValueNone }

// Kind returns the variant discriminator.
func (v Value) Kind() ValueKind { return v.kind }

// String renders the value for human-readable output.
func (v Value) String() string {
	switch v.kind {
	case ValueNumber:
		return strconv.FormatFloat(v.num, 'f', 2, 64)
	case ValueString:
		return v.str
	case ValueDate:
		return v.date.Format("2006-01-02")
	case ValueCount:
		return strconv.Itoa(v.count)
	default:
		return ""
	}
}

// MarshalJSON serializes the variant with an explicit kind tag.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueNumber:
		return json.Marshal(map[string]any{"kind": "number", "value": v.num})
	case ValueString:
		return json.Marshal(map[string]any{"kind": "string", "value": v.str})
	case ValueDate:
		return json.Marshal(map[string]any{"kind": "date", "value": v.date.Format("2006-01-02")})
	case ValueCount:
		return json.Marshal(map[string]any{"kind": "count", "value": v.count})
	default:
		return []byte("null"), nil
	}
}

// ─── Finding ────────────────────────────────────────────────────────────────

// Finding is the engine's sole output unit: one reported inconsistency,
// policy violation, or reconciliation gap.
type Finding struct {
	RuleID      string   `json:"rule_id"`
	RuleName    string   `json:"rule_name"`
	Severity    Severity `json:"severity"`
	Category    string   `json:"category"`
	Message     string   `json:"message"`
	SubjectType string   `json:"subject_type,omitempty"`
	SubjectID   string   `json:"subject_id,omitempty"`
	Observed    Value    `json:"observed,omitempty"`
	Expected    Value    `json:"expected,omitempty"`
	Suggestion  string   `json:"suggestion,omitempty"`
	SourceFile  string   `json:"source_file,omitempty"`
	LineNumber  int      `json:"line_number,omitempty"`
}

// ─── Report ─────────────────────────────────────────────────────────────────

// Summary counts findings per severity, category, and rule.
type Summary struct {
	Total      int              `json:"total"`
	BySeverity map[Severity]int `json:"by_severity"`
	ByCategory map[string]int   `json:"by_category"`
	ByRule     map[string]int   `json:"by_rule"`
}

// Summarize computes the summary for a finding list.
func Summarize(findings []Finding) Summary {
	s := Summary{
		Total:      len(findings),
		BySeverity: make(map[Severity]int),
		ByCategory: make(map[string]int),
		ByRule:     make(map[string]int),
	}
	for _, f := range findings {
		s.BySeverity[f.Severity]++
		s.ByCategory[f.Category]++
		s.ByRule[f.RuleID]++
	}
	return s
}

// Report is the ordered collection of findings produced by one engine run.
type Report struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Scope       string    `json:"scope"`
	Modules     []string  `json:"modules"`
	DryRun      bool      `json:"dry_run"`
	Findings    []Finding `json:"findings"`
	Summary     Summary   `json:"summary"`

	// ExecutionFailures names validators that failed mid-run when the
	// engine is configured for partial results. Distinct from
	// error-severity findings, which are the product of a successful run.
	ExecutionFailures []string `json:"execution_failures,omitempty"`
}

// HasErrors reports whether any finding carries error severity.
func (r *Report) HasErrors() bool {
	return r.Summary.BySeverity[SeverityError] > 0
}

// HadExecutionFailures reports whether any validator failed to execute.
func (r *Report) HadExecutionFailures() bool {
	return len(r.ExecutionFailures) > 0
}

// Headline formats a one-line digest of the run.
func (r *Report) Headline() string {
	return fmt.Sprintf("%d findings (%d errors, %d warnings, %d info)",
		r.Summary.Total,
		r.Summary.BySeverity[SeverityError],
		r.Summary.BySeverity[SeverityWarning],
		r.Summary.BySeverity[SeverityInfo])
}
