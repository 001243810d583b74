// Package report renders an audit report in the formats the CLI and the
// HTTP API expose: compact text, aligned table, markdown document, and
// machine-readable JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/contaudit/contaudit/internal/audit/catalog"
	"github.com/contaudit/contaudit/internal/domain"
)

// Format selects an output renderer.
type Format string

const (
	FormatText     Format = "text"
	FormatTable    Format = "table"
	FormatDocument Format = "document"
	FormatJSON     Format = "json"
)

// Formats lists the supported formats in display order.
func Formats() []Format {
	return []Format{FormatText, FormatTable, FormatDocument, FormatJSON}
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText:
		return FormatText, nil
	case FormatTable:
		return FormatTable, nil
	case FormatDocument:
		return FormatDocument, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("format %q: %w", s, domain.ErrUnsupportedFormat)
}

// Render writes the report to w in the requested format.
func Render(w io.Writer, r *domain.Report, format Format) error {
	switch format {
	case FormatText:
		return renderText(w, r)
	case FormatTable:
		return renderTable(w, r)
	case FormatDocument:
		return renderDocument(w, r)
	case FormatJSON:
		return renderJSON(w, r)
	}
	return fmt.Errorf("format %q: %w", format, domain.ErrUnsupportedFormat)
}

// ─── Text ───────────────────────────────────────────────────────────────────

// renderText prints findings grouped by severity, worst first, followed by
// the one-line headline. This is the default CLI output.
func renderText(w io.Writer, r *domain.Report) error {
	fmt.Fprintf(w, "audit %s  scope=%s  modules=%s\n", r.RunID, r.Scope, strings.Join(r.Modules, ","))
	if r.DryRun {
		fmt.Fprintln(w, "dry run: no side effects were performed")
	}
	if r.HadExecutionFailures() {
		fmt.Fprintf(w, "partial results: failed validators: %s\n", strings.Join(r.ExecutionFailures, ", "))
	}
	fmt.Fprintln(w)

	for _, sev := range []domain.Severity{domain.SeverityError, domain.SeverityWarning, domain.SeverityInfo} {
		group := bySeverity(r.Findings, sev)
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s (%d)\n", strings.ToUpper(string(sev)), len(group))
		for _, f := range group {
			fmt.Fprintf(w, "  [%s] %s\n", f.RuleID, f.Message)
			if f.Suggestion != "" {
				fmt.Fprintf(w, "        hint: %s\n", f.Suggestion)
			}
			if f.SourceFile != "" {
				fmt.Fprintf(w, "        source: %s:%d\n", f.SourceFile, f.LineNumber)
			}
		}
		fmt.Fprintln(w)
	}

	_, err := fmt.Fprintln(w, r.Headline())
	return err
}

// ─── Table ──────────────────────────────────────────────────────────────────

// renderTable prints one aligned row per finding.
func renderTable(w io.Writer, r *domain.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tSEVERITY\tSUBJECT\tOBSERVED\tEXPECTED\tMESSAGE")
	for _, f := range r.Findings {
		subject := f.SubjectID
		if subject == "" {
			subject = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			f.RuleID, f.Severity, subject, valueOrDash(f.Observed), valueOrDash(f.Expected), f.Message)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s\n", r.Headline())
	return err
}

func valueOrDash(v domain.Value) string {
	if v.IsZero() {
		return "-"
	}
	return v.String()
}

// ─── Document ───────────────────────────────────────────────────────────────

// renderDocument emits a markdown report grouped by category, the shape
// the accountant receives at month close.
func renderDocument(w io.Writer, r *domain.Report) error {
	fmt.Fprintf(w, "# Audit Report %s\n\n", r.Scope)
	fmt.Fprintf(w, "- Run: `%s`\n", r.RunID)
	fmt.Fprintf(w, "- Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "- Modules: %s\n", strings.Join(r.Modules, ", "))
	fmt.Fprintf(w, "- Result: %s\n", r.Headline())
	if r.HadExecutionFailures() {
		fmt.Fprintf(w, "- Failed validators: %s\n", strings.Join(r.ExecutionFailures, ", "))
	}
	fmt.Fprintln(w)

	for _, category := range catalog.Categories() {
		group := byCategory(r.Findings, category)
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(w, "## %s\n\n", titleCase(category))
		for _, f := range group {
			fmt.Fprintf(w, "- **%s** `%s` %s", f.Severity, f.RuleID, f.Message)
			if f.Suggestion != "" {
				fmt.Fprintf(w, " _(%s)_", f.Suggestion)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w)
	}

	if r.Summary.Total == 0 {
		_, err := fmt.Fprintln(w, "No findings. The books are consistent for this scope.")
		return err
	}
	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ─── JSON ───────────────────────────────────────────────────────────────────

func renderJSON(w io.Writer, r *domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// ─── Grouping ───────────────────────────────────────────────────────────────

// bySeverity selects findings of one severity, ordered by rule id then
// original position so output is stable across runs.
func bySeverity(findings []domain.Finding, sev domain.Severity) []domain.Finding {
	var out []domain.Finding
	for _, f := range findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RuleID < out[j].RuleID })
	return out
}

func byCategory(findings []domain.Finding, category string) []domain.Finding {
	var out []domain.Finding
	for _, f := range findings {
		if f.Category == category {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RuleID < out[j].RuleID })
	return out
}
