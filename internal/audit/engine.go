package audit

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/contaudit/contaudit/internal/audit/catalog"
	"github.com/contaudit/contaudit/internal/domain"
)

// ─── Run Parameters ─────────────────────────────────────────────────────────

// RunParams configures one audit run.
type RunParams struct {
	// Scope narrows the run to a month, a year, or everything.
	Scope Scope

	// Modules selects validators by name. Empty means all registered
	// modules, in canonical registration order.
	Modules []string

	// DryRun is recorded on the report so callers can gate their own side
	// effects. It never alters validator logic.
	DryRun bool

	// FailFast aborts the run on the first validator execution failure
	// (the default policy). When false, a failed validator becomes one
	// synthetic error-severity finding (ENG-001) and the run continues
	// with the remaining validators.
	FailFast bool
}

// DefaultRunParams returns the fail-fast, all-modules defaults.
func DefaultRunParams() RunParams {
	return RunParams{FailFast: true}
}

// ─── Engine ─────────────────────────────────────────────────────────────────

// Engine orchestrates an audit run: snapshot construction, validator
// dispatch, and report assembly. It holds no state between invocations and
// performs no I/O beyond what the data source does.
type Engine struct {
	src      domain.DataSource
	registry *Registry

	// Injectable clock for testing.
	now func() time.Time
}

// NewEngine creates an engine over a data source and validator registry.
func NewEngine(src domain.DataSource, registry *Registry) *Engine {
	return &Engine{src: src, registry: registry, now: time.Now}
}

// Run executes the audit and returns the report.
//
// Validators are pure over the snapshot, so they are dispatched
// concurrently; each writes into its own result slot, which keeps the
// merged finding order deterministic (registration order, then each
// validator's own stable emission order). A context deadline aborts the
// wait and discards partial results.
func (e *Engine) Run(ctx context.Context, p RunParams) (*domain.Report, error) {
	selected, err := e.selectValidators(p.Modules)
	if err != nil {
		return nil, err
	}

	now := e.now()
	snap, err := BuildSnapshot(ctx, e.src, p.Scope, now)
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}

	results := make([][]domain.Finding, len(selected))
	failures := make([]string, len(selected))

	g, gctx := errgroup.WithContext(ctx)
	for i, v := range selected {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			findings, runErr := runValidator(v, snap)
			if runErr != nil {
				if p.FailFast {
					return runErr
				}
				failures[i] = v.Name()
				results[i] = []domain.Finding{syntheticFailureFinding(v.Name(), runErr)}
				return nil
			}
			results[i] = findings
			return nil
		})
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("audit run: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return nil, err
		}
	}

	var findings []domain.Finding
	for _, r := range results {
		findings = append(findings, r...)
	}

	moduleNames := make([]string, len(selected))
	var failed []string
	for i, v := range selected {
		moduleNames[i] = v.Name()
		if failures[i] != "" {
			failed = append(failed, failures[i])
		}
	}

	report := &domain.Report{
		RunID:             uuid.NewString(),
		GeneratedAt:       now,
		Scope:             p.Scope.String(),
		Modules:           moduleNames,
		DryRun:            p.DryRun,
		Findings:          findings,
		Summary:           domain.Summarize(findings),
		ExecutionFailures: failed,
	}

	log.Printf("[engine] run %s scope=%s modules=%d findings=%d failures=%d",
		report.RunID, report.Scope, len(moduleNames), report.Summary.Total, len(failed))

	return report, nil
}

// selectValidators resolves the requested module set against the registry,
// preserving canonical order regardless of request order.
func (e *Engine) selectValidators(modules []string) ([]Validator, error) {
	if len(modules) == 0 {
		names := e.registry.Names()
		out := make([]Validator, len(names))
		for i, n := range names {
			out[i] = e.registry.Get(n)
		}
		return out, nil
	}

	requested := make(map[string]bool, len(modules))
	for _, m := range modules {
		if e.registry.Get(m) == nil {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownModule, m)
		}
		requested[m] = true
	}

	var out []Validator
	for _, n := range e.registry.Names() {
		if requested[n] {
			out = append(out, e.registry.Get(n))
		}
	}
	return out, nil
}

// runValidator executes one validator, converting panics into errors so a
// single broken rule cannot take down the whole process.
func runValidator(v Validator, snap *Snapshot) (findings []domain.Finding, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("validator %q panicked: %v: %w", v.Name(), r, domain.ErrValidatorFailed)
		}
	}()
	return v.Validate(snap), nil
}

// syntheticFailureFinding represents a validator that failed to execute in
// partial-results mode.
func syntheticFailureFinding(module string, err error) domain.Finding {
	r := catalog.Lookup("ENG-001")
	return domain.Finding{
		RuleID:      r.ID,
		RuleName:    r.Name,
		Severity:    r.Severity,
		Category:    r.Category,
		Message:     fmt.Sprintf("validator %q did not complete: %v", module, err),
		SubjectType: "validator",
		SubjectID:   module,
		Suggestion:  "re-run with this module alone to reproduce the failure",
	}
}
