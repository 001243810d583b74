package catalog

// Thresholds are the numeric constants the validators read. They are
// heuristics tuned by bookkeeping judgment, not laws: every field can be
// overridden from the [thresholds] section of the config file.
type Thresholds struct {
	// MonetaryTolerance is the maximum absolute difference, in currency
	// units, still considered equal. A difference of exactly the tolerance
	// does not trigger a finding.
	MonetaryTolerance float64 `toml:"monetary_tolerance"`

	// DateToleranceDays is the settlement-vs-statement date slack before a
	// drift warning.
	DateToleranceDays int `toml:"date_tolerance_days"`

	// MaxSettlementLagDays bounds the drift check: beyond this many days
	// the mismatch is a different class of problem and is not flagged here.
	MaxSettlementLagDays int `toml:"max_settlement_lag_days"`

	// DuplicateNameDistance is the maximum edit distance between two
	// normalized names still flagged as a possible duplicate.
	DuplicateNameDistance int `toml:"duplicate_name_distance"`

	// UnreconciledSampleCap limits per-line unreconciled findings; the
	// remainder collapses into one summary finding. Reporting policy only,
	// not a detection limit.
	UnreconciledSampleCap int `toml:"unreconciled_sample_cap"`

	// NarrativeMinLength is the minimum ledger narrative length.
	NarrativeMinLength int `toml:"narrative_min_length"`

	// CompetenceGraceDays is how far competence may precede issue before
	// the fiscal validator reports a violation.
	CompetenceGraceDays int `toml:"competence_grace_days"`

	// MinProjectRevenuePct is the advisory floor for the monthly
	// project-revenue share (statutory policy target is 70%).
	MinProjectRevenuePct float64 `toml:"min_project_revenue_pct"`

	// MinMonthlyRevenue is the monthly total below which the revenue-split
	// advisory is skipped.
	MinMonthlyRevenue float64 `toml:"min_monthly_revenue"`

	// MinUndocumentedAmount is the payable amount above which missing
	// provenance is reported.
	MinUndocumentedAmount float64 `toml:"min_undocumented_amount"`

	// MinUnclassifiedAmount is the receivable amount above which
	// nature=other is reported.
	MinUnclassifiedAmount float64 `toml:"min_unclassified_amount"`
}

// DefaultThresholds returns the shipped defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MonetaryTolerance:     0.01,
		DateToleranceDays:     3,
		MaxSettlementLagDays:  30,
		DuplicateNameDistance: 2,
		UnreconciledSampleCap: 50,
		NarrativeMinLength:    10,
		CompetenceGraceDays:   30,
		MinProjectRevenuePct:  60,
		MinMonthlyRevenue:     1000,
		MinUndocumentedAmount: 100,
		MinUnclassifiedAmount: 100,
	}
}
