package domain

import "context"

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; the audit engine depends on them.

// DataSource supplies the raw entity collections an audit run consumes.
// Implementations own all persistence concerns; the engine never touches
// disk or network itself. All collections are read-only for the engine.
type DataSource interface {
	Persons(ctx context.Context) ([]Person, error)
	Instruments(ctx context.Context) ([]FinancialInstrument, error)
	LedgerEntries(ctx context.Context) ([]LedgerEntry, error)
	Periods(ctx context.Context) ([]AccountingPeriod, error)
	BankLines(ctx context.Context) ([]BankStatementLine, error)
	RawRows(ctx context.Context) ([]RawImportRow, error)
}
