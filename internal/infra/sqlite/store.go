package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/contaudit/contaudit/internal/domain"
)

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ─── Writes ─────────────────────────────────────────────────────────────────

// InsertPerson stores a person with their documents and contacts.
func (db *DB) InsertPerson(p domain.Person) error {
	_, err := db.db.Exec(`
		INSERT OR REPLACE INTO persons (id, name, membership_status, active, contribution_amount)
		VALUES (?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.MembershipStatus, boolInt(p.Active), p.ContributionAmount)
	if err != nil {
		return fmt.Errorf("insert person %s: %w", p.ID, err)
	}

	if _, err := db.db.Exec(`DELETE FROM person_documents WHERE person_id = ?`, p.ID); err != nil {
		return err
	}
	for _, d := range p.Documents {
		if _, err := db.db.Exec(`
			INSERT INTO person_documents (person_id, doc_type, number) VALUES (?, ?, ?)
		`, p.ID, string(d.Type), d.Number); err != nil {
			return fmt.Errorf("insert document for %s: %w", p.ID, err)
		}
	}

	if _, err := db.db.Exec(`DELETE FROM person_contacts WHERE person_id = ?`, p.ID); err != nil {
		return err
	}
	for _, c := range p.Contacts {
		if _, err := db.db.Exec(`
			INSERT INTO person_contacts (person_id, kind, value) VALUES (?, ?, ?)
		`, p.ID, c.Kind, c.Value); err != nil {
			return fmt.Errorf("insert contact for %s: %w", p.ID, err)
		}
	}
	return nil
}

// InsertInstrument stores an instrument and its settlements.
func (db *DB) InsertInstrument(fi domain.FinancialInstrument) error {
	_, err := db.db.Exec(`
		INSERT OR REPLACE INTO instruments
			(id, direction, nature, counterparty_id, description, issue_date,
			 competence_date, due_date, net_amount, status, source_system)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, fi.ID, string(fi.Direction), string(fi.Nature), fi.CounterpartyID, fi.Description,
		formatDate(fi.IssueDate), formatDate(fi.CompetenceDate), formatDate(fi.DueDate),
		fi.NetAmount, string(fi.Status), fi.SourceSystem)
	if err != nil {
		return fmt.Errorf("insert instrument %s: %w", fi.ID, err)
	}

	if _, err := db.db.Exec(`DELETE FROM settlements WHERE instrument_id = ?`, fi.ID); err != nil {
		return err
	}
	for _, st := range fi.Settlements {
		if _, err := db.db.Exec(`
			INSERT INTO settlements (instrument_id, payment_date, financial_account_id)
			VALUES (?, ?, ?)
		`, fi.ID, formatDate(st.PaymentDate), st.FinancialAccountID); err != nil {
			return fmt.Errorf("insert settlement for %s: %w", fi.ID, err)
		}
	}
	return nil
}

// InsertLedgerEntry stores a ledger entry.
func (db *DB) InsertLedgerEntry(e domain.LedgerEntry) error {
	_, err := db.db.Exec(`
		INSERT OR REPLACE INTO ledger_entries (id, number, competence_date, narrative, total_debit, total_credit)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.ID, e.Number, formatDate(e.CompetenceDate), e.Narrative, e.TotalDebit, e.TotalCredit)
	if err != nil {
		return fmt.Errorf("insert ledger entry %s: %w", e.ID, err)
	}
	return nil
}

// InsertPeriod stores an accounting period.
func (db *DB) InsertPeriod(p domain.AccountingPeriod) error {
	_, err := db.db.Exec(`
		INSERT OR REPLACE INTO accounting_periods (id, year, month, status)
		VALUES (?, ?, ?, ?)
	`, p.ID, p.Year, int(p.Month), string(p.Status))
	if err != nil {
		return fmt.Errorf("insert period %s: %w", p.ID, err)
	}
	return nil
}

// InsertBankLine stores a bank statement line.
func (db *DB) InsertBankLine(l domain.BankStatementLine) error {
	_, err := db.db.Exec(`
		INSERT OR REPLACE INTO bank_lines
			(id, financial_account_id, movement_date, amount, reconciled, status, linked_instrument_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, l.ID, l.FinancialAccountID, formatDate(l.MovementDate), l.Amount,
		boolInt(l.Reconciled), l.Status, l.LinkedInstrumentID)
	if err != nil {
		return fmt.Errorf("insert bank line %s: %w", l.ID, err)
	}
	return nil
}

// InsertRawRow appends a frozen legacy import row.
func (db *DB) InsertRawRow(r domain.RawImportRow) error {
	_, err := db.db.Exec(`
		INSERT INTO raw_import_rows
			(row_type, counterparty_name, description, total_amount, row_date, line_number, source_file)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.Type, r.CounterpartyName, r.Description, r.TotalAmount,
		formatDate(r.Date), r.LineNumber, r.SourceFile)
	if err != nil {
		return fmt.Errorf("insert raw row %s:%d: %w", r.SourceFile, r.LineNumber, err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ─── DataSource ─────────────────────────────────────────────────────────────

// Persons implements domain.DataSource.
func (db *DB) Persons(ctx context.Context) ([]domain.Person, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT id, name, membership_status, active, contribution_amount
		FROM persons ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query persons: %w", err)
	}
	defer rows.Close()

	var out []domain.Person
	for rows.Next() {
		var p domain.Person
		var active int
		var contribution sql.NullFloat64
		if err := rows.Scan(&p.ID, &p.Name, &p.MembershipStatus, &active, &contribution); err != nil {
			return nil, err
		}
		p.Active = active == 1
		if contribution.Valid {
			v := contribution.Float64
			p.ContributionAmount = &v
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if err := db.loadPersonChildren(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (db *DB) loadPersonChildren(ctx context.Context, p *domain.Person) error {
	docs, err := db.db.QueryContext(ctx, `
		SELECT doc_type, number FROM person_documents WHERE person_id = ? ORDER BY doc_type, number
	`, p.ID)
	if err != nil {
		return err
	}
	defer docs.Close()
	for docs.Next() {
		var d domain.Document
		var typ string
		if err := docs.Scan(&typ, &d.Number); err != nil {
			return err
		}
		d.Type = domain.DocumentType(typ)
		p.Documents = append(p.Documents, d)
	}
	if err := docs.Err(); err != nil {
		return err
	}

	contacts, err := db.db.QueryContext(ctx, `
		SELECT kind, value FROM person_contacts WHERE person_id = ? ORDER BY kind, value
	`, p.ID)
	if err != nil {
		return err
	}
	defer contacts.Close()
	for contacts.Next() {
		var c domain.Contact
		if err := contacts.Scan(&c.Kind, &c.Value); err != nil {
			return err
		}
		p.Contacts = append(p.Contacts, c)
	}
	return contacts.Err()
}

// Instruments implements domain.DataSource.
func (db *DB) Instruments(ctx context.Context) ([]domain.FinancialInstrument, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT id, direction, nature, counterparty_id, description, issue_date,
		       competence_date, due_date, net_amount, status, source_system
		FROM instruments ORDER BY competence_date, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query instruments: %w", err)
	}
	defer rows.Close()

	var out []domain.FinancialInstrument
	for rows.Next() {
		var fi domain.FinancialInstrument
		var direction, nature, status, issue, competence, due string
		if err := rows.Scan(&fi.ID, &direction, &nature, &fi.CounterpartyID, &fi.Description,
			&issue, &competence, &due, &fi.NetAmount, &status, &fi.SourceSystem); err != nil {
			return nil, err
		}
		fi.Direction = domain.Direction(direction)
		fi.Nature = domain.Nature(nature)
		fi.Status = domain.InstrumentStatus(status)
		fi.IssueDate = parseDate(issue)
		fi.CompetenceDate = parseDate(competence)
		fi.DueDate = parseDate(due)
		out = append(out, fi)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if err := db.loadSettlements(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (db *DB) loadSettlements(ctx context.Context, fi *domain.FinancialInstrument) error {
	rows, err := db.db.QueryContext(ctx, `
		SELECT payment_date, financial_account_id FROM settlements
		WHERE instrument_id = ? ORDER BY payment_date
	`, fi.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var st domain.Settlement
		var paid string
		if err := rows.Scan(&paid, &st.FinancialAccountID); err != nil {
			return err
		}
		st.PaymentDate = parseDate(paid)
		fi.Settlements = append(fi.Settlements, st)
	}
	return rows.Err()
}

// LedgerEntries implements domain.DataSource.
func (db *DB) LedgerEntries(ctx context.Context) ([]domain.LedgerEntry, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT id, number, competence_date, narrative, total_debit, total_credit
		FROM ledger_entries ORDER BY number
	`)
	if err != nil {
		return nil, fmt.Errorf("query ledger entries: %w", err)
	}
	defer rows.Close()

	var out []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		var competence string
		if err := rows.Scan(&e.ID, &e.Number, &competence, &e.Narrative, &e.TotalDebit, &e.TotalCredit); err != nil {
			return nil, err
		}
		e.CompetenceDate = parseDate(competence)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Periods implements domain.DataSource.
func (db *DB) Periods(ctx context.Context) ([]domain.AccountingPeriod, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT id, year, month, status FROM accounting_periods ORDER BY year, month
	`)
	if err != nil {
		return nil, fmt.Errorf("query periods: %w", err)
	}
	defer rows.Close()

	var out []domain.AccountingPeriod
	for rows.Next() {
		var p domain.AccountingPeriod
		var month int
		var status string
		if err := rows.Scan(&p.ID, &p.Year, &month, &status); err != nil {
			return nil, err
		}
		p.Month = time.Month(month)
		p.Status = domain.PeriodStatus(status)
		out = append(out, p)
	}
	return out, rows.Err()
}

// BankLines implements domain.DataSource.
func (db *DB) BankLines(ctx context.Context) ([]domain.BankStatementLine, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT id, financial_account_id, movement_date, amount, reconciled, status, linked_instrument_id
		FROM bank_lines ORDER BY movement_date, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query bank lines: %w", err)
	}
	defer rows.Close()

	var out []domain.BankStatementLine
	for rows.Next() {
		var l domain.BankStatementLine
		var movement string
		var reconciled int
		if err := rows.Scan(&l.ID, &l.FinancialAccountID, &movement, &l.Amount,
			&reconciled, &l.Status, &l.LinkedInstrumentID); err != nil {
			return nil, err
		}
		l.MovementDate = parseDate(movement)
		l.Reconciled = reconciled == 1
		out = append(out, l)
	}
	return out, rows.Err()
}

// RawRows implements domain.DataSource.
func (db *DB) RawRows(ctx context.Context) ([]domain.RawImportRow, error) {
	rows, err := db.db.QueryContext(ctx, `
		SELECT row_type, counterparty_name, description, total_amount, row_date, line_number, source_file
		FROM raw_import_rows ORDER BY source_file, line_number
	`)
	if err != nil {
		return nil, fmt.Errorf("query raw rows: %w", err)
	}
	defer rows.Close()

	var out []domain.RawImportRow
	for rows.Next() {
		var r domain.RawImportRow
		var date string
		if err := rows.Scan(&r.Type, &r.CounterpartyName, &r.Description, &r.TotalAmount,
			&date, &r.LineNumber, &r.SourceFile); err != nil {
			return nil, err
		}
		r.Date = parseDate(date)
		out = append(out, r)
	}
	return out, rows.Err()
}
