// Package csvimport reads the legacy monthly spreadsheets exported as CSV.
// The files are semicolon-separated, amounts are Brazilian-formatted
// ("R$ 1.234,56"), and dates are dd/mm/yyyy. Rows are loaded verbatim as
// frozen RawImportRows; cleanup happens in the validators, never here.
package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/contaudit/contaudit/internal/domain"
)

// Expected header: tipo;nome;descricao;valor;data
const expectedColumns = 5

// ReadFile parses one legacy CSV file into raw import rows. LineNumber is
// the 1-based physical line in the file (the header is line 1).
func ReadFile(path string) ([]domain.RawImportRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open legacy file %s: %w", path, err)
	}
	defer file.Close()

	return Read(file, filepath.Base(path))
}

// Read parses legacy CSV content, tagging each row with sourceFile.
func Read(r io.Reader, sourceFile string) ([]domain.RawImportRow, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("read header from %s: %w", sourceFile, err)
	}

	var rows []domain.RawImportRow
	line := 1
	for {
		record, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s line %d: %w", sourceFile, line, err)
		}
		if len(record) < expectedColumns {
			return nil, fmt.Errorf("read %s line %d: %d columns, want %d", sourceFile, line, len(record), expectedColumns)
		}

		amount, err := ParseAmount(record[3])
		if err != nil {
			return nil, fmt.Errorf("read %s line %d: %w", sourceFile, line, err)
		}
		date, err := ParseDate(record[4])
		if err != nil {
			return nil, fmt.Errorf("read %s line %d: %w", sourceFile, line, err)
		}

		rows = append(rows, domain.RawImportRow{
			Type:             strings.TrimSpace(record[0]),
			CounterpartyName: strings.TrimSpace(record[1]),
			Description:      strings.TrimSpace(record[2]),
			TotalAmount:      amount,
			Date:             date,
			LineNumber:       line,
			SourceFile:       sourceFile,
		})
	}
	return rows, nil
}

// ParseAmount converts a Brazilian-formatted amount ("R$ 1.234,56",
// "1234,56", "1234.56") to a float64.
func ParseAmount(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "R$")
	cleaned = strings.TrimSpace(cleaned)

	if strings.Contains(cleaned, ",") {
		// pt-BR: dots are thousands separators, the comma is decimal.
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return v, nil
}

// ParseDate converts a dd/mm/yyyy date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("02/01/2006", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}
