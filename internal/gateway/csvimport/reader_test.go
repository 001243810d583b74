package csvimport

import (
	"strings"
	"testing"
	"time"

	"github.com/contaudit/contaudit/internal/domain"
)

func TestRead(t *testing.T) {
	body := strings.Join([]string{
		"tipo;nome;descricao;valor;data",
		"contribution;Maria da Silva;mensalidade março;R$ 50,00;10/03/2025",
		"donation;João Pereira;doação campanha;R$ 1.234,56;12/03/2025",
		"internal_transfer;;BB Rende Fácil;999,00;15/03/2025",
	}, "\n")

	rows, err := Read(strings.NewReader(body), "marco-2025.csv")
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len = %d, want 3", len(rows))
	}

	first := rows[0]
	if first.Type != "contribution" || first.CounterpartyName != "Maria da Silva" {
		t.Errorf("row = %+v", first)
	}
	if first.TotalAmount != 50.0 {
		t.Errorf("TotalAmount = %v, want 50", first.TotalAmount)
	}
	if !first.Date.Equal(time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v", first.Date)
	}
	// Header is line 1, so the first data row is line 2.
	if first.LineNumber != 2 || first.SourceFile != "marco-2025.csv" {
		t.Errorf("position = %s:%d, want marco-2025.csv:2", first.SourceFile, first.LineNumber)
	}

	if rows[1].TotalAmount != 1234.56 {
		t.Errorf("thousands separator mishandled: %v", rows[1].TotalAmount)
	}
	if rows[2].Type != domain.RawRowInternalTransfer {
		t.Errorf("Type = %q, want internal_transfer", rows[2].Type)
	}
}

func TestRead_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"too few columns", "tipo;nome;descricao;valor;data\ncontribution;Maria"},
		{"bad amount", "tipo;nome;descricao;valor;data\ncontribution;Maria;x;abc;10/03/2025"},
		{"bad date", "tipo;nome;descricao;valor;data\ncontribution;Maria;x;50,00;2025-03-10"},
		{"empty file", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.body), "bad.csv"); err == nil {
				t.Error("Read() should fail")
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"R$ 50,00", 50},
		{"R$ 1.234,56", 1234.56},
		{"1234,56", 1234.56},
		{"1234.56", 1234.56},
		{" R$ 10.000,00 ", 10000},
		{"-120,50", -120.50},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if err != nil {
				t.Fatalf("ParseAmount(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
