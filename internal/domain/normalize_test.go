package domain

import "testing"

// ─── Name Normalization Tests ───────────────────────────────────────────────

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "Maria Da Silva", "maria da silva"},
		{"collapse whitespace", "maria  da   silva", "maria da silva"},
		{"leading trailing space", "  João Souza  ", "joao souza"},
		{"diacritics stripped", "José Antônio Conceição", "jose antonio conceicao"},
		{"punctuation dropped", "Silva, Maria (Filha)", "silva maria filha"},
		{"empty", "", ""},
		{"only punctuation", "...", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeName(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeName_CaseSpaceVariantsCollapse(t *testing.T) {
	// Two registry entries that differ only in case and spacing must
	// normalize to the same string, making them exact duplicates.
	a := NormalizeName("Maria Da Silva")
	b := NormalizeName("maria  da silva")
	if a != b {
		t.Errorf("normalized names differ: %q vs %q", a, b)
	}
}

func TestNormalizeDocument(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"529.982.247-25", "52998224725"},
		{"11.222.333/0001-81", "11222333000181"},
		{"52998224725", "52998224725"},
		{"abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := NormalizeDocument(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeDocument(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
