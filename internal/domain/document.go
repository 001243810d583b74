package domain

// Check-digit validation for Brazilian tax identifiers.
// CPF: 9 base digits + 2 verification digits (mod-11 over weights 10..2 and 11..2).
// CNPJ: 12 base digits + 2 verification digits (mod-11 over fixed weight tables).

var (
	cnpjWeightsFirst  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeightsSecond = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Valid reports whether the document's number passes the checksum for its type.
func (d Document) Valid() bool {
	n := NormalizeDocument(d.Number)
	switch d.Type {
	case DocumentCPF:
		return ValidCPF(n)
	case DocumentCNPJ:
		return ValidCNPJ(n)
	default:
		return false
	}
}

// ValidCPF validates an individual tax-ID (digits only, 11 chars).
func ValidCPF(number string) bool {
	if len(number) != 11 || allSameDigit(number) {
		return false
	}
	d, ok := toDigits(number)
	if !ok {
		return false
	}

	if cpfCheckDigit(d[:9], 10) != d[9] {
		return false
	}
	return cpfCheckDigit(d[:10], 11) == d[10]
}

// ValidCNPJ validates an organization tax-ID (digits only, 14 chars).
func ValidCNPJ(number string) bool {
	if len(number) != 14 || allSameDigit(number) {
		return false
	}
	d, ok := toDigits(number)
	if !ok {
		return false
	}

	if cnpjCheckDigit(d[:12], cnpjWeightsFirst) != d[12] {
		return false
	}
	return cnpjCheckDigit(d[:13], cnpjWeightsSecond) == d[13]
}

// cpfCheckDigit computes a CPF verification digit over the given prefix.
// Weights descend from startWeight to 2; result is (sum*10 mod 11) mod 10.
func cpfCheckDigit(digits []int, startWeight int) int {
	sum := 0
	for i, d := range digits {
		sum += d * (startWeight - i)
	}
	r := sum * 10 % 11
	if r == 10 {
		r = 0
	}
	return r
}

// cnpjCheckDigit computes a CNPJ verification digit with a fixed weight table.
func cnpjCheckDigit(digits []int, weights []int) int {
	sum := 0
	for i, d := range digits {
		sum += d * weights[i]
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

// toDigits converts a numeric string to a digit slice.
func toDigits(s string) ([]int, bool) {
	out := make([]int, len(s))
	for i, r := range s {
		if r < '0' || r > '9' {
			return nil, false
		}
		out[i] = int(r - '0')
	}
	return out, true
}

// allSameDigit rejects degenerate sequences like "11111111111", which pass
// the raw checksum but are not valid identifiers.
func allSameDigit(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}
