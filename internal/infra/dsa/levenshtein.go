// Package dsa holds small self-contained data-structure and algorithm
// helpers used by the audit rules.
package dsa

// ─── Levenshtein Distance ───────────────────────────────────────────────────
// Edit distance for fuzzy duplicate-name detection. Two-row dynamic
// programming: O(len(a)*len(b)) time, O(min(len(a),len(b))) space.
// Operates on runes so accented input (pre-normalization) still measures
// character edits, not byte edits.

// Levenshtein returns the minimum number of single-character insertions,
// deletions, and substitutions needed to turn a into b.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	// Keep the shorter string on the row axis to minimize the buffer.
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// WithinDistance reports whether Levenshtein(a, b) <= max without always
// computing the full distance: a length difference beyond max settles it.
func WithinDistance(a, b string, max int) bool {
	diff := len([]rune(a)) - len([]rune(b))
	if diff < 0 {
		diff = -diff
	}
	if diff > max {
		return false
	}
	return Levenshtein(a, b) <= max
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
