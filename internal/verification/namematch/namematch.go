// Package namematch implements the fuzzy organisation-name equivalence test
// shared by the registry adapters. A mismatch raises risk but is never by
// itself an error.
package namematch

import "strings"

// suffixes are legal-entity and educational qualifiers stripped before
// comparison. "Acme Training Ltd" and "Acme Training Limited" should agree.
var suffixes = []string{
	"ltd", "limited", "plc", "llp", "lp", "cic", "cio", "company",
	"school", "college", "academy", "university", "institute",
	"centre", "center", "training", "education", "learning",
}

// Normalize lowercases a name, strips entity suffixes and punctuation, and
// collapses whitespace.
func Normalize(name string) string {
	name = strings.ToLower(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	words := strings.Fields(b.String())
	kept := words[:0]
	for _, w := range words {
		if isSuffix(w) {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

func isSuffix(word string) bool {
	for _, s := range suffixes {
		if word == s {
			return true
		}
	}
	return false
}

// Match reports whether two organisation names are plausibly the same entity:
// equal after normalization, one containing the other, or token overlap of at
// least 60%. The test is symmetric.
func Match(a, b string) bool {
	if a == "" || b == "" {
		return false
	}

	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}
	return overlapRatio(na, nb) >= 0.6
}

// overlapRatio is the share of unique tokens the two names have in common.
func overlapRatio(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	intersection := 0
	union := len(setB)
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}
