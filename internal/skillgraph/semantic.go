package skillgraph

import "strings"

// overlapThreshold is the minimum word-overlap ratio for two node
// names to be considered the same concept. Conservative on purpose:
// distinct skills often share common words.
const overlapThreshold = 0.6

// minTokenLen filters trivial words from the overlap comparison.
// Tokens must be strictly longer than this to count.
const minTokenLen = 2

// normalizeName canonicalizes a node name for comparison: lowercase,
// underscores and hyphens become spaces, runs of whitespace collapse.
func normalizeName(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}

// nameTokens returns the set of meaningful words in a normalized name.
func nameTokens(normalized string) map[string]bool {
	tokens := make(map[string]bool)
	for _, w := range strings.Fields(normalized) {
		if len(w) > minTokenLen {
			tokens[w] = true
		}
	}
	return tokens
}

// semanticallyEquivalent reports whether two nodes name the same
// underlying skill. Exact match after normalization always matches.
// Otherwise the word sets must overlap by at least overlapThreshold
// of the larger set AND the nodes must share a tier; names with no
// meaningful words never match by overlap.
func semanticallyEquivalent(a, b SkillNode) bool {
	na, nb := normalizeName(a.Name), normalizeName(b.Name)
	if na == nb {
		return true
	}
	if a.Tier != b.Tier {
		return false
	}

	ta, tb := nameTokens(na), nameTokens(nb)
	larger := len(ta)
	if len(tb) > larger {
		larger = len(tb)
	}
	if larger == 0 {
		return false
	}

	common := 0
	for w := range ta {
		if tb[w] {
			common++
		}
	}
	return float64(common)/float64(larger) >= overlapThreshold
}
