// Package textmatch finds shared text between two comments.
// Offsets and lengths are counted in runes, not bytes.
package textmatch

import "strings"

// Match is a common contiguous run: A and B are its start offsets in the
// first and second input, Size its length. Size 0 means nothing matched.
type Match struct {
	A    int
	B    int
	Size int
}

// End returns the offset in the first input just past the match.
func (m Match) End() int {
	return m.A + m.Size
}

// LongestCommonSubstring returns the longest run of runes that appears
// identically in a and b. Ties go to the earliest start in a, then in b.
func LongestCommonSubstring(a, b string) Match {
	return LongestCommon([]rune(a), []rune(b))
}

// LongestCommon is LongestCommonSubstring over pre-split rune slices.
func LongestCommon(a, b []rune) Match {
	if len(a) == 0 || len(b) == 0 {
		return Match{}
	}

	// run[j+1] is the length of the common suffix of a[:i+1] and b[:j+1].
	prev := make([]int, len(b)+1)
	run := make([]int, len(b)+1)

	var best Match
	for i := range a {
		for j := range b {
			if a[i] != b[j] {
				run[j+1] = 0
				continue
			}
			run[j+1] = prev[j] + 1
			if run[j+1] > best.Size {
				best = Match{
					A:    i - run[j+1] + 1,
					B:    j - run[j+1] + 1,
					Size: run[j+1],
				}
			}
		}
		prev, run = run, prev
	}

	return best
}

// Contains reports whether token occurs in text. An empty token never
// matches, so a missing author name cannot count as a mention.
func Contains(text, token string) bool {
	if token == "" {
		return false
	}
	return strings.Contains(text, token)
}

// Enclosed reports whether the span [start, start+size) of text is
// directly preceded and followed by one of the given quote runes.
func Enclosed(text []rune, start, size int, quotes string) bool {
	before, after := start-1, start+size
	if before < 0 || after >= len(text) {
		return false
	}
	return strings.ContainsRune(quotes, text[before]) && strings.ContainsRune(quotes, text[after])
}
