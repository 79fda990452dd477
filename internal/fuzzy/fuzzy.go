// Package fuzzy scores how closely two strings match on a 0-100 scale.
//
// Ratio is the normalized Indel similarity of the two strings and
// PartialRatio is the best Ratio of the shorter string against any
// same-length window of the longer one. Score combines both the way the
// font search ranks catalog entries.
package fuzzy

import (
	"math"
	"slices"

	"github.com/hbollon/go-edlib"
)

// Ratio returns round(100 * 2*LCS / (len(a)+len(b))) over runes.
func Ratio(a, b string) int {
	return ratio([]rune(a), []rune(b))
}

// PartialRatio returns the best Ratio between the shorter string and every
// window of the longer string, including partial windows touching either
// end. A substring match scores 100.
func PartialRatio(a, b string) int {
	s, l := []rune(a), []rune(b)
	if len(s) > len(l) {
		s, l = l, s
	}
	if len(s) == 0 {
		return 0
	}
	if slices.Equal(s, l) {
		return 100
	}

	best := 0
	n := len(s)
	for start := 0; start+n <= len(l); start++ {
		if r := ratio(s, l[start:start+n]); r > best {
			best = r
			if best == 100 {
				return best
			}
		}
	}
	for k := 1; k < n && k <= len(l); k++ {
		if r := ratio(s, l[:k]); r > best {
			best = r
		}
		if r := ratio(s, l[len(l)-k:]); r > best {
			best = r
		}
	}
	return best
}

// Score is max(Ratio, PartialRatio).
func Score(a, b string) int {
	return max(Ratio(a, b), PartialRatio(a, b))
}

func ratio(a, b []rune) int {
	total := len(a) + len(b)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if slices.Equal(a, b) {
		return 100
	}
	sim := 100 * float64(2*edlib.LCS(string(a), string(b))) / float64(total)
	return int(math.RoundToEven(sim))
}
