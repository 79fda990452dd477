package fm

import (
	"sort"
	"strings"

	"github.com/logandonley/fontgrab/internal/fuzzy"
)

const (
	// MinScore is the lowest score a catalog entry needs to be returned
	MinScore = 60

	// MaxResults caps the number of matches returned per search
	MaxResults = 5
)

type scored struct {
	entry CatalogEntry
	score int
	ratio int
}

// Match ranks catalog entries against query. Entries scoring below
// MinScore are dropped and at most MaxResults are returned, best first.
// Equal scores are ordered by whole-string similarity, then catalog order,
// so an exact name match always leads its ties.
func Match(query string, catalog []CatalogEntry) []SearchResult {
	q := normalize(query)

	var matches []scored
	for _, e := range catalog {
		name := normalize(e.Family)
		ratio := fuzzy.Ratio(q, name)
		score := max(ratio, fuzzy.PartialRatio(q, name))
		if score < MinScore {
			continue
		}
		matches = append(matches, scored{entry: e, score: score, ratio: ratio})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].ratio > matches[j].ratio
	})

	if len(matches) > MaxResults {
		matches = matches[:MaxResults]
	}

	results := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, SearchResult{
			Name:     m.entry.Family,
			Variants: append([]string(nil), m.entry.Variants...),
			SourceID: m.entry.Family,
			Score:    m.score,
		})
	}
	return results
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
