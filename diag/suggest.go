package diag

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggest returns the candidate closest to name. Candidates containing the
// letters of name in order are preferred; otherwise the candidate with the
// smallest edit distance wins if it is close enough to be a typo.
func Suggest(name string, candidates []string) (string, bool) {
	if name == "" || len(candidates) == 0 {
		return "", false
	}

	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target, true
	}

	best, distance := "", len(name)/2+1
	for _, candidate := range candidates {
		if d := fuzzy.LevenshteinDistance(name, candidate); d < distance {
			best, distance = candidate, d
		}
	}
	return best, best != ""
}
