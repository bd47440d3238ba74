package stats

import "sort"

// WeakWords returns up to n words with the lowest average score. Ties are
// broken alphabetically.
func WeakWords(words []WordStat, n int) []string {
	if n <= 0 || len(words) == 0 {
		return nil
	}
	candidates := make([]WordStat, len(words))
	copy(candidates, words)
	sort.Slice(candidates, func(i, j int) bool {
		ai, aj := candidates[i].Average(), candidates[j].Average()
		if ai == aj {
			return candidates[i].Word < candidates[j].Word
		}
		return ai < aj
	})
	n = min(n, len(candidates))
	out := make([]string, 0, n)
	for _, c := range candidates[:n] {
		out = append(out, c.Word)
	}
	return out
}
