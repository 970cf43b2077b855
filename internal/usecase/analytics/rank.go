package analytics

import "sort"

// DefaultTopK bounds ranked outputs per platform.
const DefaultTopK = 20

type rankedEntry struct {
	Platform string
	Name     string
	Value    float64
}

// rankPerPlatform orders each platform's entries by descending value (name
// ascending on ties) and keeps the top k per platform. keys must be the
// sorted pair keys produced by groupRowsPair.
func rankPerPlatform(keys []pairKey, sums map[pairKey]float64, k int) []rankedEntry {
	if k <= 0 {
		k = DefaultTopK
	}

	byPlatform := make(map[string][]rankedEntry)
	var platforms []string
	for _, key := range keys {
		if _, ok := byPlatform[key.First]; !ok {
			platforms = append(platforms, key.First)
		}
		byPlatform[key.First] = append(byPlatform[key.First], rankedEntry{
			Platform: key.First,
			Name:     key.Second,
			Value:    sums[key],
		})
	}

	var out []rankedEntry
	for _, p := range platforms {
		entries := byPlatform[p]
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Value > entries[j].Value })
		if len(entries) > k {
			entries = entries[:k]
		}
		out = append(out, entries...)
	}
	return out
}
