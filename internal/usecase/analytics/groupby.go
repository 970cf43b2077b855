package analytics

import (
	"sort"

	"github.com/marketlens/marketlens/internal/domain"
)

// groupRows buckets rows by key and returns the keys in ascending order so
// grouped output is deterministic.
func groupRows(rows []domain.Row, key func(domain.Row) string) ([]string, map[string][]domain.Row) {
	groups := make(map[string][]domain.Row)
	for _, r := range rows {
		k := key(r)
		groups[k] = append(groups[k], r)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, groups
}

// pairKey is a two-level grouping key, ordered by First then Second.
type pairKey struct {
	First  string
	Second string
}

func groupRowsPair(rows []domain.Row, key func(domain.Row) (string, string)) ([]pairKey, map[pairKey][]domain.Row) {
	groups := make(map[pairKey][]domain.Row)
	for _, r := range rows {
		a, b := key(r)
		k := pairKey{First: a, Second: b}
		groups[k] = append(groups[k], r)
	}
	keys := make([]pairKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].First != keys[j].First {
			return keys[i].First < keys[j].First
		}
		return keys[i].Second < keys[j].Second
	})
	return keys, groups
}
