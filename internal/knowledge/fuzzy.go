package knowledge

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// RankByName orders items by how closely their name matches query and drops
// those too far away. Substring matches rank ahead of edit-distance matches.
func RankByName[T any](items []T, name func(T) string, query string, limit int) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	maxDistance := len(q) / 3
	if maxDistance < 2 {
		maxDistance = 2
	}

	type scored struct {
		item  T
		name  string
		score int
	}
	var ranked []scored
	for _, it := range items {
		n := strings.ToLower(name(it))
		var score int
		switch {
		case n == q:
			score = 0
		case strings.Contains(n, q):
			score = 1
		default:
			d := levenshtein.ComputeDistance(n, q)
			if d > maxDistance {
				continue
			}
			score = 1 + d
		}
		ranked = append(ranked, scored{item: it, name: n, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score < ranked[j].score
		}
		return ranked[i].name < ranked[j].name
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]T, len(ranked))
	for i, r := range ranked {
		out[i] = r.item
	}
	return out
}
