package retrieval

import (
	"sort"

	"morning-pulse-be/pkg/store"
)

const (
	// DefaultTopK is the number of stories handed to the prompt when no limit is given.
	DefaultTopK = 10
	// PerCategoryCap bounds how many stories one category may contribute.
	PerCategoryCap = 2
)

// Select narrows scored stories to at most topK, taking no more than
// PerCategoryCap from any one category so a broad query keeps several
// perspectives. The input slice is not modified.
func Select(scored []store.ScoredStory, topK int) []store.ScoredStory {
	if topK <= 0 {
		topK = DefaultTopK
	}

	order := make([]string, 0)
	groups := make(map[string][]store.ScoredStory)
	for _, s := range scored {
		if _, seen := groups[s.Category]; !seen {
			order = append(order, s.Category)
		}
		groups[s.Category] = append(groups[s.Category], s)
	}

	merged := make([]store.ScoredStory, 0, len(order)*PerCategoryCap)
	for _, category := range order {
		group := groups[category]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Score > group[j].Score
		})
		if len(group) > PerCategoryCap {
			group = group[:PerCategoryCap]
		}
		merged = append(merged, group...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	if len(merged) > topK {
		merged = merged[:topK]
	}
	return merged
}
