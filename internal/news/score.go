package news

import (
	"sort"
	"strings"
	"time"

	"cyberbrief/internal/config"
)

// Score computes each item's relevance: the summed weights of every
// matched priority tag plus a small bonus that decays linearly to zero
// at the edge of the item's recency window. The bonus only separates
// items whose tag scores tie — the maximum bonus is smaller than any
// single tag weight.
func Score(items []Item, cfg *config.Config, runStart time.Time) []Item {
	window := map[string]time.Duration{}
	for _, src := range cfg.Sources {
		window[src.ID] = cfg.SourceMaxAge(src)
	}

	out := make([]Item, len(items))
	for i, item := range items {
		item.PriorityTags = matchTags(item, cfg)

		score := 0.0
		for _, tag := range item.PriorityTags {
			score += float64(tagWeight(tag, cfg))
		}

		w, ok := window[item.SourceID]
		if !ok {
			w = cfg.RecencyWindow()
		}
		score += recencyBonus(runStart.Sub(item.PublishedAt), w, cfg.MaxRecencyBonus)

		item.Score = score
		out[i] = item
	}
	return out
}

// matchTags returns the tags whose keyword set hits the item text, in
// config order. Each tag counts once no matter how many of its
// keywords match.
func matchTags(item Item, cfg *config.Config) []string {
	text := strings.ToLower(item.Title + " " + item.Summary)

	var tags []string
	for _, pt := range cfg.PriorityTags {
		if containsAny(text, pt.Keywords) {
			tags = append(tags, pt.Tag)
		}
	}
	return tags
}

func tagWeight(tag string, cfg *config.Config) int {
	for _, pt := range cfg.PriorityTags {
		if pt.Tag == tag {
			return pt.Weight
		}
	}
	return 0
}

func recencyBonus(age, window time.Duration, maxBonus float64) float64 {
	if window <= 0 || age >= window {
		return 0
	}
	if age < 0 {
		age = 0
	}
	return maxBonus * (1 - float64(age)/float64(window))
}

// Rank orders items by score descending, then newest first, then
// source name. The sort is stable so full ties keep the deterministic
// merge order and identical input always renders identically.
func Rank(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		if !items[i].PublishedAt.Equal(items[j].PublishedAt) {
			return items[i].PublishedAt.After(items[j].PublishedAt)
		}
		return items[i].SourceName < items[j].SourceName
	})
}
