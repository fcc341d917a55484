package news

import (
	"time"

	"cyberbrief/internal/config"
	"cyberbrief/internal/logger"
	"cyberbrief/internal/metrics"
)

// Filter drops stale items and collapses near-duplicate coverage.
// Output order is the input order of the surviving items, so the whole
// stage is deterministic for identical input.
func Filter(items []Item, cfg *config.Config, runStart time.Time, stats *metrics.RunStats) []Item {
	recent := filterRecent(items, cfg, runStart, stats)
	return dedup(recent, cfg, stats)
}

func filterRecent(items []Item, cfg *config.Config, runStart time.Time, stats *metrics.RunStats) []Item {
	maxAge := map[string]time.Duration{}
	for _, src := range cfg.Sources {
		maxAge[src.ID] = cfg.SourceMaxAge(src)
	}

	kept := make([]Item, 0, len(items))
	for _, item := range items {
		stats.ItemProcessed()

		window, ok := maxAge[item.SourceID]
		if !ok {
			window = cfg.RecencyWindow()
		}

		if runStart.Sub(item.PublishedAt) > window {
			stats.ItemStale()
			continue
		}
		kept = append(kept, item)
	}

	logger.Debug("recency filter", "in", len(items), "out", len(kept))
	return kept
}

// dedup collapses items with the same canonical ID, and items whose
// titles overlap heavily and were published close together (different
// outlets covering one event). The survivor of a duplicate pair is
// picked by a total order — trust rank, then summary completeness,
// then earlier publish time — so reruns are reproducible.
func dedup(items []Item, cfg *config.Config, stats *metrics.RunStats) []Item {
	trust := map[string]int{}
	for _, src := range cfg.Sources {
		trust[src.ID] = src.TrustRank
	}

	var kept []Item
	byID := map[string]int{}

	for _, item := range items {
		if at, dup := byID[item.ID]; dup {
			stats.DuplicateFiltered()
			if beats(item, kept[at], trust) {
				kept[at] = item
			}
			continue
		}

		if at := findSimilar(kept, item, cfg); at >= 0 {
			stats.DuplicateFiltered()
			logger.Debug("near-duplicate collapsed",
				"kept", kept[at].Title, "dropped", item.Title)
			if beats(item, kept[at], trust) {
				delete(byID, kept[at].ID)
				byID[item.ID] = at
				kept[at] = item
			}
			continue
		}

		byID[item.ID] = len(kept)
		kept = append(kept, item)
	}

	return kept
}

// beats reports whether a wins the duplicate pair against b.
func beats(a, b Item, trust map[string]int) bool {
	if trust[a.SourceID] != trust[b.SourceID] {
		return trust[a.SourceID] > trust[b.SourceID]
	}
	if len(a.Summary) != len(b.Summary) {
		return len(a.Summary) > len(b.Summary)
	}
	return a.PublishedAt.Before(b.PublishedAt)
}

func findSimilar(kept []Item, item Item, cfg *config.Config) int {
	for i, other := range kept {
		// Advisory records are identified by CVE, never by title shape.
		if item.Vuln != nil || other.Vuln != nil {
			continue
		}

		delta := item.PublishedAt.Sub(other.PublishedAt)
		if delta < 0 {
			delta = -delta
		}
		if delta > cfg.SimilarityWindow() {
			continue
		}

		if titleSimilarity(item.Title, other.Title) >= cfg.SimilarityThreshold {
			return i
		}
	}
	return -1
}

// titleSimilarity is the Jaccard overlap of the significant title
// tokens: |intersection| / |union| over lowercased tokens with
// stopwords and short tokens removed.
func titleSimilarity(a, b string) float64 {
	setA := map[string]bool{}
	for _, tok := range significantTokens(a) {
		setA[tok] = true
	}
	setB := map[string]bool{}
	for _, tok := range significantTokens(b) {
		setB[tok] = true
	}

	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	common := 0
	for tok := range setA {
		if setB[tok] {
			common++
		}
	}

	union := len(setA) + len(setB) - common
	return float64(common) / float64(union)
}
