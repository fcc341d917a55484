package news

import (
	"strings"

	"cyberbrief/internal/config"
	"cyberbrief/internal/logger"
	"cyberbrief/internal/metrics"
)

// Classify assigns every item exactly one category. Advisory items go
// straight to the vulnerability section; everything else runs through
// the ordered rule list, then the general relevance check, and what
// fails both is discarded. No item leaves this stage unclassified.
func Classify(items []Item, cfg *config.Config, stats *metrics.RunStats) []Item {
	out := make([]Item, len(items))

	for i, item := range items {
		item.Category = categorize(item, cfg)
		if item.Category == Discarded {
			stats.ItemDiscarded()
		}
		out[i] = item
	}

	logger.Debug("classified items", "count", len(out))
	return out
}

func categorize(item Item, cfg *config.Config) Category {
	if item.Vuln != nil {
		return Vulnerability
	}

	text := strings.ToLower(item.Title + " " + item.Summary)

	if containsAny(text, cfg.ExcludeKeywords) {
		return Discarded
	}

	// First matching rule wins; rule order encodes topic priority
	// (regulation > breach > ai), not match strength.
	for _, rule := range cfg.CategoryRules {
		if containsAny(text, rule.Keywords) {
			return Category(rule.Category)
		}
	}

	if containsAny(text, cfg.RelevanceKeywords) {
		return CyberNews
	}

	return Discarded
}
