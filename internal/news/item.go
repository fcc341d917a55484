// Package news holds the canonical item model and the pipeline stages
// that turn raw feed entries into ranked, sectioned newsletter items.
package news

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Category is the newsletter section an item belongs to. Unclassified
// items never reach the renderer: the classifier either assigns a real
// section or marks the item Discarded.
type Category string

const (
	Unclassified  Category = "unclassified"
	CyberNews     Category = "cyber_news"
	Breach        Category = "breach"
	Regulation    Category = "regulation"
	AI            Category = "ai"
	Vulnerability Category = "vulnerability"
	Discarded     Category = "discarded"
)

// Item is the canonical unit flowing through the pipeline.
type Item struct {
	ID         string
	Title      string
	Summary    string
	URL        string
	SourceID   string
	SourceName string

	PublishedAt        time.Time // always UTC
	TimestampUncertain bool

	Category     Category
	Score        float64
	PriorityTags []string

	// Vuln is set only for advisory-source items.
	Vuln *VulnerabilityRecord
}

// VulnerabilityRecord carries the advisory-specific fields rendered in
// the vulnerability section instead of a business summary.
type VulnerabilityRecord struct {
	CVEID         string
	VendorProduct string
	Description   string
	DateAdded     time.Time
	ActionDue     string
}

// CanonicalID derives the dedup identity from the canonicalized URL,
// falling back to the normalized title when the URL is unusable.
func CanonicalID(rawURL, title string) string {
	key := canonicalURL(rawURL)
	if key == "" {
		key = "title:" + normalizeTitle(title)
	}
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])[:16]
}

// canonicalURL strips the parts of a link that vary without changing
// the underlying article: scheme, www, tracking params, fragment,
// trailing slash.
func canonicalURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return ""
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")

	q := u.Query()
	for param := range q {
		if strings.HasPrefix(strings.ToLower(param), "utm_") {
			q.Del(param)
		}
	}

	path := strings.TrimSuffix(u.Path, "/")

	key := host + path
	if enc := q.Encode(); enc != "" {
		key += "?" + enc
	}
	return key
}

func normalizeTitle(title string) string {
	return strings.Join(significantTokens(title), " ")
}

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "of": true,
	"in": true, "on": true, "to": true, "for": true, "with": true, "by": true,
	"is": true, "are": true, "at": true, "as": true, "from": true, "after": true,
}

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// significantTokens lowercases, strips punctuation and drops stopwords
// and very short tokens. Both the title-identity fallback and the
// near-duplicate similarity check build on it.
func significantTokens(text string) []string {
	fields := strings.Fields(nonWord.ReplaceAllString(strings.ToLower(text), " "))

	tokens := make([]string, 0, len(fields))
	for _, w := range fields {
		if len(w) <= 2 || stopWords[w] {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// containsAny reports whether any keyword occurs in text. Phrases use
// substring matching; short tokens (<=3 chars, "ai", "apt", "sec")
// require word boundaries so "ai" never matches "said".
func containsAny(text string, keywords []string) bool {
	text = strings.ToLower(text)

	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}

		if strings.Contains(k, " ") {
			if strings.Contains(text, k) {
				return true
			}
			continue
		}

		if len(k) <= 3 {
			re := regexp.MustCompile(`\b` + regexp.QuoteMeta(k) + `\b`)
			if re.MatchString(text) {
				return true
			}
			continue
		}

		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
