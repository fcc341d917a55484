package news

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"cyberbrief/internal/config"
	"cyberbrief/internal/feed"
	"cyberbrief/internal/logger"
	"cyberbrief/internal/metrics"
)

// Normalize converts raw per-source results into canonical items.
// A malformed record is skipped and counted; the rest of the batch
// always survives.
func Normalize(results []feed.Result, cfg *config.Config, stats *metrics.RunStats) []Item {
	var items []Item

	for _, res := range results {
		if !res.OK() {
			continue
		}

		for _, raw := range res.Items {
			item, ok := fromFeedItem(res, raw, cfg.SummaryMaxChars)
			if !ok {
				stats.RecordSkipped()
				continue
			}
			items = append(items, item)
		}

		for _, row := range res.KEVRows {
			item, ok := fromKEVRow(res, row, cfg.SummaryMaxChars)
			if !ok {
				stats.RecordSkipped()
				continue
			}
			items = append(items, item)
		}
	}

	logger.Debug("normalized items", "count", len(items))
	return items
}

func fromFeedItem(res feed.Result, raw *gofeed.Item, maxChars int) (Item, bool) {
	title := strings.TrimSpace(raw.Title)
	link := resolveLink(res.Source.URL, raw.Link)
	if title == "" || link == "" {
		return Item{}, false
	}

	published, uncertain := parsePublished(raw, res.FetchedAt)

	summary := raw.Description
	if summary == "" {
		summary = raw.Content
	}

	return Item{
		ID:                 CanonicalID(link, title),
		Title:              title,
		Summary:            TruncateSummary(StripMarkup(summary), maxChars),
		URL:                link,
		SourceID:           res.Source.ID,
		SourceName:         res.Source.Name,
		PublishedAt:        published,
		TimestampUncertain: uncertain,
		Category:           Unclassified,
	}, true
}

func fromKEVRow(res feed.Result, row feed.KEVRow, maxChars int) (Item, bool) {
	if row.CVEID == "" {
		return Item{}, false
	}

	dateAdded, err := time.Parse("2006-01-02", row.DateAdded)
	if err != nil {
		return Item{}, false
	}
	dateAdded = dateAdded.UTC()

	vendorProduct := strings.TrimSpace(row.VendorProject + " " + row.Product)
	title := row.CVEID
	if row.VulnerabilityName != "" {
		title = row.CVEID + " - " + row.VulnerabilityName
	}

	return Item{
		ID:          CanonicalID("", row.CVEID+" "+vendorProduct),
		Title:       title,
		Summary:     TruncateSummary(StripMarkup(row.ShortDescription), maxChars),
		URL:         "https://nvd.nist.gov/vuln/detail/" + row.CVEID,
		SourceID:    res.Source.ID,
		SourceName:  res.Source.Name,
		PublishedAt: dateAdded,
		Category:    Unclassified,
		Vuln: &VulnerabilityRecord{
			CVEID:         row.CVEID,
			VendorProduct: vendorProduct,
			Description:   TruncateSummary(StripMarkup(row.ShortDescription), maxChars),
			DateAdded:     dateAdded,
			ActionDue:     row.DueDate,
		},
	}, true
}

// resolveLink makes relative links absolute against the feed URL.
func resolveLink(feedURL, link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}

	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		return link
	}

	base, err := url.Parse(feedURL)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}

// feedTimeLayouts covers the date formats seen in the wild beyond what
// gofeed parses on its own.
var feedTimeLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parsePublished(raw *gofeed.Item, fetchedAt time.Time) (time.Time, bool) {
	if raw.PublishedParsed != nil {
		return raw.PublishedParsed.UTC(), false
	}
	if raw.UpdatedParsed != nil {
		return raw.UpdatedParsed.UTC(), false
	}

	for _, layout := range feedTimeLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(raw.Published)); err == nil {
			return t.UTC(), false
		}
	}

	// No usable timestamp: stamp with the fetch time and flag it.
	return fetchedAt.UTC(), true
}

// StripMarkup flattens HTML summaries to plain text and collapses
// whitespace. Feed descriptions routinely carry markup and entities.
func StripMarkup(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err == nil {
		s = doc.Text()
	}

	return strings.Join(strings.Fields(s), " ")
}

// TruncateSummary cuts a summary to the display budget without breaking
// mid-word, preferring a sentence boundary when one lands late enough.
func TruncateSummary(s string, maxChars int) string {
	if maxChars <= 0 || len([]rune(s)) <= maxChars {
		return s
	}

	runes := []rune(s)
	window := string(runes[:maxChars])

	if cut := strings.LastIndex(window, ". "); cut > maxChars/2 {
		return window[:cut+1]
	}

	if cut := strings.LastIndex(window, " "); cut > 0 {
		return window[:cut] + "..."
	}
	return window + "..."
}
