// Package digest selects the top items per section and renders the
// final plain-text newsletter.
package digest

import (
	"fmt"
	"strings"
	"time"

	"cyberbrief/internal/config"
	"cyberbrief/internal/news"
)

// Digest is the rendered newsletter plus the manifest of what made it
// in, keyed by section.
type Digest struct {
	Text        string
	Included    map[string][]string
	ItemCount   int
	GeneratedAt time.Time
}

// Empty reports whether no item survived into any section. The digest
// text is still a complete placeholder newsletter in that case.
func (d Digest) Empty() bool { return d.ItemCount == 0 }

// Subject is the delivery subject line for the digest.
func (d Digest) Subject() string {
	return "CyberBrief Daily - " + d.GeneratedAt.Format("January 2, 2006")
}

// Render partitions classified items into the configured sections,
// ranks each partition, applies the per-section caps and produces the
// digest. Section order, caps and placeholders come from config, so
// the output shape is identical run to run.
func Render(items []news.Item, cfg *config.Config, now time.Time) Digest {
	bySection := map[string][]news.Item{}
	for _, item := range items {
		key := string(item.Category)
		bySection[key] = append(bySection[key], item)
	}

	d := Digest{
		Included:    map[string][]string{},
		GeneratedAt: now.UTC(),
	}

	var picked [][]news.Item
	for _, sec := range cfg.Sections {
		pool := bySection[sec.Key]
		news.Rank(pool)
		if len(pool) > sec.Cap {
			pool = pool[:sec.Cap]
		}
		picked = append(picked, pool)

		ids := make([]string, 0, len(pool))
		for _, item := range pool {
			ids = append(ids, item.ID)
		}
		d.Included[sec.Key] = ids
		d.ItemCount += len(pool)
	}

	var b strings.Builder
	writeHeader(&b, d.GeneratedAt)

	if d.Empty() {
		b.WriteString("No qualifying items today.\n\n")
	}

	for i, sec := range cfg.Sections {
		writeSection(&b, sec, picked[i], cfg)
	}

	writeFooter(&b, cfg, d.GeneratedAt)

	d.Text = b.String()
	return d
}

func writeHeader(b *strings.Builder, now time.Time) {
	b.WriteString("CYBERBRIEF DAILY\n")
	b.WriteString("Executive Cyber Threat Intelligence\n")
	b.WriteString(now.Format("January 2, 2006"))
	b.WriteString("\n\n")
}

func writeSection(b *strings.Builder, sec config.Section, items []news.Item, cfg *config.Config) {
	b.WriteString(sec.Title + "\n")
	b.WriteString(strings.Repeat("=", len([]rune(sec.Title))) + "\n\n")

	if len(items) == 0 {
		b.WriteString("No notable items today.\n\n")
		return
	}

	for _, item := range items {
		if item.Vuln != nil {
			writeVulnItem(b, item)
		} else {
			writeNewsItem(b, item, cfg)
		}
	}
}

func writeNewsItem(b *strings.Builder, item news.Item, cfg *config.Config) {
	fmt.Fprintf(b, "• %s%s\n", item.Title, markers(item, cfg))
	if item.Summary != "" {
		fmt.Fprintf(b, "  %s\n", item.Summary)
	}
	fmt.Fprintf(b, "  Source: %s | %s\n\n", item.SourceName, item.URL)
}

func writeVulnItem(b *strings.Builder, item news.Item) {
	v := item.Vuln
	fmt.Fprintf(b, "• %s - %s\n", v.CVEID, v.VendorProduct)
	fmt.Fprintf(b, "  Added: %s\n", v.DateAdded.Format("2006-01-02"))
	if v.Description != "" {
		fmt.Fprintf(b, "  Risk: %s\n", v.Description)
	}
	if v.ActionDue != "" {
		fmt.Fprintf(b, "  Action due: %s\n", v.ActionDue)
	}
	b.WriteString("\n")
}

// markers renders one glyph per matched high-priority tag, in config
// order. Tags with no glyph (the low-weight ones) render nothing.
func markers(item news.Item, cfg *config.Config) string {
	matched := map[string]bool{}
	for _, tag := range item.PriorityTags {
		matched[tag] = true
	}

	var glyphs []string
	for _, pt := range cfg.PriorityTags {
		if pt.Glyph != "" && matched[pt.Tag] {
			glyphs = append(glyphs, pt.Glyph)
		}
	}

	if len(glyphs) == 0 {
		return ""
	}
	return " " + strings.Join(glyphs, "")
}

func writeFooter(b *strings.Builder, cfg *config.Config, now time.Time) {
	var sources []string
	for _, src := range cfg.Sources {
		sources = append(sources, src.Name)
	}

	b.WriteString(strings.Repeat("=", 40) + "\n")
	b.WriteString("CyberBrief Daily\n")
	fmt.Fprintf(b, "Generated: %s\n", now.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(b, "Sources: %s\n", strings.Join(sources, ", "))

	var legend []string
	for _, pt := range cfg.PriorityTags {
		if pt.Glyph != "" {
			legend = append(legend, pt.Glyph+" = "+strings.ReplaceAll(pt.Tag, "_", " "))
		}
	}
	if len(legend) > 0 {
		b.WriteString(strings.Join(legend, "  ") + "\n")
	}
}
