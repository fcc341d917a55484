// Package app wires the pipeline stages into a single newsletter run.
package app

import (
	"context"
	"time"

	"cyberbrief/internal/archive"
	"cyberbrief/internal/config"
	"cyberbrief/internal/digest"
	"cyberbrief/internal/feed"
	"cyberbrief/internal/logger"
	"cyberbrief/internal/mailer"
	"cyberbrief/internal/metrics"
	"cyberbrief/internal/news"
	"cyberbrief/internal/retry"
)

// Exit codes reported to the scheduler. A digest was produced in both
// the OK and EmptyDigest cases; EmptyDigest flags a degraded run where
// no item survived into any section. Config failures exit before any
// fetch and are handled in main.
const (
	ExitOK          = 0
	ExitConfigError = 1
	ExitEmptyDigest = 2
)

// Run executes one end-to-end newsletter run: fetch → normalize →
// filter → classify → score → render → archive → deliver. Source and
// record failures are absorbed as statistics; only a fully empty
// digest degrades the exit code.
func Run(ctx context.Context, cfg *config.Config) int {
	runStart := time.Now().UTC()
	stats := metrics.NewRunStats()

	logger.Info("starting newsletter run", "sources", len(cfg.Sources))

	results := feed.FetchAll(ctx, cfg.Sources, stats)

	items := news.Normalize(results, cfg, stats)
	items = news.Filter(items, cfg, runStart, stats)
	items = news.Classify(items, cfg, stats)
	items = news.Score(items, cfg, runStart)

	d := digest.Render(items, cfg, runStart)
	stats.ItemsIncluded(d.ItemCount)
	stats.RecordProcessingTime(time.Since(runStart))

	if d.Empty() {
		logger.Warn("no qualifying items in any section, rendering placeholder digest")
	}

	// Archive before delivery: the backup is the artifact of record.
	if _, err := archive.Save(cfg.ArchiveDir, d, stats.Snapshot()); err != nil {
		logger.Error("archive failed", "err", err)
	}

	deliver(ctx, cfg, d)

	summary := stats.Snapshot()
	logger.Info("run complete",
		"sources_ok", summary["sources_succeeded"],
		"sources_attempted", summary["sources_attempted"],
		"items_processed", summary["items_processed"],
		"items_stale", summary["items_stale"],
		"duplicates", summary["duplicates_filtered"],
		"discarded", summary["items_discarded"],
		"rendered", summary["items_rendered"],
	)

	if d.Empty() {
		return ExitEmptyDigest
	}
	return ExitOK
}

// deliver hands the digest to the mail collaborator. Failure here is
// reported, never fatal: the digest was produced and archived.
func deliver(ctx context.Context, cfg *config.Config, d digest.Digest) {
	if !cfg.Email.Configured() {
		logger.Info("email not configured, newsletter saved to archive only")
		return
	}

	rc := retry.Config{MaxAttempts: cfg.RetryAttempts, Delay: cfg.RetryDelay, Backoff: true}
	if err := mailer.Send(ctx, cfg.Email, d.Subject(), d.Text, rc); err != nil {
		logger.Error("delivery failed", "err", err)
	}
}
