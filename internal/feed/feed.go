// Package feed fetches external sources into per-source raw results.
// Every failure is captured as a status on the result; nothing escapes
// the adapter boundary, so one broken feed never touches the others.
package feed

import (
	"context"
	"errors"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"cyberbrief/internal/config"
	"cyberbrief/internal/logger"
	"cyberbrief/internal/metrics"
)

// Status is the per-source fetch outcome.
type Status string

const (
	StatusOK          Status = "ok"
	StatusTimeout     Status = "timeout"
	StatusParseError  Status = "parse_error"
	StatusUnreachable Status = "unreachable"
)

// Result is the raw outcome of fetching one source. Exactly one of
// Items or KEVRows is populated depending on the source kind, and both
// are nil on failure. A successful fetch with zero entries is valid —
// no new advisories today is not an error.
type Result struct {
	Source    config.Source
	Status    Status
	Items     []*gofeed.Item
	KEVRows   []KEVRow
	Skipped   int
	FetchedAt time.Time
	Err       error
}

// OK reports whether the source was fetched and parsed successfully.
func (r Result) OK() bool { return r.Status == StatusOK }

// FetchAll fetches every source concurrently, each under its own
// timeout, and returns results in source order so downstream stages see
// a deterministic merge regardless of completion order.
func FetchAll(ctx context.Context, sources []config.Source, stats *metrics.RunStats) []Result {
	results := make([]Result, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		stats.SourceAttempted()

		wg.Add(1)
		go func(i int, src config.Source) {
			defer wg.Done()
			results[i] = fetchOne(ctx, src)
		}(i, src)
	}
	wg.Wait()

	for _, res := range results {
		if res.OK() {
			stats.SourceSucceeded(len(res.Items) + len(res.KEVRows))
			logger.Info("source fetched",
				"source", res.Source.ID,
				"entries", len(res.Items)+len(res.KEVRows),
				"skipped", res.Skipped)
		} else {
			logger.Warn("source failed",
				"source", res.Source.ID,
				"status", string(res.Status),
				"err", res.Err)
		}
	}

	return results
}

func fetchOne(ctx context.Context, src config.Source) Result {
	ctx, cancel := context.WithTimeout(ctx, src.Timeout())
	defer cancel()

	switch src.Kind {
	case "kev":
		return fetchKEV(ctx, src)
	default:
		return fetchRSS(ctx, src)
	}
}

func fetchRSS(ctx context.Context, src config.Source) Result {
	res := Result{Source: src, FetchedAt: time.Now().UTC()}

	parser := gofeed.NewParser()
	parsed, err := parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		res.Status = classifyError(err)
		res.Err = err
		return res
	}

	res.Status = StatusOK
	res.Items = parsed.Items
	return res
}

// classifyError folds transport-level failures into the status enum.
func classifyError(err error) Status {
	if errors.Is(err, context.DeadlineExceeded) {
		return StatusTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return StatusTimeout
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return StatusUnreachable
	}

	var httpErr gofeed.HTTPError
	if errors.As(err, &httpErr) {
		return StatusUnreachable
	}

	return StatusParseError
}
