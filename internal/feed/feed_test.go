package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberbrief/internal/config"
	"cyberbrief/internal/logger"
	"cyberbrief/internal/metrics"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<title>Test Feed</title>
<item>
  <title>Story one</title>
  <link>https://example.com/1</link>
  <pubDate>Mon, 24 Aug 2026 10:00:00 GMT</pubDate>
</item>
<item>
  <title>Story two</title>
  <link>https://example.com/2</link>
  <pubDate>Mon, 24 Aug 2026 11:00:00 GMT</pubDate>
</item>
</channel></rss>`

const emptyRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Quiet Feed</title></channel></rss>`

func rssServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func src(id, url, kind string) config.Source {
	return config.Source{ID: id, Name: id, URL: url, Kind: kind, TrustRank: 3, TimeoutSeconds: 5}
}

func TestFetchAll_MixedOutcomesStayIsolated(t *testing.T) {
	good := rssServer(t, sampleRSS)
	quiet := rssServer(t, emptyRSS)
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(broken.Close)

	sources := []config.Source{
		src("good", good.URL, "rss"),
		src("broken", broken.URL, "rss"),
		src("quiet", quiet.URL, "rss"),
	}
	stats := metrics.NewRunStats()

	results := FetchAll(context.Background(), sources, stats)
	require.Len(t, results, 3)

	// Results come back in source order regardless of completion order.
	assert.Equal(t, "good", results[0].Source.ID)
	assert.Equal(t, "broken", results[1].Source.ID)
	assert.Equal(t, "quiet", results[2].Source.ID)

	assert.True(t, results[0].OK())
	require.Len(t, results[0].Items, 2)
	assert.Equal(t, "Story one", results[0].Items[0].Title)

	assert.False(t, results[1].OK())
	assert.Error(t, results[1].Err)

	// A reachable feed with zero entries is a success, not a failure.
	assert.True(t, results[2].OK())
	assert.Empty(t, results[2].Items)

	snap := stats.Snapshot()
	assert.Equal(t, int64(3), snap["sources_attempted"])
	assert.Equal(t, int64(2), snap["sources_succeeded"])
	assert.Equal(t, int64(2), snap["entries_fetched"])
}

func TestFetchAll_SlowSourceTimesOut(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(slow.Close)

	s := src("slow", slow.URL, "rss")
	s.TimeoutSeconds = 1

	results := FetchAll(context.Background(), []config.Source{s}, metrics.NewRunStats())
	require.Len(t, results, 1)
	assert.Equal(t, StatusTimeout, results[0].Status)
	assert.Error(t, results[0].Err)
}

func TestFetchAll_UnreachableHost(t *testing.T) {
	results := FetchAll(context.Background(),
		[]config.Source{src("dead", "http://127.0.0.1:1/feed", "rss")},
		metrics.NewRunStats())

	require.Len(t, results, 1)
	assert.Equal(t, StatusUnreachable, results[0].Status)
}

const sampleKEV = `cveID,vendorProject,product,vulnerabilityName,dateAdded,shortDescription,requiredAction,dueDate,notes
CVE-2026-1234,ExampleSoft,Gateway,Auth Bypass,2026-08-20,Remote attackers bypass authentication.,Apply updates per vendor instructions.,2026-09-10,
,Ghost,Row,No CVE here,2026-08-21,Missing identifier.,None.,2026-09-11,
CVE-2026-5678,OtherCorp,Proxy,Memory Corruption,2026-08-22,Crafted requests corrupt memory.,Apply mitigations.,2026-09-12,
`

func TestFetchAll_KEVSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(sampleKEV))
	}))
	t.Cleanup(srv.Close)

	results := FetchAll(context.Background(),
		[]config.Source{src("kev", srv.URL, "kev")},
		metrics.NewRunStats())

	require.Len(t, results, 1)
	res := results[0]
	require.True(t, res.OK())
	require.Len(t, res.KEVRows, 2)
	assert.Equal(t, 1, res.Skipped)

	assert.Equal(t, "CVE-2026-1234", res.KEVRows[0].CVEID)
	assert.Equal(t, "ExampleSoft", res.KEVRows[0].VendorProject)
	assert.Equal(t, "2026-09-10", res.KEVRows[0].DueDate)
	assert.Equal(t, "CVE-2026-5678", res.KEVRows[1].CVEID)
}

func TestFetchAll_KEVNon200IsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	results := FetchAll(context.Background(),
		[]config.Source{src("kev", srv.URL, "kev")},
		metrics.NewRunStats())

	require.Len(t, results, 1)
	assert.Equal(t, StatusUnreachable, results[0].Status)
}

func TestParseKEVCSV_ColumnsByHeaderName(t *testing.T) {
	// Reordered columns still parse; mapping is by name, not position.
	csv := `dueDate,cveID,product,vendorProject,vulnerabilityName,dateAdded,shortDescription,requiredAction
2026-09-10,CVE-2026-1234,Gateway,ExampleSoft,Auth Bypass,2026-08-20,Bypass.,Patch.
`
	rows, skipped, err := parseKEVCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, rows, 1)
	assert.Equal(t, "CVE-2026-1234", rows[0].CVEID)
	assert.Equal(t, "ExampleSoft", rows[0].VendorProject)
	assert.Equal(t, "2026-08-20", rows[0].DateAdded)
}

func TestParseKEVCSV_MissingColumnIsFatal(t *testing.T) {
	csv := "cveID,vendorProject\nCVE-2026-1,Acme\n"
	_, _, err := parseKEVCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestClassifyError_Timeout(t *testing.T) {
	assert.Equal(t, StatusTimeout, classifyError(context.DeadlineExceeded))
}
