package news

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberbrief/internal/config"
	"cyberbrief/internal/metrics"
)

func classifyOne(t *testing.T, item Item) Category {
	t.Helper()
	cfg := config.Default()
	out := Classify([]Item{item}, cfg, metrics.NewRunStats())
	require.Len(t, out, 1)
	return out[0].Category
}

func TestClassify_RegulationBeatsBreach(t *testing.T) {
	got := classifyOne(t, Item{
		Title:   "SEC charges software maker over breach disclosure failures",
		Summary: "The regulator filed charges after a major data breach.",
	})
	assert.Equal(t, Regulation, got)
}

func TestClassify_BreachBeatsAI(t *testing.T) {
	// An AI vendor getting breached is a breach story; the rule order,
	// not match count, decides.
	got := classifyOne(t, Item{
		Title:   "AI startup hacked, customer records exposed",
		Summary: "Attackers exfiltrated training data from the machine learning platform.",
	})
	assert.Equal(t, Breach, got)
}

func TestClassify_AISection(t *testing.T) {
	got := classifyOne(t, Item{
		Title:   "Researchers demonstrate prompt injection against coding assistants",
		Summary: "A new class of large language model weakness.",
	})
	assert.Equal(t, AI, got)
}

func TestClassify_DefaultCyberNews(t *testing.T) {
	got := classifyOne(t, Item{
		Title:   "New malware strain targets enterprise VPN appliances",
		Summary: "The campaign abuses stolen certificates.",
	})
	assert.Equal(t, CyberNews, got)
}

func TestClassify_IrrelevantDiscarded(t *testing.T) {
	stats := metrics.NewRunStats()
	out := Classify([]Item{{
		Title:   "Local bakery wins pastry award",
		Summary: "Croissants were excellent this year.",
	}}, config.Default(), stats)

	assert.Equal(t, Discarded, out[0].Category)
	assert.Equal(t, int64(1), stats.Snapshot()["items_discarded"])
}

func TestClassify_ExcludedTopicsDiscarded(t *testing.T) {
	// Matches security keywords but is an excluded consumer topic.
	got := classifyOne(t, Item{
		Title:   "Friday Squid Blogging: squid-themed security metaphors",
		Summary: "A lighter take on cyber security.",
	})
	assert.Equal(t, Discarded, got)
}

func TestClassify_AdvisoryBypassesRules(t *testing.T) {
	got := classifyOne(t, Item{
		Title:   "CVE-2026-1234 - Auth Bypass",
		Summary: "Regulatory lawsuit breach AI keywords everywhere.",
		Vuln:    &VulnerabilityRecord{CVEID: "CVE-2026-1234"},
	})
	assert.Equal(t, Vulnerability, got)
}

func TestClassify_NoUnclassifiedLeavesStage(t *testing.T) {
	cfg := config.Default()
	items := []Item{
		{Title: "Zero-day exploited in the wild", Summary: "patch now"},
		{Title: "Cat video compilation", Summary: "cats"},
		{Title: "CVE-2026-9 - RCE", Vuln: &VulnerabilityRecord{CVEID: "CVE-2026-9"}},
	}

	for _, item := range Classify(items, cfg, metrics.NewRunStats()) {
		assert.NotEqual(t, Unclassified, item.Category)
	}
}
