package config

import "time"

// Default returns the built-in configuration. The YAML file is decoded
// over it, so any field left out of the file keeps these values.
func Default() *Config {
	return &Config{
		Sources: []Source{
			{ID: "bleepingcomputer", Name: "BleepingComputer", URL: "https://www.bleepingcomputer.com/feed/", Kind: "rss", TrustRank: 5, TimeoutSeconds: 15},
			{ID: "krebs", Name: "Krebs on Security", URL: "https://krebsonsecurity.com/feed/", Kind: "rss", TrustRank: 4, TimeoutSeconds: 15},
			{ID: "schneier", Name: "Schneier on Security", URL: "https://www.schneier.com/blog/atom.xml", Kind: "rss", TrustRank: 3, TimeoutSeconds: 15},
			{ID: "sans-isc", Name: "SANS ISC Diary", URL: "https://isc.sans.edu/rssfeed.xml", Kind: "rss", TrustRank: 3, TimeoutSeconds: 15},
			{ID: "threatpost", Name: "Threatpost", URL: "https://threatpost.com/feed/", Kind: "rss", TrustRank: 2, TimeoutSeconds: 15},
			{ID: "cisa-kev", Name: "CISA KEV", URL: "https://www.cisa.gov/sites/default/files/csv/known_exploited_vulnerabilities.csv", Kind: "kev", TrustRank: 5, TimeoutSeconds: 30, MaxAgeHours: 14 * 24},
		},

		Sections: []Section{
			{Key: "cyber_news", Title: "CYBERSECURITY NEWS", Cap: 5},
			{Key: "breach", Title: "BREACH & INCIDENT NEWS", Cap: 5},
			{Key: "regulation", Title: "CYBERSECURITY REGULATION NEWS", Cap: 4},
			{Key: "ai", Title: "AI NEWS", Cap: 4},
			{Key: "vulnerability", Title: "NOTABLE VULNERABILITIES", Cap: 4},
		},

		RecencyWindowHours:    36,
		SimilarityThreshold:   0.6,
		SimilarityWindowHours: 6,
		SummaryMaxChars:       240,
		MaxRecencyBonus:       1.0,

		// First matching rule wins. Regulation outranks breach so that
		// "SEC charges company over breach disclosure" lands in
		// regulation; breach outranks ai so an AI-vendor breach is a
		// breach story, not an AI story.
		CategoryRules: []CategoryRule{
			{
				Category: "regulation",
				Keywords: []string{
					"regulatory", "compliance fine", "gdpr", "ccpa", "sec filing", "sec charges",
					"ftc", "cisa directive", "cisa advisory", "nist framework", "government mandate",
					"new law", "policy change", "court ruling", "lawsuit", "regulatory fine",
					"compliance requirement", "data protection law", "privacy regulation", "privacy law",
					"enforcement action", "penalty", "sanctions", "court order", "legal settlement",
					"doj", "department of justice", "attorney general", "ordered to pay", "fined",
					"consent decree", "agrees to pay", "settlement agreement",
				},
			},
			{
				Category: "breach",
				Keywords: []string{
					"data breach", "breach", "breached", "hacked", "stolen data", "data leak",
					"leaked", "exfiltration", "exfiltrated", "ransomware attack", "records exposed",
					"data exposed", "compromised", "intrusion", "incident response",
					"extortion", "stolen credentials",
				},
			},
			{
				Category: "ai",
				Keywords: []string{
					"artificial intelligence", "machine learning", "ai", "llm", "chatgpt", "openai",
					"neural network", "deepfake", "ai model", "generative ai", "large language model",
					"ai security", "ai vulnerability", "ai attack", "prompt injection",
					"grok", "claude", "gemini", "copilot", "ai-powered", "ai tool", "ai system",
				},
			},
		},

		// An item matching none of the category rules still makes the
		// default cyber_news section when one of these appears.
		RelevanceKeywords: []string{
			"cyber", "security", "hack", "breach", "vulnerability", "malware", "ransomware",
			"attack", "threat", "exploit", "zero-day", "enterprise", "corporate",
			"microsoft", "google", "amazon", "cloud", "server", "network",
			"phishing", "social engineering", "insider threat", "nation state",
			"apt", "advanced persistent threat", "privacy", "encryption",
			"authentication", "critical infrastructure", "supply chain",
			"financial", "banking", "healthcare", "government",
		},

		ExcludeKeywords: []string{
			"gaming", "game console", "consumer router", "home wifi",
			"smartphone app", "mobile game", "home security system",
			"smart tv", "fitness tracker", "friday squid", "squid blogging",
			"ebook sale", "book sale", "on sale", "discount", "recipe", "cooking",
			"travel", "movie review", "book review", "horoscope",
		},

		PriorityTags: []PriorityTag{
			{
				Tag: "financial", Weight: 3, Glyph: "🏦",
				Keywords: []string{
					"bank", "banking", "financial", "credit union", "payment", "fintech",
					"wall street", "trading", "investment", "mortgage", "credit card",
					"financial services", "financial institution", "swift", "fedwire", "ach",
				},
			},
			{
				Tag: "nation_state", Weight: 2, Glyph: "🚩",
				Keywords: []string{
					"nation state", "nation-state", "state-sponsored", "apt",
					"advanced persistent threat", "cyber espionage",
				},
			},
			{
				Tag: "zero_day", Weight: 2, Glyph: "⚡",
				Keywords: []string{"zero-day", "zero day", "0-day", "0day"},
			},
			{
				Tag: "supply_chain", Weight: 2, Glyph: "🔗",
				Keywords: []string{"supply chain", "third-party vendor", "software dependency"},
			},
			{
				Tag: "critical_infrastructure", Weight: 2, Glyph: "🏭",
				Keywords: []string{
					"critical infrastructure", "power grid", "water utility",
					"pipeline", "scada", "industrial control",
				},
			},
			{
				Tag: "enterprise", Weight: 1, Glyph: "",
				Keywords: []string{"corporate", "business", "enterprise", "company", "organization"},
			},
		},

		Email: Email{
			SMTPHost: "smtp.gmail.com",
			SMTPPort: 587,
		},

		ArchiveDir:    "newsletters",
		RetryAttempts: 3,
		RetryDelay:    2 * time.Second,
	}
}
