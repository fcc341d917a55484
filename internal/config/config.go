package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Source describes one external feed. Kind selects the adapter:
// "rss" covers RSS and Atom, "kev" is the CISA known-exploited CSV.
type Source struct {
	ID             string `yaml:"id"`
	Name           string `yaml:"name"`
	URL            string `yaml:"url"`
	Kind           string `yaml:"kind"`
	TrustRank      int    `yaml:"trust_rank"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	// MaxAgeHours overrides the global recency window for this source.
	// The advisory feed publishes day-granular entries, so it carries a
	// wider window than the news feeds.
	MaxAgeHours int `yaml:"max_age_hours"`
}

// Timeout returns the per-source fetch budget.
func (s Source) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Section is one block of the rendered digest, in output order.
type Section struct {
	Key   string `yaml:"key"`
	Title string `yaml:"title"`
	Cap   int    `yaml:"cap"`
}

// CategoryRule maps a keyword set to a target category. Rules are
// evaluated in list order and the first match wins, so overlapping
// topics (an AI company breach, say) land where the order says.
type CategoryRule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// PriorityTag is a scored keyword label. Weight feeds the ranker and
// Glyph is appended to the rendered headline for high-priority tags.
type PriorityTag struct {
	Tag      string   `yaml:"tag"`
	Weight   int      `yaml:"weight"`
	Glyph    string   `yaml:"glyph"`
	Keywords []string `yaml:"keywords"`
}

// Email holds the SMTP delivery settings. Username and password come
// from the environment only, never from the YAML file.
type Email struct {
	SMTPHost string   `yaml:"smtp_host"`
	SMTPPort int      `yaml:"smtp_port"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`

	Username string `yaml:"-"`
	Password string `yaml:"-"`
}

// Configured reports whether delivery should be attempted at all.
func (e Email) Configured() bool {
	return e.Username != "" && e.Password != "" && len(e.To) > 0
}

type Config struct {
	Sources  []Source  `yaml:"sources"`
	Sections []Section `yaml:"sections"`

	RecencyWindowHours    int     `yaml:"recency_window_hours"`
	SimilarityThreshold   float64 `yaml:"similarity_threshold"`
	SimilarityWindowHours int     `yaml:"similarity_window_hours"`
	SummaryMaxChars       int     `yaml:"summary_max_chars"`
	MaxRecencyBonus       float64 `yaml:"max_recency_bonus"`

	CategoryRules     []CategoryRule `yaml:"category_rules"`
	RelevanceKeywords []string       `yaml:"relevance_keywords"`
	ExcludeKeywords   []string       `yaml:"exclude_keywords"`
	PriorityTags      []PriorityTag  `yaml:"priority_tags"`

	Email      Email  `yaml:"email"`
	ArchiveDir string `yaml:"archive_dir"`

	RetryAttempts int           `yaml:"retry_attempts"`
	RetryDelay    time.Duration `yaml:"-"`
}

// RecencyWindow is the global maximum item age relative to run start.
func (c *Config) RecencyWindow() time.Duration {
	return time.Duration(c.RecencyWindowHours) * time.Hour
}

// SimilarityWindow is the maximum publish-time delta for two items to
// count as coverage of the same event.
func (c *Config) SimilarityWindow() time.Duration {
	return time.Duration(c.SimilarityWindowHours) * time.Hour
}

// SourceMaxAge resolves the effective recency window for a source.
func (c *Config) SourceMaxAge(src Source) time.Duration {
	if src.MaxAgeHours > 0 {
		return time.Duration(src.MaxAgeHours) * time.Hour
	}
	return c.RecencyWindow()
}

// Load reads the YAML config over the built-in defaults and applies
// environment overrides for secrets.
func Load(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Email.Username = os.Getenv("SMTP_USER")
	c.Email.Password = os.Getenv("SMTP_PASSWORD")

	if v := os.Getenv("ARCHIVE_DIR"); v != "" {
		c.ArchiveDir = v
	}
	if v := os.Getenv("RECENCY_WINDOW_HOURS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			c.RecencyWindowHours = val
		}
	}
}

func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return fmt.Errorf("config: at least one source is required")
	}
	seen := map[string]bool{}
	for _, src := range c.Sources {
		if src.ID == "" || src.URL == "" {
			return fmt.Errorf("config: source %q needs id and url", src.Name)
		}
		if src.Kind != "rss" && src.Kind != "kev" {
			return fmt.Errorf("config: source %s has unknown kind %q", src.ID, src.Kind)
		}
		if seen[src.ID] {
			return fmt.Errorf("config: duplicate source id %s", src.ID)
		}
		seen[src.ID] = true
	}

	if len(c.Sections) == 0 {
		return fmt.Errorf("config: at least one section is required")
	}
	for _, sec := range c.Sections {
		if sec.Key == "" || sec.Title == "" {
			return fmt.Errorf("config: section needs key and title")
		}
		if sec.Cap <= 0 {
			return fmt.Errorf("config: section %s cap must be positive", sec.Key)
		}
	}

	if c.RecencyWindowHours <= 0 {
		return fmt.Errorf("config: recency_window_hours must be positive")
	}
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("config: similarity_threshold must be in (0, 1]")
	}
	return nil
}
