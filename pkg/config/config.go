// Package config loads the scraper configuration from YAML and environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// PathEnv names the environment variable holding the config file path.
const PathEnv = "PITCHACCENT_CONFIG"

// Config is the root configuration.
type Config struct {
	Scraper    ScraperConfig    `yaml:"scraper"`
	Output     OutputConfig     `yaml:"output"`
	Log        LogConfig        `yaml:"log"`
	Categories []CategoryConfig `yaml:"categories"`
}

// ScraperConfig controls how result pages are requested.
type ScraperConfig struct {
	UserAgent    string        `yaml:"user_agent"     env:"PITCHACCENT_USER_AGENT"`
	Timeout      time.Duration `yaml:"timeout"        env:"PITCHACCENT_TIMEOUT"        env-default:"30s"`
	Delay        time.Duration `yaml:"delay"          env:"PITCHACCENT_DELAY"          env-default:"500ms"`
	PageFormat   string        `yaml:"page_format"    env:"PITCHACCENT_PAGE_FORMAT"    env-default:"%s/page:%d"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" env:"PITCHACCENT_MAX_BODY_BYTES" env-default:"10485760"`
}

// OutputConfig names where records go.
type OutputConfig struct {
	Path string `yaml:"path" env:"PITCHACCENT_OUTPUT" env-default:"accents.jsonl.gz"`
	DB   string `yaml:"db"   env:"PITCHACCENT_DB"     env-default:"pitchaccent.db"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"  env:"PITCHACCENT_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"PITCHACCENT_LOG_FORMAT" env-default:"text"`
}

// CategoryConfig is one query to scrape.
type CategoryConfig struct {
	Name         string `yaml:"name"`
	URL          string `yaml:"url"`
	PartOfSpeech string `yaml:"part_of_speech"`
}

const ojadSearch = "https://www.gavo.t.u-tokyo.ac.jp/ojad/search/index/sortprefix:accent/narabi1:kata_asc/narabi2:accent_asc/narabi3:mola_asc/yure:visible/curve:invisible/details:invisible/limit:100"

// DefaultCategories are used when the config lists none.
func DefaultCategories() []CategoryConfig {
	return []CategoryConfig{
		{Name: "nouns", URL: ojadSearch + "/category:noun", PartOfSpeech: "noun"},
		{Name: "verbs", URL: ojadSearch + "/category:verb", PartOfSpeech: "verb"},
		{Name: "i-adjectives", URL: ojadSearch + "/category:i_adjective", PartOfSpeech: "i-adjective"},
		{Name: "na-adjectives", URL: ojadSearch + "/category:na_adjective", PartOfSpeech: "na-adjective"},
	}
}

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// The file is path, else $PITCHACCENT_CONFIG, else "./config.yaml". A missing
// file is only an error when it was named explicitly.
func Load(path string) (*Config, error) {
	var cfg Config

	explicitPath := path != ""
	if !explicitPath {
		path = os.Getenv(PathEnv)
		explicitPath = path != ""
	}
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if len(cfg.Categories) == 0 {
		cfg.Categories = DefaultCategories()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks business rules; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Scraper.Delay < 0 {
		return fmt.Errorf("scraper.delay must be >= 0 (got %v)", c.Scraper.Delay)
	}
	if c.Scraper.Timeout <= 0 {
		return fmt.Errorf("scraper.timeout must be > 0 (got %v)", c.Scraper.Timeout)
	}
	if strings.Count(c.Scraper.PageFormat, "%") != 2 {
		return fmt.Errorf("scraper.page_format must hold a %%s and a %%d verb (got %q)", c.Scraper.PageFormat)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error (got %q)", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format)
	}

	seen := map[string]bool{}
	for i, cat := range c.Categories {
		if cat.Name == "" || cat.URL == "" {
			return fmt.Errorf("categories[%d]: name and url are required", i)
		}
		if seen[cat.Name] {
			return fmt.Errorf("categories[%d]: duplicate name %q", i, cat.Name)
		}
		seen[cat.Name] = true
	}
	return nil
}

// Category returns the configured category called name.
func (c *Config) Category(name string) (CategoryConfig, bool) {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return cat, true
		}
	}
	return CategoryConfig{}, false
}
