package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validYAML = `
scraper:
  user_agent: "pitchaccent-test"
  delay: "1s"
  timeout: "5s"
output:
  path: "out/verbs.jsonl"
log:
  level: "debug"
  format: "json"
categories:
  - name: verbs
    url: "https://ojad.test/search/category:verb"
    part_of_speech: verb
`

func TestLoadFromYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "pitchaccent-test", cfg.Scraper.UserAgent)
	assert.Equal(t, time.Second, cfg.Scraper.Delay)
	assert.Equal(t, 5*time.Second, cfg.Scraper.Timeout)
	assert.Equal(t, "%s/page:%d", cfg.Scraper.PageFormat)
	assert.Equal(t, "out/verbs.jsonl", cfg.Output.Path)
	assert.Equal(t, "pitchaccent.db", cfg.Output.DB)
	assert.Equal(t, "debug", cfg.Log.Level)
	require.Len(t, cfg.Categories, 1)

	cat, ok := cfg.Category("verbs")
	require.True(t, ok)
	assert.Equal(t, "verb", cat.PartOfSpeech)
	_, ok = cfg.Category("nouns")
	assert.False(t, ok)
}

func TestEnvOverridesYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv("PITCHACCENT_DELAY", "250ms")
	t.Setenv("PITCHACCENT_OUTPUT", "override.jsonl.gz")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Scraper.Delay)
	assert.Equal(t, "override.jsonl.gz", cfg.Output.Path)
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv(PathEnv, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.Scraper.Delay)
	assert.Equal(t, "accents.jsonl.gz", cfg.Output.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Len(t, cfg.Categories, 4)
	for _, c := range cfg.Categories {
		assert.NotEmpty(t, c.PartOfSpeech)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	t.Setenv(PathEnv, filepath.Join(t.TempDir(), "also-missing.yaml"))
	_, err = Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Scraper:    ScraperConfig{Timeout: time.Second, PageFormat: "%s/page:%d"},
			Log:        LogConfig{Level: "info", Format: "text"},
			Categories: DefaultCategories(),
		}
	}

	cfg := base()
	assert.NoError(t, cfg.Validate())

	cases := map[string]func(*Config){
		"negative delay":     func(c *Config) { c.Scraper.Delay = -time.Second },
		"zero timeout":       func(c *Config) { c.Scraper.Timeout = 0 },
		"bad page format":    func(c *Config) { c.Scraper.PageFormat = "%s/page" },
		"bad level":          func(c *Config) { c.Log.Level = "loud" },
		"bad format":         func(c *Config) { c.Log.Format = "xml" },
		"missing url":        func(c *Config) { c.Categories[0].URL = "" },
		"duplicate category": func(c *Config) { c.Categories[1].Name = c.Categories[0].Name },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
