package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// SourceConfig describes one upstream endpoint. Kind selects the adapter:
// "rss" for syndication feeds, "api" for the headline REST API. A non-empty
// Topic makes the source topic-restricted: only items categorized with that
// label are accepted from it.
type SourceConfig struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Kind    string `yaml:"kind"`
	Enabled bool   `yaml:"enabled"`
	Weight  int    `yaml:"weight"`
	Topic   string `yaml:"topic,omitempty"`
}

// CategoryConfig is one row of the category-keyword table.
type CategoryConfig struct {
	Label    string   `yaml:"label"`
	Emoji    string   `yaml:"emoji"`
	Keywords []string `yaml:"keywords"`
}

// Sources is the static per-run source and category configuration.
// Categories is an ordered list, not a map: match order is a priority
// ordering and must survive loading.
type Sources struct {
	Sources         []SourceConfig   `yaml:"sources"`
	Categories      []CategoryConfig `yaml:"categories"`
	Fallback        CategoryConfig   `yaml:"fallback"`
	BlockedKeywords []string         `yaml:"blocked_keywords"`
}

// LoadSources reads the source/category configuration from a YAML file.
func LoadSources(path string) (*Sources, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var s Sources
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse sources config: %w", err)
	}

	if len(s.Sources) == 0 {
		return nil, fmt.Errorf("sources config %s defines no sources", path)
	}
	if s.Fallback.Label == "" {
		s.Fallback = CategoryConfig{Label: "عمومی", Emoji: "📰"}
	}
	for _, src := range s.Sources {
		if src.Kind != "rss" && src.Kind != "api" {
			return nil, fmt.Errorf("source %q: unknown kind %q", src.Name, src.Kind)
		}
	}
	return &s, nil
}

// Enabled returns the enabled sources ordered by weight, heaviest first.
// The aggregation phase keeps dispatch order for items with equal
// timestamps, so weight decides which source wins such ties. Sources with
// equal weight keep their configured order.
func (s *Sources) Enabled() []SourceConfig {
	out := make([]SourceConfig, 0, len(s.Sources))
	for _, src := range s.Sources {
		if src.Enabled {
			out = append(out, src)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Weight > out[j].Weight
	})
	return out
}
