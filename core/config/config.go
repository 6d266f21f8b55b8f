// Package config loads engine configuration from YAML files layered over
// built-in defaults, with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Engine   EngineConfig   `yaml:"engine"`
	Features FeaturesConfig `yaml:"features"`
	Models   ModelsConfig   `yaml:"models"`
	Store    StoreConfig    `yaml:"store"`
	Cache    CacheConfig    `yaml:"cache"`
}

// EngineConfig controls dispatch and scoring behavior.
type EngineConfig struct {
	// MinInteractions is the interaction count at which a user graduates
	// to hybrid recommendations.
	MinInteractions int `yaml:"min_interactions"`

	// SimilarityThreshold filters similar-user/similar-content results.
	SimilarityThreshold float64 `yaml:"similarity_threshold"`

	// CollaborativeWeight and ContentWeight are the hybrid blend weights.
	CollaborativeWeight float64 `yaml:"collaborative_weight"`
	ContentWeight       float64 `yaml:"content_weight"`
}

// FeaturesConfig controls feature construction.
type FeaturesConfig struct {
	// MaxFeatures caps the TF-IDF vocabulary size.
	MaxFeatures int `yaml:"max_features"`
}

// ModelsConfig controls training and snapshot persistence.
type ModelsConfig struct {
	// Dir is where model snapshots are written and loaded from.
	Dir string `yaml:"dir"`

	// MaxComponents caps the NMF latent dimension; the effective rank is
	// min(MaxComponents, matrix dimensions).
	MaxComponents int `yaml:"max_components"`

	// MaxIterations and Tolerance bound the NMF update loop.
	MaxIterations int     `yaml:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance"`

	// Seed makes factor initialization reproducible.
	Seed int64 `yaml:"seed"`
}

// StoreConfig controls the append-only interaction event log.
type StoreConfig struct {
	// EventDBPath is the sqlite file backing the event log. Empty
	// disables on-disk persistence of interactions.
	EventDBPath string `yaml:"event_db_path"`
}

// CacheConfig sizes the engine-level caches.
type CacheConfig struct {
	// RecommendationEntries bounds the per-request result cache.
	RecommendationEntries int `yaml:"recommendation_entries"`

	// SearchQueryCostBytes bounds the catalog search query cache.
	SearchQueryCostBytes int64 `yaml:"search_query_cost_bytes"`
}

func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			MinInteractions:     5,
			SimilarityThreshold: 0.3,
			CollaborativeWeight: 0.6,
			ContentWeight:       0.4,
		},
		Features: FeaturesConfig{
			MaxFeatures: 5000,
		},
		Models: ModelsConfig{
			Dir:           "models",
			MaxComponents: 20,
			MaxIterations: 200,
			Tolerance:     1e-4,
			Seed:          42,
		},
		Store: StoreConfig{
			EventDBPath: "",
		},
		Cache: CacheConfig{
			RecommendationEntries: 1024,
			SearchQueryCostBytes:  1 << 20,
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is
// not an error; the defaults apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	applyEnvironment(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvironment(cfg *Config) {
	if v := os.Getenv("MENTOR_MODELS_DIR"); v != "" {
		cfg.Models.Dir = v
	}
	if v := os.Getenv("MENTOR_EVENT_DB"); v != "" {
		cfg.Store.EventDBPath = v
	}
	if v := os.Getenv("MENTOR_MIN_INTERACTIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Engine.MinInteractions = n
		}
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Engine.MinInteractions < 0 {
		return fmt.Errorf("engine.min_interactions must be >= 0")
	}
	if c.Engine.SimilarityThreshold < 0 || c.Engine.SimilarityThreshold > 1 {
		return fmt.Errorf("engine.similarity_threshold must be in [0,1]")
	}
	if c.Engine.CollaborativeWeight < 0 || c.Engine.ContentWeight < 0 {
		return fmt.Errorf("engine blend weights must be >= 0")
	}
	if c.Engine.CollaborativeWeight+c.Engine.ContentWeight == 0 {
		return fmt.Errorf("engine blend weights must not both be zero")
	}
	if c.Features.MaxFeatures <= 0 {
		return fmt.Errorf("features.max_features must be > 0")
	}
	if c.Models.MaxComponents <= 0 {
		return fmt.Errorf("models.max_components must be > 0")
	}
	if c.Models.MaxIterations <= 0 {
		return fmt.Errorf("models.max_iterations must be > 0")
	}
	if c.Models.Tolerance <= 0 {
		return fmt.Errorf("models.tolerance must be > 0")
	}
	if c.Cache.RecommendationEntries <= 0 {
		return fmt.Errorf("cache.recommendation_entries must be > 0")
	}
	return nil
}
