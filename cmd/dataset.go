package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/adalundhe/mentor/core/domain"
	"github.com/adalundhe/mentor/core/recommend"
	"github.com/adalundhe/mentor/core/search"
	"github.com/adalundhe/mentor/core/store"
)

// Dataset is the YAML wire format for seeding an engine from a file.
type Dataset struct {
	Users        []*domain.UserProfile `yaml:"users"`
	Content      []*domain.ContentItem `yaml:"content"`
	Interactions []*domain.Interaction `yaml:"interactions"`
}

// LoadDataset parses a dataset file. Interactions without explicit ids
// get deterministic ones derived from their content and position, so
// loading the same file twice yields the same event ids and replays
// against a persisted event log stay idempotent.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	for i, event := range ds.Interactions {
		if event.ID == "" {
			event.ID = datasetEventID(i, event)
		}
	}
	return &ds, nil
}

// datasetEventID derives a stable id for the i-th dataset interaction.
func datasetEventID(i int, event *domain.Interaction) string {
	name := fmt.Sprintf("%d|%s|%s|%s|%s",
		i, event.UserID, event.ItemID, event.Type,
		event.Timestamp.UTC().Format(time.RFC3339Nano))
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

// Seed feeds the dataset into an engine: users, content, then events.
func (d *Dataset) Seed(ctx context.Context, engine *recommend.Engine) error {
	for _, profile := range d.Users {
		if err := engine.AddUser(profile); err != nil {
			return err
		}
	}
	for _, item := range d.Content {
		if err := engine.AddContent(item); err != nil {
			return err
		}
	}
	for _, event := range d.Interactions {
		if err := engine.AddInteraction(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// seedEngine builds a fully wired engine: sqlite event persistence when
// configured, a catalog search index, and the dataset at path loaded in.
// An empty path yields an engine holding only previously persisted
// events.
func seedEngine(ctx context.Context, path string) (*recommend.Engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	engine := recommend.NewEngine(cfg, newLogger())

	index, err := search.NewCatalogIndex(cfg.Cache.SearchQueryCostBytes)
	if err != nil {
		return nil, err
	}
	engine.SetCatalogIndex(index)

	if cfg.Store.EventDBPath != "" {
		events, err := store.OpenEventStore(cfg.Store.EventDBPath)
		if err != nil {
			return nil, err
		}
		persisted, err := events.LoadAll(ctx)
		if err != nil {
			return nil, err
		}
		engine.SetEventStore(events)
		for _, event := range persisted {
			if err := engine.AddInteraction(ctx, event); err != nil {
				return nil, err
			}
		}
	}

	if path == "" {
		return engine, nil
	}
	ds, err := LoadDataset(path)
	if err != nil {
		return nil, err
	}
	if err := ds.Seed(ctx, engine); err != nil {
		return nil, err
	}
	return engine, nil
}
