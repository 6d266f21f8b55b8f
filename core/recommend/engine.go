// Package recommend implements the recommendation engine: registries of
// users, content, and interactions; explicit caller-driven training of
// the collaborative, content-based, and hybrid models; and the
// graceful-degradation dispatch ladder that guarantees every user a
// response regardless of training state.
package recommend

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/adalundhe/mentor/core/config"
	"github.com/adalundhe/mentor/core/domain"
	"github.com/adalundhe/mentor/core/features"
	"github.com/adalundhe/mentor/core/models"
	"github.com/adalundhe/mentor/core/search"
	"github.com/adalundhe/mentor/core/store"
)

// Engine owns the registries and trained models. All training and
// scoring runs synchronously on the calling goroutine. The model
// pointers themselves are not synchronized: the engine assumes a single
// caller, and concurrent training and scoring requires external
// locking. The registries and caches it delegates to are individually
// safe for concurrent reads.
type Engine struct {
	cfg    *config.Config
	logger *slog.Logger

	users   *store.UserRegistry
	catalog *store.Catalog
	log     *store.InteractionLog

	events       *store.EventStore
	catalogIndex *search.CatalogIndex

	collaborative *models.Collaborative
	content       *models.Content
	hybrid        *models.Hybrid

	cache *lru.Cache[string, []domain.Recommendation]
}

// NewEngine constructs an engine with empty registries. A nil config
// selects the defaults; a nil logger selects slog.Default.
func NewEngine(cfg *config.Config, logger *slog.Logger) *Engine {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	cache, _ := lru.New[string, []domain.Recommendation](cfg.Cache.RecommendationEntries)
	return &Engine{
		cfg:     cfg,
		logger:  logger,
		users:   store.NewUserRegistry(),
		catalog: store.NewCatalog(),
		log:     store.NewInteractionLog(),
		cache:   cache,
	}
}

// SetEventStore attaches sqlite persistence for interaction events.
// Appends become write-through; failures are logged, never propagated.
func (e *Engine) SetEventStore(events *store.EventStore) {
	e.events = events
}

// SetCatalogIndex attaches a full-text catalog index. Content upserts
// become write-through.
func (e *Engine) SetCatalogIndex(index *search.CatalogIndex) {
	e.catalogIndex = index
}

// =============================================================================
// Registry mutators
// =============================================================================

// AddUser upserts a user profile.
func (e *Engine) AddUser(profile *domain.UserProfile) error {
	if err := e.users.Upsert(profile); err != nil {
		return err
	}
	e.cache.Purge()
	return nil
}

// AddContent upserts a content item and, when a catalog index is
// attached, re-indexes it.
func (e *Engine) AddContent(item *domain.ContentItem) error {
	if err := e.catalog.Upsert(item); err != nil {
		return err
	}
	if e.catalogIndex != nil {
		if err := e.catalogIndex.Index(item); err != nil {
			e.logger.Warn("catalog index update failed", "item", item.ID, "error", err)
		}
	}
	e.cache.Purge()
	return nil
}

// AddInteraction appends an engagement event to the log and, when an
// event store is attached, persists it.
func (e *Engine) AddInteraction(ctx context.Context, event *domain.Interaction) error {
	if err := e.log.Append(event); err != nil {
		return err
	}
	if e.events != nil {
		if err := e.events.Append(ctx, event); err != nil {
			e.logger.Warn("event persistence failed", "event", event.ID, "error", err)
		}
	}
	e.cache.Purge()
	return nil
}

// =============================================================================
// Training
// =============================================================================

// TrainContentBased fits the TF-IDF similarity model over the catalog.
// An empty catalog is an expected cold-start state: it is logged at
// warning level and leaves the model untrained.
func (e *Engine) TrainContentBased() error {
	items := e.catalog.Items()
	if len(items) == 0 {
		e.logger.Warn("content-based training skipped: content registry is empty")
		return nil
	}

	docs := make([]string, len(items))
	ids := make([]string, len(items))
	for i, item := range items {
		docs[i] = item.SearchText()
		ids[i] = item.ID
	}

	model, err := models.TrainContent(docs, ids, e.cfg.Features.MaxFeatures)
	if err != nil {
		return fmt.Errorf("train content-based: %w", err)
	}

	e.content = model
	e.cache.Purge()
	e.logger.Info("content-based model trained",
		"items", len(ids), "vocabulary", model.Vectorizer.VocabularySize())
	return nil
}

// TrainCollaborative fits the NMF model over the interaction log. An
// empty log is an expected cold-start state: it is logged at warning
// level and leaves the model untrained.
func (e *Engine) TrainCollaborative() error {
	m, userIDs, itemIDs := features.BuildUserItemMatrix(e.log)
	if m == nil {
		e.logger.Warn("collaborative training skipped: no interactions logged")
		return nil
	}

	model, err := models.TrainCollaborative(m, userIDs, itemIDs, models.NMFConfig{
		MaxComponents: e.cfg.Models.MaxComponents,
		MaxIterations: e.cfg.Models.MaxIterations,
		Tolerance:     e.cfg.Models.Tolerance,
		Seed:          e.cfg.Models.Seed,
	})
	if err != nil {
		return fmt.Errorf("train collaborative: %w", err)
	}

	e.collaborative = model
	e.cache.Purge()
	e.logger.Info("collaborative model trained",
		"users", len(userIDs), "items", len(itemIDs), "rank", model.Factorization.Rank)
	return nil
}

// TrainHybrid records the blend weights. Both prerequisite models must
// already be trained; the documented order is content -> collaborative
// -> hybrid.
func (e *Engine) TrainHybrid() error {
	model, err := models.TrainHybrid(
		e.collaborative, e.content,
		e.cfg.Engine.CollaborativeWeight, e.cfg.Engine.ContentWeight,
	)
	if err != nil {
		e.logger.Warn("hybrid training failed", "error", err)
		return err
	}

	e.hybrid = model
	e.cache.Purge()
	e.logger.Info("hybrid model trained",
		"collaborative_weight", model.CollaborativeWeight,
		"content_weight", model.ContentWeight)
	return nil
}

// TrainAll trains every model in dependency order. Cold-start skips in
// the prerequisite models surface as a hybrid prerequisite error.
func (e *Engine) TrainAll() error {
	if err := e.TrainContentBased(); err != nil {
		return err
	}
	if err := e.TrainCollaborative(); err != nil {
		return err
	}
	if e.content == nil || e.collaborative == nil {
		e.logger.Warn("hybrid training skipped: prerequisites untrained")
		return nil
	}
	return e.TrainHybrid()
}

// =============================================================================
// Model persistence
// =============================================================================

// SaveModels snapshots every trained model into the configured dir.
func (e *Engine) SaveModels() error {
	dir := e.cfg.Models.Dir

	if e.collaborative != nil {
		if err := models.SaveCollaborative(dir, e.collaborative); err != nil {
			return err
		}
	}
	if e.content != nil {
		if err := models.SaveContent(dir, e.content); err != nil {
			return err
		}
	}
	if e.hybrid != nil {
		if err := models.SaveHybrid(dir, e.hybrid); err != nil {
			return err
		}
	}
	e.logger.Info("model snapshots saved", "dir", dir)
	return nil
}

// LoadModels restores snapshots from the configured dir. Loading is
// best-effort: a missing or corrupt snapshot leaves that model
// untrained and is logged at warning level, never returned.
func (e *Engine) LoadModels() {
	dir := e.cfg.Models.Dir

	if model, err := models.LoadCollaborative(dir); err != nil {
		e.logger.Warn("collaborative snapshot unavailable", "dir", dir, "error", err)
	} else {
		e.collaborative = model
	}
	if model, err := models.LoadContent(dir); err != nil {
		e.logger.Warn("content snapshot unavailable", "dir", dir, "error", err)
	} else {
		e.content = model
	}
	if model, err := models.LoadHybrid(dir); err != nil {
		e.logger.Warn("hybrid snapshot unavailable", "dir", dir, "error", err)
	} else {
		e.hybrid = model
	}
	e.cache.Purge()
}

// =============================================================================
// Catalog search
// =============================================================================

// SearchContent runs a full-text query over the catalog index. Returns
// nil when no index is attached.
func (e *Engine) SearchContent(query string, limit int, filters ...search.Filter) ([]search.Hit, error) {
	if e.catalogIndex == nil {
		e.logger.Warn("content search unavailable: no catalog index attached")
		return nil, nil
	}
	return e.catalogIndex.Search(query, limit, filters...)
}
