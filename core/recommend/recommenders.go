package recommend

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/adalundhe/mentor/core/domain"
)

// Scoring constants. The confidence divisors are fixed normalizations
// tied to the rating scale and blend weights, not probabilities: a
// collaborative score tops out near the max rating, and a hybrid score
// near the sum of both weighted maxima.
const (
	// collaborativeConfidenceDivisor normalizes raw collaborative
	// scores, which live on the 1-5 rating scale.
	collaborativeConfidenceDivisor = domain.MaxRating

	// hybridConfidenceDivisor normalizes blended scores; 2.0 reflects
	// the maximum possible summed weighted score under the default
	// blend.
	hybridConfidenceDivisor = 2.0

	// hybridCandidateMultiplier controls how many candidates each
	// strategy contributes before blending.
	hybridCandidateMultiplier = 2

	// Popularity scoring: fixed normalization divisors and weights.
	popularityViewDivisor   = 1000.0
	popularityRatingDivisor = domain.MaxRating
	popularityScoreDivisor  = 100.0
	popularityViewWeight    = 0.4
	popularityRatingWeight  = 0.4
	popularityScoreWeight   = 0.2

	// Preference fallback scoring weights for brand-new users.
	preferenceCategoryBonus   = 0.3
	preferenceDifficultyBonus = 0.2
	preferenceTagWeight       = 0.2
	preferenceFormatBonus     = 0.1
	preferenceTiebreakDivisor = 1000.0
)

type candidate struct {
	itemID string
	score  float64
}

// sortCandidates orders by descending score with item id as the
// deterministic tiebreak.
func sortCandidates(cands []candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		return cands[i].itemID < cands[j].itemID
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// =============================================================================
// Dispatcher
// =============================================================================

// Recommend answers "recommend for user" via the graceful-degradation
// ladder: hybrid for warm users when trained, then collaborative, then
// content-based, then popularity. A rung that cannot produce results
// for this user degrades to the next, so the response is non-empty
// whenever any content exists.
func (e *Engine) Recommend(userID string, n int) []domain.Recommendation {
	if n <= 0 {
		return nil
	}

	key := cacheKey("dispatch", userID, n)
	if cached, ok := e.cache.Get(key); ok {
		return slices.Clone(cached)
	}

	recs := e.dispatch(userID, n)
	e.cache.Add(key, recs)
	// Callers get their own slice; the cached one must stay pristine.
	return slices.Clone(recs)
}

func (e *Engine) dispatch(userID string, n int) []domain.Recommendation {
	interactions := e.log.UserCount(userID)

	if interactions >= e.cfg.Engine.MinInteractions && e.hybrid != nil {
		if recs := e.HybridRecommendations(userID, n); len(recs) > 0 {
			return recs
		}
		e.logger.Warn("hybrid produced no results, degrading", "user", userID)
	}
	if e.collaborative != nil {
		if recs := e.CollaborativeRecommendations(userID, n); len(recs) > 0 {
			return recs
		}
		e.logger.Warn("collaborative produced no results, degrading", "user", userID)
	}
	if e.content != nil {
		if recs := e.ContentBasedRecommendations(userID, n); len(recs) > 0 {
			return recs
		}
		e.logger.Warn("content-based produced no results, degrading", "user", userID)
	}
	return e.PopularityRecommendations(userID, n)
}

func cacheKey(strategy, userID string, n int) string {
	return fmt.Sprintf("%s:%s:%d", strategy, userID, n)
}

// =============================================================================
// Collaborative
// =============================================================================

// CollaborativeRecommendations scores every trained item for the user
// through the fitted scaler and factorization. Users absent from the
// trained ordering are on the cold side of the boundary and get an
// empty result.
func (e *Engine) CollaborativeRecommendations(userID string, n int) []domain.Recommendation {
	if e.collaborative == nil || n <= 0 {
		return nil
	}
	if !e.collaborative.KnowsUser(userID) {
		e.logger.Warn("user unknown to collaborative model", "user", userID)
		return nil
	}

	scores, err := e.collaborative.ScoreUser(userID, e.log.Ratings()[userID])
	if err != nil {
		e.logger.Warn("collaborative scoring failed", "user", userID, "error", err)
		return nil
	}

	consumed := e.log.ConsumedItems(userID)
	cands := make([]candidate, 0, len(scores))
	for i, itemID := range e.collaborative.ItemIDs {
		if _, ok := consumed[itemID]; ok {
			continue
		}
		cands = append(cands, candidate{itemID: itemID, score: scores[i]})
	}
	sortCandidates(cands)

	recs := make([]domain.Recommendation, 0, n)
	for _, cand := range cands {
		if len(recs) == n {
			break
		}
		recs = append(recs, domain.Recommendation{
			ItemID:     cand.itemID,
			Score:      cand.score,
			Reason:     "learners with similar patterns engaged with this",
			Confidence: clamp(cand.score/collaborativeConfidenceDivisor, 0, 1),
			Type:       domain.RecCollaborative,
			Metadata: map[string]string{
				"model": "nmf",
			},
		})
	}
	return recs
}

// =============================================================================
// Content-based
// =============================================================================

// ContentBasedRecommendations accumulates similarity to the user's
// consumed items, averaged per candidate by contribution count. A user
// with no history falls back to preference-based scoring immediately.
func (e *Engine) ContentBasedRecommendations(userID string, n int) []domain.Recommendation {
	if e.content == nil || n <= 0 {
		return nil
	}

	consumed := e.log.ConsumedItems(userID)
	if len(consumed) == 0 {
		return e.PreferenceRecommendations(userID, n)
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for itemID := range consumed {
		row, ok := e.content.ItemRow(itemID)
		if !ok {
			continue
		}
		for i, other := range e.content.ItemIDs {
			if _, seen := consumed[other]; seen {
				continue
			}
			sums[other] += row[i]
			counts[other]++
		}
	}

	cands := make([]candidate, 0, len(sums))
	for itemID, sum := range sums {
		cands = append(cands, candidate{itemID: itemID, score: sum / float64(counts[itemID])})
	}
	sortCandidates(cands)

	recs := make([]domain.Recommendation, 0, n)
	for _, cand := range cands {
		if len(recs) == n {
			break
		}
		if cand.score <= 0 {
			continue
		}
		recs = append(recs, domain.Recommendation{
			ItemID:     cand.itemID,
			Score:      cand.score,
			Reason:     "similar to content you have engaged with",
			Confidence: clamp(cand.score, 0, 1),
			Type:       domain.RecContentBased,
			Metadata: map[string]string{
				"model": "tfidf_cosine",
			},
		})
	}
	return recs
}

// =============================================================================
// Hybrid
// =============================================================================

// HybridRecommendations blends collaborative and content scores with
// the configured weights. Items present in only one candidate list
// still contribute their partial term.
func (e *Engine) HybridRecommendations(userID string, n int) []domain.Recommendation {
	if e.hybrid == nil || n <= 0 {
		return nil
	}

	pool := n * hybridCandidateMultiplier
	collaborative := e.CollaborativeRecommendations(userID, pool)
	content := e.ContentBasedRecommendations(userID, pool)

	blended := make(map[string]float64)
	for _, rec := range collaborative {
		blended[rec.ItemID] += rec.Score * e.hybrid.CollaborativeWeight
	}
	for _, rec := range content {
		blended[rec.ItemID] += rec.Score * e.hybrid.ContentWeight
	}

	cands := make([]candidate, 0, len(blended))
	for itemID, score := range blended {
		cands = append(cands, candidate{itemID: itemID, score: score})
	}
	sortCandidates(cands)

	recs := make([]domain.Recommendation, 0, n)
	for _, cand := range cands {
		if len(recs) == n {
			break
		}
		recs = append(recs, domain.Recommendation{
			ItemID:     cand.itemID,
			Score:      cand.score,
			Reason:     "matches both your taste profile and similar learners",
			Confidence: clamp(cand.score/hybridConfidenceDivisor, 0, 1),
			Type:       domain.RecHybrid,
			Metadata: map[string]string{
				"collaborative_weight": fmt.Sprintf("%.2f", e.hybrid.CollaborativeWeight),
				"content_weight":       fmt.Sprintf("%.2f", e.hybrid.ContentWeight),
			},
		})
	}
	return recs
}

// =============================================================================
// Popularity
// =============================================================================

// PopularityRecommendations is the universal fallback: a fixed-weight
// combination of normalized view count, rating, and popularity score.
// It is always computable when any content exists.
func (e *Engine) PopularityRecommendations(userID string, n int) []domain.Recommendation {
	if n <= 0 {
		return nil
	}

	consumed := e.log.ConsumedItems(userID)
	items := e.catalog.Items()

	cands := make([]candidate, 0, len(items))
	for _, item := range items {
		if _, ok := consumed[item.ID]; ok {
			continue
		}
		score := popularityViewWeight*(float64(item.ViewCount)/popularityViewDivisor) +
			popularityRatingWeight*(item.AvgRating/popularityRatingDivisor) +
			popularityScoreWeight*(item.PopularityScore/popularityScoreDivisor)
		cands = append(cands, candidate{itemID: item.ID, score: score})
	}
	sortCandidates(cands)

	recs := make([]domain.Recommendation, 0, n)
	for _, cand := range cands {
		if len(recs) == n {
			break
		}
		recs = append(recs, domain.Recommendation{
			ItemID:     cand.itemID,
			Score:      cand.score,
			Reason:     "popular with learners right now",
			Confidence: clamp(cand.score, 0, 1),
			Type:       domain.RecPopularity,
			Metadata: map[string]string{
				"strategy": "popularity",
			},
		})
	}
	return recs
}

// =============================================================================
// Preference fallback (cold start)
// =============================================================================

// PreferenceRecommendations scores every item against the user's
// declared profile: preferred categories, skill level, interest tags,
// and preferred format, with a small popularity tiebreak. It guarantees
// a brand-new user profile-aware results before any history exists.
func (e *Engine) PreferenceRecommendations(userID string, n int) []domain.Recommendation {
	if n <= 0 {
		return nil
	}

	profile := e.users.Get(userID)
	if profile == nil {
		e.logger.Warn("preference scoring for unknown user, degrading to popularity", "user", userID)
		return e.PopularityRecommendations(userID, n)
	}

	consumed := e.log.ConsumedItems(userID)
	preferred := toSet(profile.PreferredCategories)
	interests := toSet(profile.Interests)

	items := e.catalog.Items()
	cands := make([]candidate, 0, len(items))
	for _, item := range items {
		if _, ok := consumed[item.ID]; ok {
			continue
		}

		var score float64
		if _, ok := preferred[strings.ToLower(item.Category)]; ok {
			score += preferenceCategoryBonus
		}
		if item.Difficulty == profile.SkillLevel {
			score += preferenceDifficultyBonus
		}
		if len(item.Tags) > 0 {
			matched := 0
			for _, tag := range item.Tags {
				if _, ok := interests[strings.ToLower(tag)]; ok {
					matched++
				}
			}
			score += preferenceTagWeight * float64(matched) / float64(len(item.Tags))
		}
		if item.ContentType == profile.PreferredFormat {
			score += preferenceFormatBonus
		}
		score += item.PopularityScore / preferenceTiebreakDivisor

		cands = append(cands, candidate{itemID: item.ID, score: score})
	}
	sortCandidates(cands)

	recs := make([]domain.Recommendation, 0, n)
	for _, cand := range cands {
		if len(recs) == n {
			break
		}
		recs = append(recs, domain.Recommendation{
			ItemID:     cand.itemID,
			Score:      cand.score,
			Reason:     "matches your learning preferences",
			Confidence: clamp(cand.score, 0, 1),
			Type:       domain.RecContentBased,
			Metadata: map[string]string{
				"strategy": "preference",
			},
		})
	}
	return recs
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}
