package recommend

import (
	"context"
	"sort"
	"time"

	"github.com/adalundhe/mentor/core/domain"
	"github.com/adalundhe/mentor/core/models"
)

// =============================================================================
// Similarity introspection
// =============================================================================

// SimilarUsers returns the n most similar trained users above the
// configured similarity threshold. Unknown users and untrained models
// produce an empty result.
func (e *Engine) SimilarUsers(userID string, n int) []models.Neighbor {
	if e.collaborative == nil || n <= 0 {
		return nil
	}
	neighbors := e.collaborative.SimilarUsers(userID, e.cfg.Engine.SimilarityThreshold)
	return topNeighbors(neighbors, n)
}

// SimilarContent returns the n most similar catalog items above the
// configured similarity threshold. Unknown items and untrained models
// produce an empty result.
func (e *Engine) SimilarContent(itemID string, n int) []models.Neighbor {
	if e.content == nil || n <= 0 {
		return nil
	}
	neighbors := e.content.SimilarContent(itemID, e.cfg.Engine.SimilarityThreshold)
	return topNeighbors(neighbors, n)
}

func topNeighbors(neighbors []models.Neighbor, n int) []models.Neighbor {
	sort.SliceStable(neighbors, func(i, j int) bool {
		if neighbors[i].Similarity != neighbors[j].Similarity {
			return neighbors[i].Similarity > neighbors[j].Similarity
		}
		return neighbors[i].ID < neighbors[j].ID
	})
	if len(neighbors) > n {
		neighbors = neighbors[:n]
	}
	return neighbors
}

// =============================================================================
// Derived profile fields
// =============================================================================

// UpdateUserProfile appends new engagement events and recomputes the
// derived profile fields from the full history: TotalCourses counts
// distinct items touched, CompletionRate the fraction of touched items
// with a completion event, AvgScore the mean of recorded scores.
func (e *Engine) UpdateUserProfile(ctx context.Context, userID string, newEvents []*domain.Interaction) error {
	for _, event := range newEvents {
		if event.UserID == "" {
			event.UserID = userID
		}
		if err := e.AddInteraction(ctx, event); err != nil {
			return err
		}
	}

	profile := e.users.Get(userID)
	if profile == nil {
		e.logger.Warn("profile update for unknown user", "user", userID)
		return nil
	}

	history := e.log.ForUser(userID)
	touched := make(map[string]struct{})
	completed := make(map[string]struct{})
	var scoreSum float64
	var scoreCount int
	var last time.Time

	for _, event := range history {
		touched[event.ItemID] = struct{}{}
		if event.Type == domain.InteractionLessonComplete {
			completed[event.ItemID] = struct{}{}
		}
		if event.Score != nil {
			scoreSum += *event.Score
			scoreCount++
		}
		if event.Timestamp.After(last) {
			last = event.Timestamp
		}
	}

	profile.TotalCourses = len(touched)
	profile.CompletionRate = 0
	if len(touched) > 0 {
		profile.CompletionRate = float64(len(completed)) / float64(len(touched))
	}
	profile.AvgScore = 0
	if scoreCount > 0 {
		profile.AvgScore = scoreSum / float64(scoreCount)
	}
	if !last.IsZero() {
		profile.LastActivity = last
	}

	e.cache.Purge()
	e.logger.Info("profile derived fields recomputed",
		"user", userID,
		"total_courses", profile.TotalCourses,
		"completion_rate", profile.CompletionRate)
	return nil
}

// =============================================================================
// Insights and status
// =============================================================================

// recentInteractionLimit bounds the history slice in an insights bundle.
const recentInteractionLimit = 10

// UserInsights is the diagnostic bundle for one user: recent history,
// current declared preferences, and an activity-hour histogram.
type UserInsights struct {
	UserID             string                `json:"user_id"`
	RecentInteractions []*domain.Interaction `json:"recent_interactions"`
	Interests          []string              `json:"interests"`
	SkillLevel         string                `json:"skill_level"`
	PreferredFormat    string                `json:"preferred_format"`
	TopCategories      []string              `json:"top_categories"`
	HourHistogram      [24]int               `json:"hour_histogram"`
	PeakHour           int                   `json:"peak_hour"`
}

// Insights assembles the diagnostic bundle for a user. Unknown users
// yield a bundle with empty preference fields rather than an error.
func (e *Engine) Insights(userID string) *UserInsights {
	insights := &UserInsights{UserID: userID, PeakHour: -1}

	if profile := e.users.Get(userID); profile != nil {
		insights.Interests = profile.Interests
		insights.SkillLevel = profile.SkillLevel.String()
		insights.PreferredFormat = profile.PreferredFormat.String()
	}

	history := e.log.ForUser(userID)
	start := len(history) - recentInteractionLimit
	if start < 0 {
		start = 0
	}
	insights.RecentInteractions = history[start:]

	categories := make(map[string]int)
	peakCount := 0
	for _, event := range history {
		hour := event.Timestamp.Hour()
		insights.HourHistogram[hour]++
		if insights.HourHistogram[hour] > peakCount {
			peakCount = insights.HourHistogram[hour]
			insights.PeakHour = hour
		}
		if item := e.catalog.Get(event.ItemID); item != nil {
			categories[item.Category]++
		}
	}
	insights.TopCategories = topKeys(categories, 3)

	return insights
}

func topKeys(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

// SystemStatus reports training state and registry sizes for operators.
type SystemStatus struct {
	CollaborativeState  string  `json:"collaborative_state"`
	ContentState        string  `json:"content_state"`
	HybridState         string  `json:"hybrid_state"`
	Users               int     `json:"users"`
	ContentItems        int     `json:"content_items"`
	Interactions        int     `json:"interactions"`
	MinInteractions     int     `json:"min_interactions"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
	CollaborativeWeight float64 `json:"collaborative_weight"`
	ContentWeight       float64 `json:"content_weight"`
	CachedResults       int     `json:"cached_results"`
}

// Status reports which models are trained, registry sizes, and the
// configured thresholds and blend weights.
func (e *Engine) Status() *SystemStatus {
	return &SystemStatus{
		CollaborativeState:  modelState(e.collaborative != nil),
		ContentState:        modelState(e.content != nil),
		HybridState:         modelState(e.hybrid != nil),
		Users:               e.users.Len(),
		ContentItems:        e.catalog.Len(),
		Interactions:        e.log.Len(),
		MinInteractions:     e.cfg.Engine.MinInteractions,
		SimilarityThreshold: e.cfg.Engine.SimilarityThreshold,
		CollaborativeWeight: e.cfg.Engine.CollaborativeWeight,
		ContentWeight:       e.cfg.Engine.ContentWeight,
		CachedResults:       e.cache.Len(),
	}
}

func modelState(trained bool) string {
	if trained {
		return models.StateTrained.String()
	}
	return models.StateUntrained.String()
}
