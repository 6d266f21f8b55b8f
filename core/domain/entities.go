package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Entities
// =============================================================================

// UserProfile describes one end-user of the learning platform.
//
// CompletionRate, AvgScore, and TotalCourses are derived from the
// interaction history and are recomputed by the engine; callers should
// not set them directly.
type UserProfile struct {
	ID                  string      `json:"id" yaml:"id"`
	Interests           []string    `json:"interests" yaml:"interests"`
	SkillLevel          SkillLevel  `json:"skill_level" yaml:"skill_level"`
	PreferredCategories []string    `json:"preferred_categories" yaml:"preferred_categories"`
	LearningGoals       []string    `json:"learning_goals" yaml:"learning_goals"`
	TimeAvailability    string      `json:"time_availability" yaml:"time_availability"`
	PreferredFormat     ContentType `json:"preferred_format" yaml:"preferred_format"`
	LastActivity        time.Time   `json:"last_activity" yaml:"last_activity"`
	TotalCourses        int         `json:"total_courses" yaml:"total_courses"`
	CompletionRate      float64     `json:"completion_rate" yaml:"completion_rate"`
	AvgScore            float64     `json:"avg_score" yaml:"avg_score"`
}

// Validate checks boundary constraints on a profile.
func (u *UserProfile) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user profile: %w", ErrMissingID)
	}
	if u.CompletionRate < 0 || u.CompletionRate > 1 {
		return fmt.Errorf("user %s: completion rate %.3f outside [0,1]", u.ID, u.CompletionRate)
	}
	if u.AvgScore < 0 || u.AvgScore > 100 {
		return fmt.Errorf("user %s: avg score %.1f outside [0,100]", u.ID, u.AvgScore)
	}
	return nil
}

// ContentItem is one learnable unit eligible for recommendation.
type ContentItem struct {
	ID              string      `json:"id" yaml:"id"`
	Title           string      `json:"title" yaml:"title"`
	Category        string      `json:"category" yaml:"category"`
	Difficulty      SkillLevel  `json:"difficulty" yaml:"difficulty"`
	Tags            []string    `json:"tags" yaml:"tags"`
	Description     string      `json:"description" yaml:"description"`
	ContentType     ContentType `json:"content_type" yaml:"content_type"`
	DurationMinutes int         `json:"duration_minutes" yaml:"duration_minutes"`
	Prerequisites   []string    `json:"prerequisites" yaml:"prerequisites"`
	PopularityScore float64     `json:"popularity_score" yaml:"popularity_score"`
	AvgRating       float64     `json:"avg_rating" yaml:"avg_rating"`
	ViewCount       int         `json:"view_count" yaml:"view_count"`
}

// Validate checks boundary constraints on a content item.
func (c *ContentItem) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("content item: %w", ErrMissingID)
	}
	if c.AvgRating < 0 || c.AvgRating > 5 {
		return fmt.Errorf("content %s: avg rating %.2f outside [0,5]", c.ID, c.AvgRating)
	}
	if c.ViewCount < 0 {
		return fmt.Errorf("content %s: negative view count", c.ID)
	}
	return nil
}

// SearchText concatenates the textual fields used for content-based
// similarity: title, description, and tags.
func (c *ContentItem) SearchText() string {
	text := c.Title + " " + c.Description
	for _, tag := range c.Tags {
		text += " " + tag
	}
	return text
}

// Interaction is one engagement event in the append-only log. Events are
// never mutated after creation.
type Interaction struct {
	ID              string          `json:"id" yaml:"id"`
	UserID          string          `json:"user_id" yaml:"user_id"`
	ItemID          string          `json:"item_id" yaml:"item_id"`
	Type            InteractionType `json:"type" yaml:"type"`
	Timestamp       time.Time       `json:"timestamp" yaml:"timestamp"`
	DurationSeconds int             `json:"duration_seconds,omitempty" yaml:"duration_seconds,omitempty"`
	Score           *float64        `json:"score,omitempty" yaml:"score,omitempty"`
	Rating          *float64        `json:"rating,omitempty" yaml:"rating,omitempty"`
	Feedback        string          `json:"feedback,omitempty" yaml:"feedback,omitempty"`
}

// NewInteraction constructs an event with a generated id and the current
// time when the caller left them unset.
func NewInteraction(userID, itemID string, kind InteractionType) *Interaction {
	return &Interaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		ItemID:    itemID,
		Type:      kind,
		Timestamp: time.Now().UTC(),
	}
}

// Validate checks boundary constraints on an interaction event.
func (i *Interaction) Validate() error {
	if i.UserID == "" || i.ItemID == "" {
		return fmt.Errorf("interaction: %w", ErrMissingID)
	}
	if i.Rating != nil && (*i.Rating < 1 || *i.Rating > 5) {
		return fmt.Errorf("interaction %s/%s: rating %.2f outside [1,5]", i.UserID, i.ItemID, *i.Rating)
	}
	return nil
}

// Fill assigns a generated id and timestamp to events loaded from
// external sources that omit them.
func (i *Interaction) Fill() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now().UTC()
	}
}

// Recommendation is a single scored suggestion. It is constructed fresh
// on every request and never persisted.
type Recommendation struct {
	ItemID     string             `json:"item_id" yaml:"item_id"`
	Score      float64            `json:"score" yaml:"score"`
	Reason     string             `json:"reason" yaml:"reason"`
	Confidence float64            `json:"confidence" yaml:"confidence"`
	Type       RecommendationType `json:"type" yaml:"type"`
	Metadata   map[string]string  `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// =============================================================================
// Errors
// =============================================================================

// DomainError is a validation failure at the entity boundary.
type DomainError struct {
	msg string
}

func (e DomainError) Error() string {
	return e.msg
}

// Sentinel errors for entity validation.
var (
	ErrMissingID = DomainError{msg: "identifier is required"}
)
