// Package domain defines the entities exchanged between the learning
// platform and the recommendation engine: user profiles, catalog content,
// interaction events, and scored recommendations.
package domain

import "fmt"

// =============================================================================
// SkillLevel
// =============================================================================

// SkillLevel is a user's self-reported proficiency tier.
type SkillLevel int

const (
	SkillBeginner SkillLevel = iota
	SkillIntermediate
	SkillAdvanced
)

var skillNames = map[SkillLevel]string{
	SkillBeginner:     "beginner",
	SkillIntermediate: "intermediate",
	SkillAdvanced:     "advanced",
}

var nameToSkill = map[string]SkillLevel{
	"beginner":     SkillBeginner,
	"intermediate": SkillIntermediate,
	"advanced":     SkillAdvanced,
}

func (s SkillLevel) String() string {
	if name, ok := skillNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseSkillLevel converts a string to a SkillLevel.
func ParseSkillLevel(name string) (SkillLevel, error) {
	if s, ok := nameToSkill[name]; ok {
		return s, nil
	}
	return SkillBeginner, fmt.Errorf("unknown skill level: %q", name)
}

func (s SkillLevel) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SkillLevel) UnmarshalText(data []byte) error {
	parsed, err := ParseSkillLevel(string(data))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// =============================================================================
// ContentType
// =============================================================================

// ContentType describes the delivery format of a content item.
type ContentType int

const (
	ContentVideo ContentType = iota
	ContentInteractive
	ContentText
)

var contentTypeNames = map[ContentType]string{
	ContentVideo:       "video",
	ContentInteractive: "interactive",
	ContentText:        "text",
}

var nameToContentType = map[string]ContentType{
	"video":       ContentVideo,
	"interactive": ContentInteractive,
	"text":        ContentText,
}

func (c ContentType) String() string {
	if name, ok := contentTypeNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseContentType converts a string to a ContentType.
func ParseContentType(name string) (ContentType, error) {
	if c, ok := nameToContentType[name]; ok {
		return c, nil
	}
	return ContentVideo, fmt.Errorf("unknown content type: %q", name)
}

func (c ContentType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ContentType) UnmarshalText(data []byte) error {
	parsed, err := ParseContentType(string(data))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// =============================================================================
// InteractionType
// =============================================================================

// InteractionType classifies a user engagement event.
type InteractionType int

const (
	InteractionView InteractionType = iota
	InteractionLessonComplete
	InteractionQuizAttempt
	InteractionProjectJoin
	InteractionCodeExecute
	InteractionSimulatorUse
)

var interactionNames = map[InteractionType]string{
	InteractionView:           "view",
	InteractionLessonComplete: "lesson_complete",
	InteractionQuizAttempt:    "quiz_attempt",
	InteractionProjectJoin:    "project_join",
	InteractionCodeExecute:    "code_execute",
	InteractionSimulatorUse:   "simulator_use",
}

var nameToInteraction = map[string]InteractionType{
	"view":            InteractionView,
	"lesson_complete": InteractionLessonComplete,
	"quiz_attempt":    InteractionQuizAttempt,
	"project_join":    InteractionProjectJoin,
	"code_execute":    InteractionCodeExecute,
	"simulator_use":   InteractionSimulatorUse,
}

func (i InteractionType) String() string {
	if name, ok := interactionNames[i]; ok {
		return name
	}
	return "unknown"
}

// ParseInteractionType converts a string to an InteractionType.
func ParseInteractionType(name string) (InteractionType, error) {
	if i, ok := nameToInteraction[name]; ok {
		return i, nil
	}
	return InteractionView, fmt.Errorf("unknown interaction type: %q", name)
}

func (i InteractionType) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *InteractionType) UnmarshalText(data []byte) error {
	parsed, err := ParseInteractionType(string(data))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// =============================================================================
// RecommendationType
// =============================================================================

// RecommendationType tags which strategy produced a recommendation.
type RecommendationType int

const (
	RecCollaborative RecommendationType = iota
	RecContentBased
	RecHybrid
	RecPopularity
	RecRecency
)

var recTypeNames = map[RecommendationType]string{
	RecCollaborative: "collaborative",
	RecContentBased:  "content_based",
	RecHybrid:        "hybrid",
	RecPopularity:    "popularity",
	RecRecency:       "recency",
}

func (r RecommendationType) String() string {
	if name, ok := recTypeNames[r]; ok {
		return name
	}
	return "unknown"
}

func (r RecommendationType) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
