package domain

import (
	"testing"
	"time"
)

func TestParseSkillLevel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    SkillLevel
		wantErr bool
	}{
		{"beginner", "beginner", SkillBeginner, false},
		{"intermediate", "intermediate", SkillIntermediate, false},
		{"advanced", "advanced", SkillAdvanced, false},
		{"unknown", "expert", SkillBeginner, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSkillLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSkillLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSkillLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEnumRoundTrips(t *testing.T) {
	for name, kind := range nameToInteraction {
		if kind.String() != name {
			t.Errorf("InteractionType %d round-trip = %q, want %q", kind, kind.String(), name)
		}
	}
	for name, ct := range nameToContentType {
		if ct.String() != name {
			t.Errorf("ContentType %d round-trip = %q, want %q", ct, ct.String(), name)
		}
	}
}

func TestUserProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile UserProfile
		wantErr bool
	}{
		{"valid", UserProfile{ID: "user_1", CompletionRate: 0.5, AvgScore: 80}, false},
		{"missing id", UserProfile{}, true},
		{"completion rate too high", UserProfile{ID: "u", CompletionRate: 1.5}, true},
		{"avg score negative", UserProfile{ID: "u", AvgScore: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestContentItemSearchText(t *testing.T) {
	item := ContentItem{
		ID:          "course_1",
		Title:       "Intro to Python",
		Description: "Learn the basics",
		Tags:        []string{"python", "data-science"},
	}

	want := "Intro to Python Learn the basics python data-science"
	if got := item.SearchText(); got != want {
		t.Errorf("SearchText() = %q, want %q", got, want)
	}
}

func TestNewInteraction(t *testing.T) {
	before := time.Now().UTC()
	event := NewInteraction("user_1", "course_1", InteractionView)

	if event.ID == "" {
		t.Error("NewInteraction did not assign an id")
	}
	if event.Timestamp.Before(before) {
		t.Error("NewInteraction timestamp predates construction")
	}
	if err := event.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestInteractionValidateRating(t *testing.T) {
	bad := 7.0
	event := NewInteraction("user_1", "course_1", InteractionQuizAttempt)
	event.Rating = &bad

	if err := event.Validate(); err == nil {
		t.Error("Validate() accepted rating outside [1,5]")
	}
}
