package models

import "time"

type ProfileStep string

const (
	StepNone       ProfileStep = ""
	StepDiet       ProfileStep = "diet"
	StepConditions ProfileStep = "conditions"
	StepAllergies  ProfileStep = "allergies"
	StepGoal       ProfileStep = "goal"
)

// Session is the per-user conversational state. The zero value is the
// default session of a user seen for the first time.
type Session struct {
	Language     Language     `json:"language,omitempty"` // empty until selected
	IsProcessing bool         `json:"is_processing"`
	ProfileStep  ProfileStep  `json:"profile_step,omitempty"`
	TempProfile  *TempProfile `json:"temp_profile,omitempty"` // non-nil iff ProfileStep != StepNone
}

func (s Session) HasLanguage() bool { return s.Language != "" }

// LanguageOrDefault is the language outputs are rendered in.
func (s Session) LanguageOrDefault() Language {
	if s.Language == "" {
		return DefaultLanguage
	}
	return s.Language
}

func (s Session) InWizard() bool { return s.ProfileStep != StepNone }

type PendingPhoto struct {
	MediaRef   string    `json:"media_ref"`
	ReceivedAt time.Time `json:"received_at"`
	Language   Language  `json:"language"`
}
