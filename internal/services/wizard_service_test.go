package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/jaanekhana/internal/models"
)

func newWizard(t *testing.T) (WizardService, SessionService, ProfileService) {
	t.Helper()
	sessions, profiles, _ := newStores()
	return NewWizardService(sessions, profiles), sessions, profiles
}

func press(t *testing.T, w WizardService, user, data string) WizardView {
	t.Helper()
	ev, ok := ParseWizardEvent(data)
	require.True(t, ok, data)
	v, err := w.Handle(context.Background(), user, ev)
	require.NoError(t, err)
	return v
}

func TestParseWizardEvent(t *testing.T) {
	tests := []struct {
		in   string
		want WizardEvent
		ok   bool
	}{
		{"diet_vegan", WizardEvent{Kind: EventDietChosen, Value: "vegan"}, true},
		{"cond_bp", WizardEvent{Kind: EventConditionToggled, Value: "bp"}, true},
		{"cond_done", WizardEvent{Kind: EventConditionsDone}, true},
		{"allergy_nuts", WizardEvent{Kind: EventAllergyToggled, Value: "nuts"}, true},
		{"allergy_done", WizardEvent{Kind: EventAllergiesDone}, true},
		{"goal_health", WizardEvent{Kind: EventGoalChosen, Value: "health"}, true},
		{"lang_hi", WizardEvent{}, false},
		{"action_analyze", WizardEvent{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseWizardEvent(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWizard_FullFlowSavesProfile(t *testing.T) {
	w, sessions, profiles := newWizard(t)
	ctx := context.Background()
	user := "tg:7"

	_, err := sessions.Update(ctx, user, func(s *models.Session) error {
		s.Language = "hi"
		return nil
	})
	require.NoError(t, err)

	v, err := w.Start(ctx, user, "hi")
	require.NoError(t, err)
	assert.Equal(t, models.StepDiet, v.Step)

	v = press(t, w, user, "diet_vegetarian")
	assert.Equal(t, models.StepConditions, v.Step)

	v = press(t, w, user, "cond_diabetes")
	assert.Equal(t, []models.Condition{models.ConditionDiabetes}, v.Conditions)
	v = press(t, w, user, "cond_bp")
	v = press(t, w, user, "cond_diabetes")
	assert.Equal(t, []models.Condition{models.ConditionBP}, v.Conditions)

	v = press(t, w, user, "cond_done")
	assert.Equal(t, models.StepAllergies, v.Step)

	v = press(t, w, user, "allergy_done")
	assert.Equal(t, models.StepGoal, v.Step)
	assert.Empty(t, v.Allergies)

	v = press(t, w, user, "goal_weightloss")
	assert.True(t, v.Completed)
	assert.Equal(t, models.StepNone, v.Step)
	assert.Equal(t, models.Language("hi"), v.Language)

	got, err := profiles.Get(ctx, user)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.UserProfile{
		Diet:       models.DietVegetarian,
		Conditions: []models.Condition{models.ConditionBP},
		Allergies:  []models.Allergen{},
		Goal:       models.GoalWeightLoss,
	}, *got)

	sess, err := sessions.Get(ctx, user)
	require.NoError(t, err)
	assert.Nil(t, sess.TempProfile)
	assert.Equal(t, models.Language("hi"), sess.Language)
}

func TestWizard_IgnoresOutOfStepEvents(t *testing.T) {
	w, sessions, profiles := newWizard(t)
	ctx := context.Background()
	user := "tg:8"

	v := press(t, w, user, "goal_health")
	assert.True(t, v.Ignored)

	_, err := w.Start(ctx, user, models.DefaultLanguage)
	require.NoError(t, err)

	v = press(t, w, user, "cond_bp")
	assert.True(t, v.Ignored)
	v = press(t, w, user, "goal_health")
	assert.True(t, v.Ignored)
	v = press(t, w, user, "diet_keto")
	assert.True(t, v.Ignored)

	sess, err := sessions.Get(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, models.StepDiet, sess.ProfileStep)
	assert.Equal(t, models.Diet(""), sess.TempProfile.Diet)

	has, err := profiles.Has(ctx, user)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestWizard_StaleDoneAfterCompletionIsIgnored(t *testing.T) {
	w, _, _ := newWizard(t)
	ctx := context.Background()
	user := "tg:9"

	_, err := w.Start(ctx, user, models.DefaultLanguage)
	require.NoError(t, err)
	press(t, w, user, "diet_vegan")
	press(t, w, user, "cond_done")
	press(t, w, user, "allergy_done")
	press(t, w, user, "goal_health")

	v := press(t, w, user, "allergy_done")
	assert.True(t, v.Ignored)
}

func TestWizard_RestartDiscardsAnswers(t *testing.T) {
	w, _, profiles := newWizard(t)
	ctx := context.Background()
	user := "tg:10"

	_, err := w.Start(ctx, user, models.DefaultLanguage)
	require.NoError(t, err)
	press(t, w, user, "diet_vegan")
	press(t, w, user, "cond_thyroid")

	v, err := w.Start(ctx, user, models.DefaultLanguage)
	require.NoError(t, err)
	assert.Equal(t, models.StepDiet, v.Step)
	assert.Empty(t, v.Conditions)

	has, err := profiles.Has(ctx, user)
	require.NoError(t, err)
	assert.False(t, has)
}
