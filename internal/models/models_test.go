package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggle_IsXOR(t *testing.T) {
	start := []Condition{ConditionBP}

	once := Toggle(start, ConditionDiabetes)
	assert.ElementsMatch(t, []Condition{ConditionBP, ConditionDiabetes}, once)

	twice := Toggle(once, ConditionDiabetes)
	assert.Equal(t, start, twice)

	// the input is never modified
	assert.Equal(t, []Condition{ConditionBP}, start)
	assert.Len(t, once, 2)
}

func TestUserProfile_Complete(t *testing.T) {
	tp := NewTempProfile()
	tp.Diet = DietVegetarian

	p := tp.Finalize(GoalWeightLoss)
	assert.True(t, p.Complete())
	assert.Empty(t, p.Conditions)

	assert.False(t, UserProfile{Diet: DietVegan, Goal: GoalHealth}.Complete())
	assert.False(t, UserProfile{Conditions: []Condition{}, Allergies: []Allergen{}, Goal: GoalHealth}.Complete())
}

func TestUserProfile_Sanitized(t *testing.T) {
	p := UserProfile{
		Diet:       "carnivore",
		Conditions: []Condition{"diabetes", "diabetes", "gout"},
		Allergies:  []Allergen{"soy"},
		Goal:       "musclegain",
	}.Sanitized()

	assert.Equal(t, Diet(""), p.Diet)
	assert.Equal(t, []Condition{ConditionDiabetes}, p.Conditions)
	assert.Equal(t, []Allergen{AllergenSoy}, p.Allergies)
	assert.Equal(t, GoalMuscleGain, p.Goal)
}

func TestParseLanguage(t *testing.T) {
	l, ok := ParseLanguage(" HI ")
	require.True(t, ok)
	assert.Equal(t, LangHindi, l)
	assert.Equal(t, "हिन्दी", l.NativeName())

	_, ok = ParseLanguage("fr")
	assert.False(t, ok)
	assert.Equal(t, LangEnglish, NormalizeLanguage("fr"))
}

func TestLabelReport_Normalize(t *testing.T) {
	r := LabelReport{Ingredients: []Ingredient{
		{Name: "Sugar", Category: "Sweetener", ConcernLevel: "CAUTION"},
		{Name: "E999", Category: "mystery", ConcernLevel: "spooky"},
	}}
	r.Normalize()

	assert.Equal(t, IngredientCategory("sweetener"), r.Ingredients[0].Category)
	assert.Equal(t, ConcernCaution, r.Ingredients[0].ConcernLevel)
	assert.Equal(t, IngredientCategory("other"), r.Ingredients[1].Category)
	assert.Equal(t, ConcernUnknown, r.Ingredients[1].ConcernLevel)
}

func TestClaimsReport_Reportable(t *testing.T) {
	r := ClaimsReport{Claims: []Claim{
		{Claim: "No added sugar", Verdict: "accurate"},
		{Claim: "Boosts immunity", Verdict: "Misleading"},
		{Claim: "100% natural", Verdict: "false"},
		{Claim: "", Verdict: "false"},
	}}

	got := r.Reportable()
	require.Len(t, got, 2)
	assert.Equal(t, VerdictMisleading, got[0].Verdict)
	assert.Equal(t, "100% natural", got[1].Claim)

	assert.Empty(t, ClaimsReport{Claims: []Claim{{Claim: "High protein", Verdict: "true"}}}.Reportable())
}
