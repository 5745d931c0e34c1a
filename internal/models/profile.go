package models

import "strings"

type (
	Diet      string
	Condition string
	Allergen  string
	Goal      string
)

const (
	DietVegetarian Diet = "vegetarian"
	DietVegan      Diet = "vegan"
	DietNonVeg     Diet = "nonveg"

	ConditionDiabetes    Condition = "diabetes"
	ConditionBP          Condition = "bp"
	ConditionThyroid     Condition = "thyroid"
	ConditionCholesterol Condition = "cholesterol"

	AllergenMilk   Allergen = "milk"
	AllergenNuts   Allergen = "nuts"
	AllergenGluten Allergen = "gluten"
	AllergenSoy    Allergen = "soy"

	GoalHealth     Goal = "health"
	GoalWeightLoss Goal = "weightloss"
	GoalMuscleGain Goal = "musclegain"
)

type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type ProfileOptions struct {
	Conditions []Option `json:"conditions"`
	Allergies  []Option `json:"allergies"`
	Diets      []Option `json:"diets"`
	Goals      []Option `json:"goals"`
}

// Options is the single list of selectable profile values, shared by the
// bot keyboards and GET /api/profile/options. Labels stay in English.
var Options = ProfileOptions{
	Conditions: []Option{
		{Label: "Diabetes", Value: string(ConditionDiabetes)},
		{Label: "High BP", Value: string(ConditionBP)},
		{Label: "Thyroid", Value: string(ConditionThyroid)},
		{Label: "Cholesterol", Value: string(ConditionCholesterol)},
	},
	Allergies: []Option{
		{Label: "Milk/Lactose", Value: string(AllergenMilk)},
		{Label: "Nuts", Value: string(AllergenNuts)},
		{Label: "Gluten", Value: string(AllergenGluten)},
		{Label: "Soy", Value: string(AllergenSoy)},
	},
	Diets: []Option{
		{Label: "Vegetarian", Value: string(DietVegetarian)},
		{Label: "Vegan", Value: string(DietVegan)},
		{Label: "Non-Vegetarian", Value: string(DietNonVeg)},
	},
	Goals: []Option{
		{Label: "Healthy eating", Value: string(GoalHealth)},
		{Label: "Weight loss", Value: string(GoalWeightLoss)},
		{Label: "Muscle gain", Value: string(GoalMuscleGain)},
	},
}

func parseOption[T ~string](raw string, opts []Option) (T, bool) {
	raw = strings.TrimSpace(raw)
	for _, o := range opts {
		if o.Value == raw {
			return T(raw), true
		}
	}
	return "", false
}

func ParseDiet(s string) (Diet, bool)           { return parseOption[Diet](s, Options.Diets) }
func ParseCondition(s string) (Condition, bool) { return parseOption[Condition](s, Options.Conditions) }
func ParseAllergen(s string) (Allergen, bool)   { return parseOption[Allergen](s, Options.Allergies) }
func ParseGoal(s string) (Goal, bool)           { return parseOption[Goal](s, Options.Goals) }

// UserProfile is either absent from the store or fully populated.
type UserProfile struct {
	Diet       Diet        `json:"diet"`
	Conditions []Condition `json:"conditions"`
	Allergies  []Allergen  `json:"allergies"`
	Goal       Goal        `json:"goal"`
}

// Complete reports whether all four fields are set. Empty sets count as
// set; a nil set means the wizard never reached that step.
func (p UserProfile) Complete() bool {
	return p.Diet != "" && p.Goal != "" && p.Conditions != nil && p.Allergies != nil
}

// Sanitized drops values outside the closed enumerations. Used for
// profiles that arrive from the web client.
func (p UserProfile) Sanitized() UserProfile {
	out := UserProfile{Conditions: []Condition{}, Allergies: []Allergen{}}
	if d, ok := ParseDiet(string(p.Diet)); ok {
		out.Diet = d
	}
	if g, ok := ParseGoal(string(p.Goal)); ok {
		out.Goal = g
	}
	for _, c := range p.Conditions {
		if v, ok := ParseCondition(string(c)); ok && !contains(out.Conditions, v) {
			out.Conditions = append(out.Conditions, v)
		}
	}
	for _, a := range p.Allergies {
		if v, ok := ParseAllergen(string(a)); ok && !contains(out.Allergies, v) {
			out.Allergies = append(out.Allergies, v)
		}
	}
	return out
}

func (p UserProfile) IsZero() bool {
	return p.Diet == "" && p.Goal == "" && len(p.Conditions) == 0 && len(p.Allergies) == 0
}

// TempProfile is the wizard's working buffer. Slices are replaced, never
// mutated in place, so stored copies stay independent.
type TempProfile struct {
	Diet       Diet        `json:"diet,omitempty"`
	Conditions []Condition `json:"conditions"`
	Allergies  []Allergen  `json:"allergies"`
	Goal       Goal        `json:"goal,omitempty"`
}

func NewTempProfile() *TempProfile {
	return &TempProfile{Conditions: []Condition{}, Allergies: []Allergen{}}
}

func (t TempProfile) Finalize(goal Goal) UserProfile {
	return UserProfile{
		Diet:       t.Diet,
		Conditions: append([]Condition{}, t.Conditions...),
		Allergies:  append([]Allergen{}, t.Allergies...),
		Goal:       goal,
	}
}

// Toggle returns a new set with v added, or removed if already present.
func Toggle[T comparable](set []T, v T) []T {
	out := make([]T, 0, len(set)+1)
	found := false
	for _, x := range set {
		if x == v {
			found = true
			continue
		}
		out = append(out, x)
	}
	if !found {
		out = append(out, v)
	}
	return out
}

func contains[T comparable](set []T, v T) bool {
	for _, x := range set {
		if x == v {
			return true
		}
	}
	return false
}
