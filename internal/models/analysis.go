package models

import "strings"

type AnalysisMode string

const (
	// ModeAnalyze extracts, summarizes and voices the label.
	ModeAnalyze AnalysisMode = "analyze"
	// ModeClaims reports misleading or false marketing claims, text only.
	ModeClaims AnalysisMode = "claims"
	// ModeQuick asks the model for the spoken summary in a single call.
	ModeQuick AnalysisMode = "quick"
)

func ParseAnalysisMode(s string) (AnalysisMode, bool) {
	switch m := AnalysisMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeAnalyze, ModeClaims, ModeQuick:
		return m, true
	}
	return "", false
}

type PipelineStage string

const (
	StageLocked      PipelineStage = "locked"
	StageDownloading PipelineStage = "downloading"
	StageExtracting  PipelineStage = "extracting"
	StageSummarizing PipelineStage = "summarizing"
	StageSynthesize  PipelineStage = "synthesizing"
	StageDelivering  PipelineStage = "delivering"
	StageFailed      PipelineStage = "error-reported"
	StageUnlocked    PipelineStage = "unlocked"
)

type ConcernLevel string

const (
	ConcernSafe     ConcernLevel = "safe"
	ConcernModerate ConcernLevel = "moderate"
	ConcernCaution  ConcernLevel = "caution"
	ConcernAvoid    ConcernLevel = "avoid"
	ConcernUnknown  ConcernLevel = "unknown"
)

var ConcernLevels = []string{"safe", "moderate", "caution", "avoid", "unknown"}

func NormalizeConcern(s string) ConcernLevel {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, v := range ConcernLevels {
		if v == s {
			return ConcernLevel(s)
		}
	}
	return ConcernUnknown
}

type IngredientCategory string

var IngredientCategories = []string{
	"natural", "additive", "preservative", "sweetener", "coloring", "flavor", "emulsifier", "other",
}

func NormalizeCategory(s string) IngredientCategory {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, v := range IngredientCategories {
		if v == s {
			return IngredientCategory(s)
		}
	}
	return "other"
}

type ClaimVerdict string

const (
	VerdictMisleading ClaimVerdict = "misleading"
	VerdictFalse      ClaimVerdict = "false"
)

var ClaimVerdicts = []string{string(VerdictMisleading), string(VerdictFalse)}

type Ingredient struct {
	Name         string             `json:"name"`
	Category     IngredientCategory `json:"category"`
	ConcernLevel ConcernLevel       `json:"concern_level"`
	Note         string             `json:"note,omitempty"`
}

type NutritionHighlights struct {
	Calories string `json:"calories,omitempty"`
	Sugar    string `json:"sugar,omitempty"`
	Sodium   string `json:"sodium,omitempty"`
	Protein  string `json:"protein,omitempty"`
	Fat      string `json:"fat,omitempty"`
}

// LabelReport is the structured record extracted from a label photo.
type LabelReport struct {
	ProductName  string              `json:"product_name,omitempty"`
	Brand        string              `json:"brand,omitempty"`
	Ingredients  []Ingredient        `json:"ingredients"`
	Allergens    []string            `json:"allergens"`
	Nutrition    NutritionHighlights `json:"nutrition"`
	DietaryFlags []string            `json:"dietary_flags"`
	Assessment   string              `json:"assessment,omitempty"`
}

// Normalize forces enumerated fields into their closed sets.
func (r *LabelReport) Normalize() {
	for i := range r.Ingredients {
		r.Ingredients[i].Category = NormalizeCategory(string(r.Ingredients[i].Category))
		r.Ingredients[i].ConcernLevel = NormalizeConcern(string(r.Ingredients[i].ConcernLevel))
	}
}

type Claim struct {
	Claim       string       `json:"claim"`
	Verdict     ClaimVerdict `json:"verdict"`
	Explanation string       `json:"explanation,omitempty"`
}

type ClaimsReport struct {
	ProductName string  `json:"product_name,omitempty"`
	Claims      []Claim `json:"claims"`
}

// Reportable keeps only misleading or false claims. Anything else the
// model returns, including accurate claims, is dropped.
func (r ClaimsReport) Reportable() []Claim {
	var out []Claim
	for _, c := range r.Claims {
		v := ClaimVerdict(strings.ToLower(strings.TrimSpace(string(c.Verdict))))
		if v != VerdictMisleading && v != VerdictFalse {
			continue
		}
		if strings.TrimSpace(c.Claim) == "" {
			continue
		}
		c.Verdict = v
		out = append(out, c)
	}
	return out
}
