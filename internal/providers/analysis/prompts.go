package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yoockh/jaanekhana/internal/models"
)

const extractInstruction = `You are JaaneKhana, a food ingredient analysis assistant.

TASK:
- Extract ALL ingredients and nutrition information visible on the food label image.
- Categorize each ingredient as one of: natural, additive, preservative, sweetener, coloring, flavor, emulsifier, other.
- Assess the concern level of each ingredient as one of: safe, moderate, caution, avoid, unknown.
- Identify allergens present in the product.
- Extract key nutrition highlights if visible.
- Output MUST be valid JSON following the provided schema.
- Do NOT guess information that is not visible in the image. Leave unclear fields empty.
- Do NOT include explanations or text outside the JSON.`

const extractPrompt = `Analyze this food label image and extract:
1. Product name and brand
2. All ingredients listed, each categorized with a concern level
3. Allergens present
4. Key nutrition facts (calories, sugar, sodium, protein, fat)
5. Dietary flags (vegetarian, vegan, gluten-free, etc.)
6. Brief overall assessment

Use only information visible in the image.`

const claimsInstruction = `You are JaaneKhana, a consumer protection assistant that checks food marketing.

TASK:
- Read every marketing claim printed on the package (for example "no added sugar", "high protein", "100% natural").
- Compare each claim with the ingredient list and nutrition table in the same image.
- Report ONLY claims that are misleading or false. Never report a claim you consider accurate.
- verdict MUST be exactly "misleading" or "false".
- Output MUST be valid JSON following the provided schema. Return an empty claims list when nothing is misleading.`

// spokenRules is shared by every prompt whose output is read aloud.
func spokenRules(lang models.Language) string {
	name := lang.EnglishName()
	return fmt.Sprintf(`OUTPUT LANGUAGE:
- Write the entire response in %[1]s.
- Use the native script for %[1]s, do not transliterate to Latin letters.
- Do not mix languages.

RULES:
- No introductions or greetings.
- No bullet points, dashes, numbering or headings.
- Plain text only. No markdown, asterisks, underscores or other special characters.
- Write flowing paragraphs of about 150 to 200 words.
- Be specific about health impacts and use natural sentence transitions.`, name)
}

func summaryInstruction(lang models.Language) string {
	return "You are JaaneKhana. Give a concise but detailed food ingredient analysis that will be read aloud by a text-to-speech voice.\n\n" +
		spokenRules(lang)
}

const analysisOutline = `Paragraph 1: State the product name, then describe the main concerning ingredients and what they are.
Paragraph 2: Mention any allergens present.
Paragraph 3: Explain how this product affects people with diabetes, high blood pressure, thyroid issues and high cholesterol. Say whether each group should eat it, use caution, or avoid it.
Paragraph 4: Give a final verdict on who can enjoy this, who should limit it, and who should avoid it.`

// profileContext describes the user so the model can personalize advice.
func profileContext(p *models.UserProfile) string {
	if p == nil || p.IsZero() {
		return "The user has not shared a health profile."
	}
	var b strings.Builder
	b.WriteString("Personalize the advice for this user:\n")
	if p.Diet != "" {
		fmt.Fprintf(&b, "- Diet: %s\n", optionLabel(models.Options.Diets, string(p.Diet)))
	}
	if len(p.Conditions) > 0 {
		labels := make([]string, 0, len(p.Conditions))
		for _, c := range p.Conditions {
			labels = append(labels, optionLabel(models.Options.Conditions, string(c)))
		}
		fmt.Fprintf(&b, "- Health conditions: %s\n", strings.Join(labels, ", "))
	} else {
		b.WriteString("- Health conditions: none\n")
	}
	if len(p.Allergies) > 0 {
		labels := make([]string, 0, len(p.Allergies))
		for _, a := range p.Allergies {
			labels = append(labels, optionLabel(models.Options.Allergies, string(a)))
		}
		fmt.Fprintf(&b, "- Allergies: %s\n", strings.Join(labels, ", "))
	} else {
		b.WriteString("- Allergies: none\n")
	}
	if p.Goal != "" {
		fmt.Fprintf(&b, "- Goal: %s\n", optionLabel(models.Options.Goals, string(p.Goal)))
	}
	b.WriteString("Warn clearly when the product conflicts with the diet, a condition or an allergy.")
	return b.String()
}

func optionLabel(opts []models.Option, v string) string {
	for _, o := range opts {
		if o.Value == v {
			return o.Label
		}
	}
	return v
}

func summaryPrompt(report *models.LabelReport, profile *models.UserProfile, lang models.Language) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Analyze this food product for text-to-speech reading. Write in %s only.\n\n%s\n\n%s\n\nData:\n%s",
		lang.EnglishName(), analysisOutline, profileContext(profile), data), nil
}

func analyzePrompt(profile *models.UserProfile, lang models.Language) string {
	return fmt.Sprintf("Look at this food label image and analyze it for text-to-speech reading. Write in %s only.\n\n%s\n\n%s",
		lang.EnglishName(), analysisOutline, profileContext(profile))
}

func claimsPrompt(lang models.Language) string {
	return fmt.Sprintf("List the misleading or false marketing claims on this package. Write the explanation field in %s.",
		lang.EnglishName())
}
