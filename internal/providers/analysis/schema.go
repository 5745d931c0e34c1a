package analysis

import (
	"cloud.google.com/go/vertexai/genai"

	"github.com/yoockh/jaanekhana/internal/models"
)

func str() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }

func strList() *genai.Schema { return &genai.Schema{Type: genai.TypeArray, Items: str()} }

var labelSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"product_name": str(),
		"brand":        str(),
		"ingredients": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":          str(),
					"category":      {Type: genai.TypeString, Enum: models.IngredientCategories},
					"concern_level": {Type: genai.TypeString, Enum: models.ConcernLevels},
					"note":          str(),
				},
				Required: []string{"name", "category", "concern_level"},
			},
		},
		"allergens": strList(),
		"nutrition": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"calories": str(),
				"sugar":    str(),
				"sodium":   str(),
				"protein":  str(),
				"fat":      str(),
			},
		},
		"dietary_flags": strList(),
		"assessment":    str(),
	},
	Required: []string{"ingredients"},
}

var claimsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"product_name": str(),
		"claims": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"claim":       str(),
					"verdict":     {Type: genai.TypeString, Enum: models.ClaimVerdicts},
					"explanation": str(),
				},
				Required: []string{"claim", "verdict"},
			},
		},
	},
	Required: []string{"claims"},
}
