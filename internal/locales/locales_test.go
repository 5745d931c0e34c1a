package locales

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yoockh/jaanekhana/internal/models"
)

func TestT_FallsBackToEnglish(t *testing.T) {
	assert.Equal(t, "अपना आहार चुनें:", T(models.LangHindi, SelectDiet))
	assert.Equal(t, T(models.LangEnglish, AudioTitle), T(models.LangAssamese, AudioTitle))
	assert.Equal(t, T(models.LangEnglish, Done), T(models.Language("fr"), Done))
}

func TestEnglishCatalogueIsComplete(t *testing.T) {
	en := catalogue[models.LangEnglish]
	for lang, msgs := range catalogue {
		for key := range msgs {
			assert.Contains(t, en, key, "key %q of %q has no English text", key, lang)
		}
	}
	assert.Equal(t, NoMisleadingClaimsEN, T(models.LangEnglish, NoMisleading))
}

func TestTf(t *testing.T) {
	assert.Equal(t, "Language set to: हिन्दी", Tf(models.LangEnglish, LanguageSet, models.LangHindi.NativeName()))
	assert.Equal(t, "🔍 Analyzing (TA)...", Tf(models.LangEnglish, Analyzing, "TA"))
}
