package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yoockh/jaanekhana/internal/locales"
	"github.com/yoockh/jaanekhana/internal/models"
	"github.com/yoockh/jaanekhana/internal/services"
)

const (
	prefixLanguage = "lang_"
	actionAnalyze  = "action_analyze"
	actionClaims   = "action_claims"

	checkMark = "✅ "
)

func languageKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(models.SupportedLanguages))
	for _, l := range models.SupportedLanguages {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(l.NativeName(), prefixLanguage+string(l)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func actionKeyboard(lang models.Language) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(locales.T(lang, locales.ActionAnalyze), actionAnalyze),
			tgbotapi.NewInlineKeyboardButtonData(locales.T(lang, locales.ActionClaims), actionClaims),
		),
	)
}

func singleSelect(opts []models.Option, prefix string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(opts))
	for _, o := range opts {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(o.Label, prefix+o.Value),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// multiSelect marks chosen options and appends a "<prefix>done" button.
func multiSelect[T ~string](opts []models.Option, selected []T, prefix, doneLabel string) tgbotapi.InlineKeyboardMarkup {
	chosen := make(map[string]bool, len(selected))
	for _, s := range selected {
		chosen[string(s)] = true
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(opts)+1)
	for _, o := range opts {
		label := o.Label
		if chosen[o.Value] {
			label = checkMark + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, prefix+o.Value),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(doneLabel, prefix+services.DoneValue),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// wizardScreen renders the prompt and keyboard for the wizard's current
// step. A nil keyboard means the wizard is finished.
func wizardScreen(v services.WizardView) (string, *tgbotapi.InlineKeyboardMarkup) {
	lang := v.Language
	var kb tgbotapi.InlineKeyboardMarkup
	switch v.Step {
	case models.StepDiet:
		kb = singleSelect(models.Options.Diets, services.PrefixDiet)
		return locales.T(lang, locales.SelectDiet), &kb
	case models.StepConditions:
		kb = multiSelect(models.Options.Conditions, v.Conditions, services.PrefixCondition, locales.T(lang, locales.Done))
		return locales.T(lang, locales.SelectConditions), &kb
	case models.StepAllergies:
		kb = multiSelect(models.Options.Allergies, v.Allergies, services.PrefixAllergy, locales.T(lang, locales.Done))
		return locales.T(lang, locales.SelectAllergies), &kb
	case models.StepGoal:
		kb = singleSelect(models.Options.Goals, services.PrefixGoal)
		return locales.T(lang, locales.SelectGoal), &kb
	}
	return locales.T(lang, locales.ProfileSaved), nil
}
