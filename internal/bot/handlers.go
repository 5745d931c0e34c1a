package bot

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/jaanekhana/internal/locales"
	"github.com/yoockh/jaanekhana/internal/models"
	"github.com/yoockh/jaanekhana/internal/services"
	"github.com/yoockh/jaanekhana/internal/utils"
)

func (b *Bot) promptLanguage(c chat) {
	msg := tgbotapi.NewMessage(c.id, locales.T(models.DefaultLanguage, locales.ChooseLanguage))
	msg.ReplyMarkup = languageKeyboard()
	b.send(msg)
}

// ensureLanguage reports the user's language, or sends the language menu
// and reports false.
func (b *Bot) ensureLanguage(ctx context.Context, c chat) (models.Language, bool) {
	lang, set, err := b.languages.Current(ctx, c.user)
	if err != nil {
		b.log.WithField("user_id", c.user).WithError(err).Error("failed to load session")
		return lang, false
	}
	if !set {
		b.promptLanguage(c)
		return lang, false
	}
	return lang, true
}

func (b *Bot) onLanguage(ctx context.Context, c chat, callbackID, code string) {
	lang, err := b.languages.Select(ctx, c.user, code)
	if err != nil {
		if utils.IsCode(err, utils.CodeInvalidArgument) {
			b.answer(callbackID, locales.T(models.DefaultLanguage, locales.InvalidLanguage))
			return
		}
		b.answer(callbackID, "")
		b.log.WithField("user_id", c.user).WithError(err).Error("failed to set language")
		return
	}
	b.answer(callbackID, "")
	b.send(tgbotapi.NewEditMessageText(c.id, c.messageID, locales.Tf(lang, locales.LanguageSet, lang.NativeName())))
	b.startWizard(ctx, c, lang)
}

func (b *Bot) onProfileCommand(ctx context.Context, c chat) {
	lang, ok := b.ensureLanguage(ctx, c)
	if !ok {
		return
	}
	b.startWizard(ctx, c, lang)
}

func (b *Bot) startWizard(ctx context.Context, c chat, lang models.Language) {
	view, err := b.wizard.Start(ctx, c.user, lang)
	if err != nil {
		b.log.WithField("user_id", c.user).WithError(err).Error("failed to start profile wizard")
		return
	}
	text, kb := wizardScreen(view)
	msg := tgbotapi.NewMessage(c.id, text)
	msg.ReplyMarkup = kb
	b.send(msg)
}

func (b *Bot) onWizardEvent(ctx context.Context, c chat, ev services.WizardEvent) {
	if _, ok := b.ensureLanguage(ctx, c); !ok {
		return
	}
	view, err := b.wizard.Handle(ctx, c.user, ev)
	if err != nil {
		b.log.WithFields(logrus.Fields{"user_id": c.user, "event": ev.Kind}).WithError(err).Error("wizard transition failed")
		return
	}
	if view.Ignored {
		return
	}
	text, kb := wizardScreen(view)
	if kb == nil {
		b.send(tgbotapi.NewEditMessageText(c.id, c.messageID, text))
		return
	}
	b.send(tgbotapi.NewEditMessageTextAndMarkup(c.id, c.messageID, text, *kb))
}

func (b *Bot) onPhoto(ctx context.Context, c chat, sizes []tgbotapi.PhotoSize) {
	lang, ok := b.ensureLanguage(ctx, c)
	if !ok {
		return
	}
	has, err := b.profiles.Has(ctx, c.user)
	if err != nil {
		b.log.WithField("user_id", c.user).WithError(err).Error("failed to load profile")
		return
	}
	if !has {
		b.send(tgbotapi.NewMessage(c.id, locales.T(lang, locales.ProfileRequired)))
		return
	}
	if b.busy(ctx, c) {
		b.send(tgbotapi.NewMessage(c.id, locales.T(lang, locales.StillProcessing)))
		return
	}

	// Telegram lists sizes smallest first.
	largest := sizes[len(sizes)-1]
	if err := b.pending.Put(ctx, c.user, models.PendingPhoto{MediaRef: largest.FileID, Language: lang}); err != nil {
		b.log.WithField("user_id", c.user).WithError(err).Error("failed to store pending photo")
		return
	}
	msg := tgbotapi.NewMessage(c.id, locales.T(lang, locales.ChooseAction))
	msg.ReplyMarkup = actionKeyboard(lang)
	b.send(msg)
}

// onText nudges a user who typed instead of sending a label photo.
func (b *Bot) onText(ctx context.Context, c chat) {
	lang, ok := b.ensureLanguage(ctx, c)
	if !ok {
		return
	}
	has, err := b.profiles.Has(ctx, c.user)
	if err != nil {
		b.log.WithField("user_id", c.user).WithError(err).Error("failed to load profile")
		return
	}
	key := locales.SendPhotoFallback
	if !has {
		key = locales.ProfileRequired
	}
	b.send(tgbotapi.NewMessage(c.id, locales.T(lang, key)))
}

func (b *Bot) busy(ctx context.Context, c chat) bool {
	sess, err := b.sessions.Get(ctx, c.user)
	return err == nil && sess.IsProcessing
}

func (b *Bot) onAction(ctx context.Context, c chat, action string) {
	lang, _, err := b.languages.Current(ctx, c.user)
	if err != nil {
		b.log.WithField("user_id", c.user).WithError(err).Error("failed to load session")
		return
	}

	photo, err := b.pending.Take(ctx, c.user)
	if err != nil {
		b.log.WithField("user_id", c.user).WithError(err).Error("failed to take pending photo")
		return
	}
	if photo == nil {
		b.send(tgbotapi.NewMessage(c.id, locales.T(lang, locales.NoPhoto)))
		return
	}

	mode := models.ModeAnalyze
	if action == actionClaims {
		mode = models.ModeClaims
	}
	profile, err := b.profiles.Get(ctx, c.user)
	if err != nil {
		b.log.WithField("user_id", c.user).WithError(err).Warn("profile unavailable, analyzing without it")
	}

	job := services.Job{
		UserID:   c.user,
		Mode:     mode,
		Language: photo.Language,
		Profile:  profile,
		Source:   b.media,
		MediaRef: photo.MediaRef,
		Delivery: &chatDelivery{api: b.api, chatID: c.id, log: b.log},
		Audio:    true,
	}
	err = b.pipeline.Start(context.WithoutCancel(ctx), job)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrBusy):
		// Lost a race with another run; the photo stays available.
		if perr := b.pending.Put(ctx, c.user, *photo); perr != nil {
			b.log.WithField("user_id", c.user).WithError(perr).Warn("failed to restore pending photo")
		}
		b.send(tgbotapi.NewMessage(c.id, locales.T(photo.Language, locales.StillProcessing)))
	default:
		b.log.WithField("user_id", c.user).WithError(err).Error("failed to start pipeline")
		b.send(tgbotapi.NewMessage(c.id, locales.T(photo.Language, locales.ProcessingFailed)))
	}
}
