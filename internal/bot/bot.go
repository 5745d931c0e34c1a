// Package bot is the Telegram front door: it routes webhook updates to the
// language, wizard and pipeline services and renders their results as chat
// messages and inline keyboards.
package bot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/jaanekhana/internal/services"
)

// API is the part of *tgbotapi.BotAPI the bot needs.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Deps struct {
	API       API
	Sessions  services.SessionService
	Languages services.LanguageService
	Wizard    services.WizardService
	Profiles  services.ProfileService
	Pending   services.PendingService
	Pipeline  services.PipelineService
	// Media downloads photos by file id. Defaults to the Telegram file API.
	Media  services.MediaSource
	Logger *logrus.Logger
}

type Bot struct {
	api       API
	sessions  services.SessionService
	languages services.LanguageService
	wizard    services.WizardService
	profiles  services.ProfileService
	pending   services.PendingService
	pipeline  services.PipelineService
	media     services.MediaSource
	log       *logrus.Logger
}

func New(d Deps) *Bot {
	if d.Logger == nil {
		d.Logger = logrus.New()
	}
	if d.Media == nil {
		d.Media = NewTelegramMedia(d.API, nil)
	}
	return &Bot{
		api:       d.API,
		sessions:  d.Sessions,
		languages: d.Languages,
		wizard:    d.Wizard,
		profiles:  d.Profiles,
		pending:   d.Pending,
		pipeline:  d.Pipeline,
		media:     d.Media,
		log:       d.Logger,
	}
}

// WebhookPath is the secret route Telegram posts updates to.
func WebhookPath(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "/telegraf/" + hex.EncodeToString(sum[:])
}

// RegisterWebhook points the bot at domain+WebhookPath(token).
func RegisterWebhook(api API, domain, token string) error {
	wh, err := tgbotapi.NewWebhook(strings.TrimRight(domain, "/") + WebhookPath(token))
	if err != nil {
		return fmt.Errorf("build webhook: %w", err)
	}
	if _, err := api.Request(wh); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	return nil
}

func userKey(id int64) string {
	return "tg:" + strconv.FormatInt(id, 10)
}

// HandleUpdate processes one update. It never waits for a pipeline run.
func (b *Bot) HandleUpdate(ctx context.Context, u tgbotapi.Update) {
	switch {
	case u.CallbackQuery != nil:
		b.handleCallback(ctx, u.CallbackQuery)
	case u.Message != nil:
		b.handleMessage(ctx, u.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	c := chat{id: msg.Chat.ID, user: userKey(msg.From.ID)}

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.promptLanguage(c)
		case "profile":
			b.onProfileCommand(ctx, c)
		}
		return
	}
	switch {
	case len(msg.Photo) > 0:
		b.onPhoto(ctx, c, msg.Photo)
	case msg.Text != "":
		b.onText(ctx, c)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
		b.answer(cq.ID, "")
		return
	}
	c := chat{id: cq.Message.Chat.ID, user: userKey(cq.From.ID), messageID: cq.Message.MessageID}
	data := cq.Data

	switch {
	case strings.HasPrefix(data, prefixLanguage):
		b.onLanguage(ctx, c, cq.ID, strings.TrimPrefix(data, prefixLanguage))
	case data == actionAnalyze || data == actionClaims:
		b.answer(cq.ID, "")
		b.onAction(ctx, c, data)
	default:
		ev, ok := services.ParseWizardEvent(data)
		b.answer(cq.ID, "")
		if ok {
			b.onWizardEvent(ctx, c, ev)
		}
	}
}

// chat identifies where a reply goes and which user it is for.
type chat struct {
	id        int64
	user      string
	messageID int
}

func (b *Bot) answer(callbackID, text string) {
	if callbackID == "" {
		return
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.log.WithError(err).Debug("answer callback failed")
	}
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.log.WithError(err).Warn("telegram send failed")
	}
}
