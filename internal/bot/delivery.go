package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/jaanekhana/internal/locales"
	"github.com/yoockh/jaanekhana/internal/models"
	"github.com/yoockh/jaanekhana/internal/services"
)

// chatDelivery renders pipeline output into one Telegram chat.
type chatDelivery struct {
	api    API
	chatID int64
	log    *logrus.Logger
}

func (d *chatDelivery) Progress(_ context.Context, stage models.PipelineStage, lang models.Language) error {
	switch stage {
	case models.StageDownloading:
		_, err := d.api.Send(tgbotapi.NewMessage(d.chatID, locales.Tf(lang, locales.Analyzing, strings.ToUpper(string(lang)))))
		return err
	case models.StageSynthesize:
		_, err := d.api.Request(tgbotapi.NewChatAction(d.chatID, tgbotapi.ChatRecordVoice))
		return err
	}
	return nil
}

func (d *chatDelivery) Text(_ context.Context, res services.Result) error {
	if res.Verbatim {
		_, err := d.api.Send(tgbotapi.NewMessage(d.chatID, res.Text))
		return err
	}
	header := locales.T(res.Language, locales.AnalysisHeader)
	if res.Mode == models.ModeClaims {
		header = locales.T(res.Language, locales.ClaimsHeader)
	}
	msg := tgbotapi.NewMessage(d.chatID, header+"\n\n"+res.Text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := d.api.Send(msg); err != nil {
		// Retry without Markdown in case the model produced unbalanced markup.
		d.log.WithError(err).Debug("markdown reply rejected, sending plain text")
		plain := tgbotapi.NewMessage(d.chatID, strings.ReplaceAll(header, "*", "")+"\n\n"+res.Text)
		_, err = d.api.Send(plain)
		return err
	}
	return nil
}

func (d *chatDelivery) Audio(_ context.Context, res services.Result, path string) error {
	audio := tgbotapi.NewAudio(d.chatID, tgbotapi.FilePath(path))
	audio.Title = locales.T(res.Language, locales.AudioTitle)
	audio.Caption = locales.T(res.Language, locales.AudioCaption)
	_, err := d.api.Send(audio)
	return err
}

func (d *chatDelivery) Failure(_ context.Context, f services.Failure) error {
	_, err := d.api.Send(tgbotapi.NewMessage(d.chatID, locales.T(f.Language, locales.ProcessingFailed)))
	return err
}
