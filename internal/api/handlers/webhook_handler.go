package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

type UpdateHandler interface {
	HandleUpdate(ctx context.Context, u tgbotapi.Update)
}

type WebhookHandler struct {
	bot UpdateHandler
	log *logrus.Logger
}

func NewWebhookHandler(bot UpdateHandler, log *logrus.Logger) *WebhookHandler {
	return &WebhookHandler{bot: bot, log: log}
}

// Telegram retries non-2xx answers, so only undecodable bodies are rejected.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var u tgbotapi.Update
	if err := c.ShouldBindJSON(&u); err != nil {
		h.log.WithError(err).Warn("bad telegram update")
		c.Status(http.StatusBadRequest)
		return
	}
	h.bot.HandleUpdate(context.WithoutCancel(c.Request.Context()), u)
	c.Status(http.StatusOK)
}
