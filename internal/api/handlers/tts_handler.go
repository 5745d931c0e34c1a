package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/jaanekhana/internal/models"
	"github.com/yoockh/jaanekhana/internal/services"
)

const missingTextMessage = "Missing text in request body"

type TTSHandler struct {
	speech    services.SpeechService
	urlPrefix string
}

// NewTTSHandler serves files that are mounted under urlPrefix.
func NewTTSHandler(speech services.SpeechService, urlPrefix string) *TTSHandler {
	return &TTSHandler{speech: speech, urlPrefix: urlPrefix}
}

type TTSRequest struct {
	Text     string `json:"text"`
	Filename string `json:"filename"`
	Lang     string `json:"lang"`
}

type TTSResponse struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

func (h *TTSHandler) Synthesize(c *gin.Context) {
	var req TTSRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		c.JSON(http.StatusBadRequest, APIError{Error: missingTextMessage})
		return
	}

	out, err := h.speech.Synthesize(c.Request.Context(), req.Text, req.Filename, models.NormalizeLanguage(req.Lang))
	if err != nil {
		writeFailure(c, err, "Failed to generate speech")
		return
	}
	c.JSON(http.StatusOK, TTSResponse{
		Path: out.Path,
		URL:  h.urlPrefix + "/" + url.PathEscape(out.Name),
	})
}
