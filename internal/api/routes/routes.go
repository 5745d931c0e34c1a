package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/jaanekhana/internal/api/handlers"
)

// UploadsMount is the URL prefix generated audio is served under.
const UploadsMount = "/uploads"

type Deps struct {
	Analysis   *handlers.AnalysisHandler
	TTS        *handlers.TTSHandler
	Profile    *handlers.ProfileHandler
	WS         *handlers.WSHandler
	Webhook    *handlers.WebhookHandler
	UploadsDir string
	// WebhookPath is empty when the bot is disabled.
	WebhookPath string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := r.Group("/api")
	api.GET("/profile/options", d.Profile.Options)
	if d.Analysis != nil {
		api.POST("/gemini/upload", d.Analysis.Upload)
	}
	if d.TTS != nil {
		api.POST("/tts", d.TTS.Synthesize)
	}
	if d.WS != nil {
		api.GET("/ws/analyze", d.WS.Analyze)
	}

	if d.Webhook != nil && d.WebhookPath != "" {
		r.POST(d.WebhookPath, d.Webhook.Receive)
	}

	if d.UploadsDir != "" {
		r.Static(UploadsMount, d.UploadsDir)
	}
}
