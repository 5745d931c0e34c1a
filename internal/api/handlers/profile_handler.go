package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/jaanekhana/internal/models"
)

type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

// Options lists every selectable profile value for the web profile builder.
func (h *ProfileHandler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, models.Options)
}
