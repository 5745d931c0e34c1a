package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/jaanekhana/internal/utils"
)

type APIError struct {
	Error string `json:"error"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	c.JSON(status, APIError{Error: utils.SafeMessage(err, http.StatusText(status))})
}

// writeFailure answers a failed operation with 400 for bad input and 500
// with fallback for everything else.
func writeFailure(c *gin.Context, err error, fallback string) {
	if utils.IsCode(err, utils.CodeInvalidArgument) {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusInternalServerError, APIError{Error: fallback})
}
