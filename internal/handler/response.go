package handler

import (
	"errors"
	"net/http"

	"github.com/damoang/caption-queue/internal/common"
	"github.com/damoang/caption-queue/internal/web"
	"github.com/damoang/caption-queue/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// errorStatus maps a pipeline error to an HTTP status
func errorStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrPostNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// renderError answers with the error page, or the JSON envelope for API clients.
// err is recorded for the request logger only.
func renderError(c *gin.Context, status int, message string, err error) {
	if ginutil.WantsJSON(c) {
		common.ErrorResponse(c, status, message, err)
		return
	}
	if err != nil {
		_ = c.Error(err)
	}
	c.HTML(status, web.ErrorPage, gin.H{
		"Title":   http.StatusText(status),
		"Message": message,
		"Back":    "/approval",
	})
}
