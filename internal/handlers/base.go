package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"lingoboard/internal/datasource"
	"lingoboard/internal/logger"
	"lingoboard/internal/models"
	"lingoboard/internal/services"
)

func respondOK[T any](c *gin.Context, data T) {
	c.JSON(http.StatusOK, models.Envelope[T]{Success: true, Data: data})
}

func respondPage[T any](c *gin.Context, data T, meta *models.PageMeta) {
	c.JSON(http.StatusOK, models.Envelope[T]{Success: true, Data: data, Meta: meta})
}

func respondMessage(c *gin.Context, code int, message string) {
	c.JSON(code, models.Envelope[any]{Success: false, Message: message})
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		logger.ErrorWithStack(errors.WithMessagef(err, "%s %s", c.Request.Method, c.Request.URL.Path))
	}
	respondMessage(c, code, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrPostNotFound), errors.Is(err, datasource.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, datasource.ErrInvalidAction):
		return http.StatusBadRequest
	case errors.Is(err, datasource.ErrBackend):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// pageParams reads ?page=&limit=; bad values fall back to the defaults.
func pageParams(c *gin.Context) services.Page {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return services.Page{Page: page, Limit: limit}
}
