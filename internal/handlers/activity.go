package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"lingoboard/internal/services"
)

const cachedAtHeader = "X-Activity-Cached-At"

type ActivityHandler struct {
	cache *services.ActivityCache
}

func NewActivityHandler(cache *services.ActivityCache) *ActivityHandler {
	return &ActivityHandler{cache: cache}
}

// UserActivity GET /users/:id/activity?force=true
func (h *ActivityHandler) UserActivity(c *gin.Context) {
	userID := c.Param("id")
	force, _ := strconv.ParseBool(c.Query("force"))

	activity, err := h.cache.Fetch(c.Request.Context(), userID, services.FetchOptions{Force: force})
	if err != nil {
		respondError(c, err)
		return
	}
	if entry, ok := h.cache.Cached(userID); ok && entry.Activity == activity {
		c.Header(cachedAtHeader, entry.CachedAt.UTC().Format(time.RFC3339))
	}
	c.Header("Cache-Control", "no-store")
	respondOK(c, activity)
}
