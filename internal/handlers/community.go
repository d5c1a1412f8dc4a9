package handlers

import (
	"github.com/gin-gonic/gin"

	"lingoboard/internal/models"
	"lingoboard/internal/services"
)

type CommunityHandler struct {
	community *services.CommunityService
}

func NewCommunityHandler(community *services.CommunityService) *CommunityHandler {
	return &CommunityHandler{community: community}
}

// ListPosts GET /posts?status=&user_id=&page=&limit=
func (h *CommunityHandler) ListPosts(c *gin.Context) {
	filter := services.PostFilter{
		Status: models.PostStatus(c.Query("status")),
		UserID: c.Query("user_id"),
		Page:   pageParams(c),
	}
	posts, meta, err := h.community.Posts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, posts, meta)
}

// CommentTree GET /posts/:id/comments
func (h *CommunityHandler) CommentTree(c *gin.Context) {
	roots, err := h.community.CommentTree(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, roots)
}

// Violations GET /violations?user_id=
func (h *CommunityHandler) Violations(c *gin.Context) {
	violations, meta, err := h.community.Violations(c.Request.Context(), c.Query("user_id"), pageParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, violations, meta)
}

// ModerationLogs GET /moderation-logs
func (h *CommunityHandler) ModerationLogs(c *gin.Context) {
	logs, meta, err := h.community.ModerationLogs(c.Request.Context(), pageParams(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, logs, meta)
}

// Appeals GET /appeals?status=
func (h *CommunityHandler) Appeals(c *gin.Context) {
	appeals, err := h.community.Appeals(c.Request.Context(), models.AppealStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, appeals)
}
