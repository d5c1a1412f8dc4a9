package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"lingoboard/internal/middleware"
	"lingoboard/internal/models"
	"lingoboard/internal/services"
)

type ModerationHandler struct {
	moderator *services.Moderator
}

func NewModerationHandler(moderator *services.Moderator) *ModerationHandler {
	return &ModerationHandler{moderator: moderator}
}

type reasonBody struct {
	Reason string `json:"reason" binding:"max=500"`
}

// punishBody mirrors the user status values: 0 normal, 1 muted, 2 banned.
type punishBody struct {
	Status *int   `json:"status" binding:"required,oneof=0 1 2"`
	Days   int    `json:"days" binding:"gte=0"`
	Reason string `json:"reason" binding:"max=500"`
}

func (h *ModerationHandler) RemovePost(c *gin.Context) {
	h.apply(c, models.ActionRemovePost)
}

func (h *ModerationHandler) RestorePost(c *gin.Context) {
	h.apply(c, models.ActionRestorePost)
}

func (h *ModerationHandler) RemoveComment(c *gin.Context) {
	h.apply(c, models.ActionRemoveComment)
}

func (h *ModerationHandler) RestoreComment(c *gin.Context) {
	h.apply(c, models.ActionRestoreComment)
}

// apply handles the remove/restore routes. The body is optional.
func (h *ModerationHandler) apply(c *gin.Context, action models.ModerationAction) {
	var body reasonBody
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
			respondMessage(c, http.StatusBadRequest, validationMessage(err))
			return
		}
	}

	h.run(c, services.Request{
		Action:      action,
		TargetID:    c.Param("id"),
		ModeratorID: middleware.ModeratorID(c),
		Reason:      body.Reason,
	})
}

// PunishUser mutes, bans or restores a user.
func (h *ModerationHandler) PunishUser(c *gin.Context) {
	var body punishBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondMessage(c, http.StatusBadRequest, validationMessage(err))
		return
	}

	var action models.ModerationAction
	switch *body.Status {
	case models.UserStatusNormal:
		action = models.ActionUnbanUser
	case models.UserStatusMuted:
		action = models.ActionMuteUser
	case models.UserStatusBanned:
		action = models.ActionBanUser
	default:
		respondMessage(c, http.StatusBadRequest, "unknown status")
		return
	}

	h.run(c, services.Request{
		Action:      action,
		TargetID:    c.Param("id"),
		ModeratorID: middleware.ModeratorID(c),
		Reason:      body.Reason,
		Days:        body.Days,
	})
}

func (h *ModerationHandler) run(c *gin.Context, req services.Request) {
	entry, err := h.moderator.Apply(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, entry)
}
