package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lingoboard/internal/handlers"
	"lingoboard/internal/middleware"
	"lingoboard/internal/services"
)

// Deps is everything the routes need, built by the composition root.
type Deps struct {
	Community      *services.CommunityService
	Moderator      *services.Moderator
	Activity       *services.ActivityCache
	Gatherer       prometheus.Gatherer
	AdminTokenHash string
	DevelopMode    bool
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	// Handlers
	communityHandler := handlers.NewCommunityHandler(deps.Community)
	moderationHandler := handlers.NewModerationHandler(deps.Moderator)
	activityHandler := handlers.NewActivityHandler(deps.Activity)

	// Public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Admin
	admin := r.Group("/api/admin")
	admin.Use(middleware.AdminRequired(deps.AdminTokenHash, deps.DevelopMode))
	{
		admin.GET("/posts", communityHandler.ListPosts)                 // post listing with filters
		admin.GET("/posts/:id/comments", communityHandler.CommentTree)  // threaded comments, removed ones included
		admin.POST("/posts/:id/remove", moderationHandler.RemovePost)   // soft delete
		admin.POST("/posts/:id/restore", moderationHandler.RestorePost) // undo soft delete

		admin.POST("/comments/:id/remove", moderationHandler.RemoveComment)
		admin.POST("/comments/:id/restore", moderationHandler.RestoreComment)

		admin.POST("/users/:id/punish", moderationHandler.PunishUser)  // mute / ban / unban
		admin.GET("/users/:id/activity", activityHandler.UserActivity) // ?force=true bypasses the cache

		admin.GET("/violations", communityHandler.Violations)
		admin.GET("/moderation-logs", communityHandler.ModerationLogs)
		admin.GET("/appeals", communityHandler.Appeals)
	}
}
