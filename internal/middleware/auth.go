package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"lingoboard/internal/models"
)

const (
	ModeratorKey    = "moderator_id"
	ModeratorHeader = "X-Admin-ID"
)

// AdminRequired checks the bearer token against a bcrypt hash and stores the
// moderator id from X-Admin-ID in the context. With an empty hash every request
// is rejected, except in develop mode where every request passes.
func AdminRequired(tokenHash string, develop bool) gin.HandlerFunc {
	hash := []byte(tokenHash)
	return func(c *gin.Context) {
		if len(hash) == 0 && develop {
			setModerator(c)
			c.Next()
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok || len(hash) == 0 || bcrypt.CompareHashAndPassword(hash, []byte(token)) != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Envelope[any]{
				Success: false,
				Message: "admin token required",
			})
			return
		}

		setModerator(c)
		c.Next()
	}
}

func setModerator(c *gin.Context) {
	id := strings.TrimSpace(c.GetHeader(ModeratorHeader))
	if id == "" {
		id = "admin"
	}
	c.Set(ModeratorKey, id)
}

// ModeratorID returns the moderator set by AdminRequired.
func ModeratorID(c *gin.Context) string {
	return c.GetString(ModeratorKey)
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
