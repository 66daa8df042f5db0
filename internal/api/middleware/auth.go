package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// UserIDHeader carries the authenticated user's ID, set by the edge proxy
	UserIDHeader = "X-User-ID"

	// UserIDKey is the key used to store the user ID in the context
	UserIDKey = "user_id"
)

// UserIdentity middleware requires a valid X-User-ID header on every request
// and makes the parsed ID available to handlers. All data access downstream
// is scoped to this user.
func UserIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(UserIDHeader)
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Missing " + UserIDHeader + " header",
				},
			})
			return
		}

		userID, err := uuid.Parse(header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Invalid " + UserIDHeader + " header",
				},
			})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// GetUserID retrieves the authenticated user's ID from the gin context.
// Returns uuid.Nil when the middleware did not run.
func GetUserID(c *gin.Context) uuid.UUID {
	if v, exists := c.Get(UserIDKey); exists {
		if userID, ok := v.(uuid.UUID); ok {
			return userID
		}
	}
	return uuid.Nil
}
