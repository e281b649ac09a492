package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"geoatlas/pkg/helpers"
	"geoatlas/pkg/response"
)

const CtxUserIDKey = "userID"

// Auth validates the Authorization bearer token and checks the session in
// Redis still carries the token's session id. Signout deletes that hash, so
// old tokens die immediately. On success the user id, name and email are set
// in the Gin context.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			response.AbortError(c, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid token", nil)
			return
		}

		key := helpers.SessionKeyPrefix + claims.UserID
		data, err := rdb.HGetAll(c.Request.Context(), key).Result()
		if err != nil || len(data) == 0 {
			response.AbortError(c, http.StatusUnauthorized, "session expired", nil)
			return
		}
		if data["sid"] != claims.SessionID {
			response.AbortError(c, http.StatusUnauthorized, "session superseded", nil)
			return
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set("userName", data["name"])
		c.Set("userEmail", data["email"])
		c.Next()
	}
}
