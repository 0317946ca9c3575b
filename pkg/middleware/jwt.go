package middleware

import (
	"bitwise74/media-api/internal/model"
	"bitwise74/media-api/pkg/security"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewJWTMiddleware accepts the auth_token cookie or an Authorization bearer
// header and sets userID for the following handlers
func NewJWTMiddleware(secret []byte, d *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetString("requestID")

		tokenStr := bearerToken(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Not signed in",
				"code":      "unauthenticated",
				"requestID": requestID,
			})
			return
		}

		userID, err := security.ParseToken(secret, tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Authorization token invalid",
				"code":      "unauthenticated",
				"requestID": requestID,
			})

			zap.L().Debug("Failed to parse token", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		// Tokens outlive deleted accounts so make sure the user still exists
		var count int64
		err = d.WithContext(c.Request.Context()).
			Model(model.User{}).
			Where("id = ?", userID).
			Count(&count).
			Error
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check if user exists", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if count == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "User not found",
				"code":      "unauthenticated",
				"requestID": requestID,
			})
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if after, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(after)
		}
	}

	tokenStr, err := c.Cookie("auth_token")
	if err != nil && !errors.Is(err, http.ErrNoCookie) {
		zap.L().Warn("Failed to read auth_token cookie", zap.Error(err))
	}

	return tokenStr
}
