package user

import (
	"bitwise74/media-api/internal"
	"bitwise74/media-api/internal/service"
	"bitwise74/media-api/pkg/security"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loginBody struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// UserLogin signs a user in with email and password. The auth token is set
// as a cookie and also returned for clients that send bearer tokens
func UserLogin(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data loginBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	userID, err := d.Auth.SignInWithPassword(c.Request.Context(), data.Email, data.Password)
	if err != nil {
		var authErr *service.AuthError
		if errors.As(err, &authErr) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":     authErr.Message,
				"code":      "auth_error",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to sign in", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	authToken, err := security.IssueToken(d.JWTSecret, userID, d.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to generate JWT auth token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	maxAge := int(d.TokenTTL.Seconds())

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("auth_token", authToken, maxAge, "/", "", d.SecureCookies, true)
	c.SetCookie("logged_in", "1", maxAge, "/", "", d.SecureCookies, false)
	c.JSON(http.StatusOK, gin.H{
		"userID":      userID,
		"accessToken": authToken,
	})
}
