package user

import (
	"bitwise74/media-api/internal"
	"bitwise74/media-api/internal/service"
	"bitwise74/media-api/pkg/validators"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type registerBody struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

var validationErrors = []error{
	validators.ErrEmailEmpty,
	validators.ErrEmailInvalid,
	validators.ErrPasswordEmpty,
	validators.ErrPasswordTooShort,
	validators.ErrPasswordTooLong,
	validators.ErrPasswordInvalid,
}

func UserRegister(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data registerBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	userID, err := d.Auth.Register(c.Request.Context(), data.Email, data.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{
				"error":     "This email is already registered. Please login or use a different email",
				"requestID": requestID,
			})
			return
		}

		for _, v := range validationErrors {
			if errors.Is(err, v) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     err.Error(),
					"requestID": requestID,
				})
				return
			}
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to register user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"userID": userID,
	})
}
