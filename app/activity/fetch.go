package activity

import (
	"bitwise74/media-api/internal"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ActivityFetch returns the user's activity log, newest line first
func ActivityFetch(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	c.JSON(http.StatusOK, gin.H{
		"lines": d.Activity.Lines(userID),
	})
}
