package root

import (
	"bitwise74/media-api/internal"
	"bitwise74/media-api/internal/policy"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Options lists the choices the upload form offers on this deployment
func Options(c *gin.Context, d *internal.Deps) {
	c.JSON(http.StatusOK, gin.H{
		"variant":      d.Variant.Name,
		"buckets":      d.Variant.Buckets,
		"visibilities": d.Variant.Visibilities,
		"categories":   d.Variant.Categories,
		"defaults": gin.H{
			"bucket":     policy.DefaultBucket,
			"visibility": policy.DefaultVisibility,
			"category":   policy.DefaultCategory,
		},
		"maxUploadSize": d.MaxUploadSize,
	})
}
