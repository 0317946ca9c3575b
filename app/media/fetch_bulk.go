package media

import (
	"bitwise74/media-api/internal"
	"bitwise74/media-api/internal/model"
	"bitwise74/media-api/internal/repository"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MediaFetchBulk returns a page of the user's media_files rows
func MediaFetchBulk(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Page must be a number",
			"requestID": requestID,
		})
		return
	}

	if page < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Page can't be negative",
			"requestID": requestID,
		})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Limit must be a number",
			"requestID": requestID,
		})
		return
	}

	if limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Limit must be greater than 0",
			"requestID": requestID,
		})
		return
	}

	if limit > 250 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Limit must be smaller than 250",
			"requestID": requestID,
		})
		return
	}

	sort := strings.ToLower(c.DefaultQuery("sort", "newest"))
	if _, ok := repository.SortOptions[sort]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid sorting option",
			"requestID": requestID,
		})
		return
	}

	bucket := model.Bucket(c.Query("bucket"))
	if bucket != "" && !slices.Contains(d.Variant.Buckets, bucket) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid bucket",
			"requestID": requestID,
		})
		return
	}

	entries, err := d.Media.ListByUser(c.Request.Context(), userID, repository.ListOptions{
		Bucket: bucket,
		Sort:   sort,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to lookup user media", zap.String("requestID", requestID), zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, entries)
}
