package media

import (
	"bitwise74/media-api/internal"
	"bitwise74/media-api/internal/model"
	"bitwise74/media-api/internal/policy"
	"bitwise74/media-api/internal/service"
	"bitwise74/media-api/internal/storage"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Parts bigger than this are buffered to a temporary file by the multipart reader
const multipartMemory = 8 << 20

// MediaUpload takes a multipart form with bucket, visibility, category and
// file fields, stores the file and returns its media_files row
func MediaUpload(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	if !strings.HasPrefix(c.Request.Header.Get("Content-Type"), "multipart/form-data") {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request",
			"requestID": requestID,
		})
		return
	}

	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error":     "Request body size exceeds limit",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid multipart form",
			"requestID": requestID,
		})

		zap.L().Debug("Failed to parse multipart form", zap.String("requestID", requestID), zap.Error(err))
		return
	}

	up := service.Upload{
		UserID:     userID,
		Bucket:     model.Bucket(c.PostForm("bucket")),
		Visibility: model.Visibility(c.PostForm("visibility")),
		Category:   model.Category(c.PostForm("category")),
	}

	fh, err := c.FormFile("file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid file",
			"requestID": requestID,
		})

		zap.L().Debug("Failed to read multipart file", zap.String("requestID", requestID), zap.Error(err))
		return
	}

	if fh != nil {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to open multipart file", zap.String("requestID", requestID), zap.Error(err))
			return
		}
		defer f.Close()

		up.File = &policy.File{
			Name:     fh.Filename,
			MimeType: fh.Header.Get("Content-Type"),
			Size:     fh.Size,
		}
		up.Body = f
	}

	rec, err := d.Uploader.Do(c.Request.Context(), up)
	if err != nil {
		status, code := classify(err)
		if status == http.StatusInternalServerError {
			zap.L().Error("Upload failed", zap.String("requestID", requestID), zap.Error(err))
		}

		c.JSON(status, gin.H{
			"error":     err.Error(),
			"code":      code,
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// classify maps upload errors to an HTTP status and a stable error code
func classify(err error) (int, string) {
	var (
		storageErr *service.StorageError
		insertErr  *service.InsertError
	)

	switch {
	case errors.Is(err, policy.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, policy.ErrNoFile):
		return http.StatusBadRequest, "no_file"
	case errors.Is(err, policy.ErrInvalidSelection):
		return http.StatusBadRequest, "invalid_selection"
	case errors.As(err, &storageErr):
		if errors.Is(err, storage.ErrObjectExists) {
			return http.StatusConflict, "storage_error"
		}
		return http.StatusBadGateway, "storage_error"
	case errors.As(err, &insertErr):
		return http.StatusInternalServerError, "insert_error"
	}

	return http.StatusInternalServerError, "internal_error"
}
