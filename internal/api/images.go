package api

import (
	"course_catalog/internal/catalog" // Catalog services
	"io"                              // Streaming
	"net/http"                        // HTTP status codes
	"strconv"                         // Header formatting

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// ImageHandler streams a stored image
func ImageHandler(images *catalog.ImageSaver) gin.HandlerFunc {
	return func(c *gin.Context) {
		img, body, err := images.Open(c.Request.Context(), c.Param("id"))
		if err != nil {
			abortWithError(c, err)
			return
		}
		defer body.Close() // Release the blob reader
		c.Header("Content-Type", img.MimeType)
		c.Header("Cache-Control", "public, max-age="+strconv.Itoa(86400)) // Image bytes never change
		c.Status(http.StatusOK)
		if _, err := io.Copy(c.Writer, body); err != nil {
			logrus.WithFields(logrus.Fields{"image_id": img.ID, "error": err.Error()}).Warn("Image streaming interrupted")
		}
	}
}
