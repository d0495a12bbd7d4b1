package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/communityhub/server/internal/helpers"
	"github.com/communityhub/server/internal/models"
	"github.com/gin-gonic/gin"
)

// Upload stores an event image in the bucket and returns its public URL.
func Upload(uploader *manager.Uploader, bucket, region string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := sessionClaims(c); !ok {
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("No file provided"))
			return
		}

		if fileHeader.Size > helpers.MaxUploadSize {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("File too large. Maximum size is 10MB."))
			return
		}

		contentType := fileHeader.Header.Get("Content-Type")
		if _, ok := helpers.AllowedImageTypes[contentType]; !ok {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(
				"Invalid file type. Only JPEG, PNG, and WebP formats are allowed."))
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse("Failed to upload file"))
			return
		}
		defer file.Close()

		url, err := helpers.UploadImage(c.Request.Context(), uploader, bucket, region, file, contentType)
		if err != nil {
			logger.Error("image upload failed", "error", err)
			c.JSON(http.StatusInternalServerError, models.ErrorResponse("Failed to upload file"))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"url":     url,
			"message": "File uploaded successfully",
		})
	}
}
