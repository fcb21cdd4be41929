package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"bitbucket.org/gsosupply/inventory_backend/config"
	"bitbucket.org/gsosupply/inventory_backend/models"
	"bitbucket.org/gsosupply/inventory_backend/utils"
	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const maxUploadSizeBytes int64 = 5 * 1024 * 1024

var imageMimeTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// uploadImageHandler takes a multipart image, stores the original and a 200px
// thumbnail in the bucket, and, when supply_code is given, points the catalog
// record at the new image. The previous image's objects are removed on
// replace; an orphaned old object is logged, not fatal.
func uploadImageHandler(store *models.Store, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if utils.GetStorageProvider() != utils.StorageProviderGCS {
			c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "error": "storage provider not supported"})
			return
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "error": "image file is required"})
			return
		}
		if fileHeader.Size > maxUploadSizeBytes {
			c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "error": "file size exceeds 5MB limit"})
			return
		}

		mimeType := fileHeader.Header.Get("Content-Type")
		ext, ok := imageMimeTypes[mimeType]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "error": "unsupported image type"})
			return
		}
		if fromName := strings.ToLower(filepath.Ext(fileHeader.Filename)); fromName != "" {
			ext = fromName
		}

		file, err := fileHeader.Open()
		if err != nil {
			respondError(c, logger, "uploadImageHandler", err)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxUploadSizeBytes+1))
		if err != nil {
			respondError(c, logger, "uploadImageHandler", err)
			return
		}
		if int64(len(data)) > maxUploadSizeBytes {
			c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "error": "file size exceeds 5MB limit"})
			return
		}

		ctx := c.Request.Context()
		objectKey := path.Join("supplies", uuid.New().String()+ext)
		if err := utils.UploadBytesToGCS(ctx, objectKey, data, mimeType); err != nil {
			respondError(c, logger, "uploadImageHandler", err)
			return
		}

		thumbnailKey, err := createThumbnail(ctx, objectKey, data)
		if err != nil {
			respondError(c, logger, "uploadImageHandler", err)
			return
		}

		imageUrl := utils.BuildObjectAccessURL(objectKey)

		supplyCode := strings.TrimSpace(c.Query("supply_code"))
		if supplyCode != "" {
			previousUrl, err := store.SetSupplyImage(ctx, supplyCode, imageUrl)
			if err != nil {
				respondError(c, logger, "uploadImageHandler", err)
				return
			}
			if previousKey := utils.ExtractObjectKeyFromURL(previousUrl); previousKey != "" {
				if err := utils.DeleteObjectFromGCS(ctx, previousKey); err != nil {
					config.LogError(logger, "uploads", "uploadImageHandler",
						"failed to remove replaced image", previousKey, err)
				}
				if err := utils.DeleteObjectFromGCS(ctx, thumbnailObjectKey(previousKey)); err != nil {
					config.LogError(logger, "uploads", "uploadImageHandler",
						"failed to remove replaced thumbnail", previousKey, err)
				}
			}
		}

		actorId, _ := utils.GetUserIdFromContext(ctx)
		actorName, _ := utils.GetUserNameFromContext(ctx)
		logger.WithFields(logrus.Fields{
			"object_key":  objectKey,
			"mime_type":   mimeType,
			"size":        fileHeader.Size,
			"supply_code": supplyCode,
			"user_id":     actorId,
			"user":        actorName,
		}).Info("[upload.image]")

		c.JSON(http.StatusCreated, gin.H{
			"image_url":     imageUrl,
			"thumbnail_url": utils.BuildObjectAccessURL(thumbnailKey),
			"object_key":    objectKey,
		})
	}
}

// uploadObjectHandler streams a stored object back to the console, for
// deployments where the bucket is not publicly readable.
func uploadObjectHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		objectKey := strings.TrimSpace(c.Query("key"))
		if objectKey == "" || strings.Contains(objectKey, "..") || strings.HasPrefix(objectKey, "/") {
			c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "error": "invalid key"})
			return
		}

		if utils.GetStorageProvider() != utils.StorageProviderGCS {
			c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION", "error": "storage provider not supported"})
			return
		}

		client, err := utils.GetGCSClient(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL", "error": "storage client error"})
			return
		}
		defer client.Close()

		bucket := strings.TrimSpace(os.Getenv("GCS_BUCKET"))
		if bucket == "" {
			c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL", "error": "GCS_BUCKET is required"})
			return
		}
		obj := client.Bucket(bucket).Object(objectKey)
		attrs, err := obj.Attrs(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "error": "object not found"})
			return
		}
		reader, err := obj.NewReader(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "error": "object not found"})
			return
		}
		defer reader.Close()

		if attrs.ContentType != "" {
			c.Writer.Header().Set("Content-Type", attrs.ContentType)
		}
		if attrs.Size > 0 {
			c.Writer.Header().Set("Content-Length", fmt.Sprintf("%d", attrs.Size))
		}
		c.Status(http.StatusOK)
		_, _ = io.Copy(c.Writer, reader)
	}
}

func createThumbnail(ctx context.Context, objectKey string, data []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	thumbnail := imaging.Resize(img, 200, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumbnail, imaging.JPEG); err != nil {
		return "", err
	}

	thumbnailKey := thumbnailObjectKey(objectKey)
	if err := utils.UploadBytesToGCS(ctx, thumbnailKey, buf.Bytes(), "image/jpeg"); err != nil {
		return "", err
	}
	return thumbnailKey, nil
}

func thumbnailObjectKey(objectKey string) string {
	dir := path.Dir(objectKey)
	filename := path.Base(objectKey)
	return path.Join(dir, "thumbnails", filename)
}
