package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"stayhub/internal/domain"
	"stayhub/internal/middleware"
	"stayhub/internal/models"
	"stayhub/internal/repository"
	"stayhub/pkg/cloudinary"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	cloud        cloudinary.Client
	propertyRepo *repository.PropertyRepository
	eventRepo    *repository.EventRepository
}

func NewUploadHandler(cloud cloudinary.Client, propertyRepo *repository.PropertyRepository, eventRepo *repository.EventRepository) *UploadHandler {
	return &UploadHandler{cloud: cloud, propertyRepo: propertyRepo, eventRepo: eventRepo}
}

// UploadListingPhoto uploads an image and attaches it to the caller's listing.
func (h *UploadHandler) UploadListingPhoto(c *gin.Context) {
	if h.cloud == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads not configured"})
		return
	}
	kind := c.PostForm("listing_kind")
	listingID, err := strconv.ParseUint(c.PostForm("listing_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing_id"})
		return
	}
	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()

	switch kind {
	case domain.ListingKindProperty:
		p, err := h.propertyRepo.GetByID(ctx, uint(listingID))
		if err != nil || p.OwnerID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "not your property"})
			return
		}
	case domain.ListingKindEvent:
		e, err := h.eventRepo.GetByID(ctx, uint(listingID))
		if err != nil || e.OwnerID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "not your event"})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing_kind"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	folder := "stayhub/listings/" + strings.ToLower(kind) + "/" + strconv.FormatUint(listingID, 10)
	publicID := "img_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	url, _, err := h.cloud.UploadImage(ctx, f, folder, publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	photo := &models.ListingPhoto{
		ListingID:   uint(listingID),
		ListingType: kind,
		URL:         url,
		PublicID:    folder + "/" + publicID,
	}
	if err := h.propertyRepo.AddPhoto(photo); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save photo"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"photo": photo})
}
