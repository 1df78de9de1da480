package handler

import (
	"log"
	"net/http"
	"time"

	"stayhub/internal/domain"
	"stayhub/internal/middleware"
	"stayhub/internal/repository"
	"stayhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Feature placement duration and price per plan.
var featurePlans = map[string]struct {
	Duration   time.Duration
	PriceCents int64
}{
	"24h": {24 * time.Hour, 499},
	"7d":  {7 * 24 * time.Hour, 2499},
	"30d": {30 * 24 * time.Hour, 7999},
}

type FeatureHandler struct {
	propertyRepo *repository.PropertyRepository
	eventRepo    *repository.EventRepository
	ledger       *service.LedgerService
}

func NewFeatureHandler(propertyRepo *repository.PropertyRepository, eventRepo *repository.EventRepository, ledger *service.LedgerService) *FeatureHandler {
	return &FeatureHandler{propertyRepo: propertyRepo, eventRepo: eventRepo, ledger: ledger}
}

type FeatureRequest struct {
	ListingKind string `json:"listing_kind" binding:"required,oneof=PROPERTY EVENT"`
	ListingID   uint   `json:"listing_id" binding:"required"`
	Plan        string `json:"plan" binding:"required"`
}

// Purchase features a listing for a plan's duration and posts the fee as
// platform feature revenue.
func (h *FeatureHandler) Purchase(c *gin.Context) {
	var req FeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	plan, ok := featurePlans[req.Plan]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan (use 24h, 7d, 30d)"})
		return
	}
	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()
	until := time.Now().Add(plan.Duration)

	switch req.ListingKind {
	case domain.ListingKindProperty:
		p, err := h.propertyRepo.GetByID(ctx, req.ListingID)
		if err != nil || p.OwnerID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "not your property"})
			return
		}
		if err := h.propertyRepo.SetFeaturedUntil(ctx, p.ID, until); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "feature failed"})
			return
		}
	case domain.ListingKindEvent:
		e, err := h.eventRepo.GetByID(ctx, req.ListingID)
		if err != nil || e.OwnerID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "not your event"})
			return
		}
		if err := h.eventRepo.SetFeaturedUntil(ctx, e.ID, until); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "feature failed"})
			return
		}
	}

	ref := uuid.NewString()
	if err := h.ledger.PostFeature(ctx, userID, ref, plan.PriceCents); err != nil {
		log.Printf("[feature] revenue post failed: ref=%s err=%v", ref, err)
	}
	c.JSON(http.StatusCreated, gin.H{
		"listing_kind":   req.ListingKind,
		"listing_id":     req.ListingID,
		"featured_until": until,
		"amount_cents":   plan.PriceCents,
		"purchase_ref":   ref,
	})
}
