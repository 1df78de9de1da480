package handler

import (
	"log"
	"net/http"
	"time"

	"stayhub/internal/middleware"
	"stayhub/internal/models"
	"stayhub/internal/repository"
	"stayhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var subscriptionPlans = map[string]struct {
	Duration   time.Duration
	PriceCents int64
}{
	"MONTHLY": {30 * 24 * time.Hour, 1999},
	"YEARLY":  {365 * 24 * time.Hour, 19999},
}

type SubscriptionHandler struct {
	repo   *repository.SubscriptionRepository
	ledger *service.LedgerService
}

func NewSubscriptionHandler(repo *repository.SubscriptionRepository, ledger *service.LedgerService) *SubscriptionHandler {
	return &SubscriptionHandler{repo: repo, ledger: ledger}
}

type SubscribeRequest struct {
	Plan string `json:"plan" binding:"required,oneof=MONTHLY YEARLY"`
}

// Subscribe records a host subscription purchase and posts the fee as
// platform subscription revenue.
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	plan := subscriptionPlans[req.Plan]
	userID := middleware.GetUserID(c)
	sub := &models.HostSubscription{
		UserID:      userID,
		Plan:        req.Plan,
		AmountCents: plan.PriceCents,
		PurchaseRef: uuid.NewString(),
		ExpiresAt:   time.Now().Add(plan.Duration),
	}
	if err := h.repo.Create(sub); err != nil {
		log.Printf("[subscription] create failed: user=%d err=%v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "subscription failed"})
		return
	}
	if err := h.ledger.PostSubscription(c.Request.Context(), userID, sub.PurchaseRef, sub.AmountCents); err != nil {
		log.Printf("[subscription] revenue post failed: ref=%s err=%v", sub.PurchaseRef, err)
	}
	c.JSON(http.StatusCreated, gin.H{"subscription": sub})
}

func (h *SubscriptionHandler) Current(c *gin.Context) {
	sub, err := h.repo.GetActiveByUserID(middleware.GetUserID(c), time.Now())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active subscription"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

func (h *SubscriptionHandler) History(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.repo.ListByUserID(middleware.GetUserID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list subscriptions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": list})
}
