package handler

import (
	"log"
	"net/http"

	"stayhub/internal/middleware"
	"stayhub/internal/models"
	"stayhub/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WalletHandler struct {
	walletRepo *repository.WalletRepository
	ledgerRepo *repository.LedgerRepository
}

func NewWalletHandler(walletRepo *repository.WalletRepository, ledgerRepo *repository.LedgerRepository) *WalletHandler {
	return &WalletHandler{walletRepo: walletRepo, ledgerRepo: ledgerRepo}
}

// GetBalance returns the caller's revenue wallet.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	w, err := h.walletRepo.GetOrCreate(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_revenue_cents":     w.TotalRevenueCents,
		"available_revenue_cents": w.AvailableRevenueCents,
		"currency":                w.Currency,
	})
}

// ListLedger returns the caller's ledger entries, newest first.
func (h *WalletHandler) ListLedger(c *gin.Context) {
	limit, offset := pagination(c)
	entries, err := h.ledgerRepo.ListByRecipient(c.Request.Context(), middleware.GetUserID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list ledger"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

type WithdrawRequest struct {
	AmountCents int64 `json:"amount_cents" binding:"required,min=100"`
}

// Withdraw debits available revenue and records a withdrawal order.
func (h *WalletHandler) Withdraw(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := middleware.GetUserID(c)
	if err := h.walletRepo.DebitAvailable(c.Request.Context(), userID, req.AmountCents); err != nil {
		if err == repository.ErrInsufficientBalance {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "reason": "insufficient_balance"})
			return
		}
		log.Printf("[wallet] debit failed: user=%d err=%v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "withdrawal failed"})
		return
	}
	w := &models.Withdrawal{
		UserID:      userID,
		OrderID:     uuid.NewString(),
		AmountCents: req.AmountCents,
		Status:      "PENDING",
	}
	if err := h.walletRepo.CreateWithdrawal(w); err != nil {
		log.Printf("[wallet] withdrawal record failed after debit: user=%d amount=%d err=%v", userID, req.AmountCents, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "withdrawal failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"withdrawal": w})
}

func (h *WalletHandler) ListWithdrawals(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.walletRepo.ListWithdrawals(middleware.GetUserID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list withdrawals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": list})
}
