package handler

import (
	"net/http"
	"strconv"
	"time"

	"stayhub/internal/domain"
	"stayhub/internal/repository"
	"stayhub/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	revenueRepo *repository.RevenueRepository
	ledgerRepo  *repository.LedgerRepository
	settingRepo *repository.SettingRepository
	scheduler   *service.SchedulerService
}

func NewAdminHandler(revenueRepo *repository.RevenueRepository, ledgerRepo *repository.LedgerRepository, settingRepo *repository.SettingRepository, scheduler *service.SchedulerService) *AdminHandler {
	return &AdminHandler{
		revenueRepo: revenueRepo,
		ledgerRepo:  ledgerRepo,
		settingRepo: settingRepo,
		scheduler:   scheduler,
	}
}

// GetRevenue returns per-day revenue buckets over [from, to]. Defaults to
// the last 30 days.
func (h *AdminHandler) GetRevenue(c *gin.Context) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if s := c.Query("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date (use YYYY-MM-DD)"})
			return
		}
		from = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date (use YYYY-MM-DD)"})
			return
		}
		to = t
	}
	periods, err := h.revenueRepo.ListRange(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list revenue"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"periods": periods})
}

// ListLedgerForRef returns every ledger entry whose source ref matches, so
// operators can audit a booking's full posting history.
func (h *AdminHandler) ListLedgerForRef(c *gin.Context) {
	entries, err := h.ledgerRepo.ListBySourceRef(c.Request.Context(), c.Param("ref"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list ledger"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *AdminHandler) ListDiscrepancies(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.ledgerRepo.ListOpenDiscrepancies(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list discrepancies"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"discrepancies": list})
}

func (h *AdminHandler) ResolveDiscrepancy(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid discrepancy id"})
		return
	}
	if err := h.ledgerRepo.ResolveDiscrepancy(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not resolve discrepancy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "resolved"})
}

func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingRepo.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

type UpdateSettingRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value" binding:"required"`
}

// UpdateSetting changes a system setting. New values apply to postings and
// sweeps from this point on; already-posted ledger entries are untouched.
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Key == domain.SettingCommissionPercent {
		if _, err := service.ParsePercent(req.Value); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid commission percent"})
			return
		}
	}
	if err := h.settingRepo.Set(req.Key, req.Value); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update setting"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RunSweep triggers the lifecycle sweep outside the normal schedule.
func (h *AdminHandler) RunSweep(c *gin.Context) {
	h.scheduler.Run(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": "sweep complete"})
}
