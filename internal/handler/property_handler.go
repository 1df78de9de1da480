package handler

import (
	"net/http"
	"strconv"

	"stayhub/internal/domain"
	"stayhub/internal/middleware"
	"stayhub/internal/models"
	"stayhub/internal/repository"

	"github.com/gin-gonic/gin"
)

type PropertyHandler struct {
	repo *repository.PropertyRepository
}

func NewPropertyHandler(repo *repository.PropertyRepository) *PropertyHandler {
	return &PropertyHandler{repo: repo}
}

type CreatePropertyRequest struct {
	Title                string `json:"title" binding:"required,max=255"`
	Description          string `json:"description"`
	Address              string `json:"address" binding:"max=512"`
	City                 string `json:"city" binding:"required,max=100"`
	PricePerNightCents   int64  `json:"price_per_night_cents" binding:"required,min=1"`
	SecurityDepositCents int64  `json:"security_deposit_cents" binding:"min=0"`
}

func (h *PropertyHandler) Create(c *gin.Context) {
	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ownerKind := domain.OwnerIndividual
	if role, _ := c.Get("role"); role == domain.RoleAdmin {
		ownerKind = domain.OwnerPlatform
	}
	p := &models.Property{
		OwnerID:              middleware.GetUserID(c),
		OwnerKind:            ownerKind,
		Title:                req.Title,
		Description:          req.Description,
		Address:              req.Address,
		City:                 req.City,
		PricePerNightCents:   req.PricePerNightCents,
		SecurityDepositCents: req.SecurityDepositCents,
		IsBookable:           true,
	}
	if err := h.repo.Create(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create property"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"property": p})
}

type UpdatePropertyRequest struct {
	Title                *string `json:"title"`
	Description          *string `json:"description"`
	Address              *string `json:"address"`
	City                 *string `json:"city"`
	PricePerNightCents   *int64  `json:"price_per_night_cents"`
	SecurityDepositCents *int64  `json:"security_deposit_cents"`
	IsBookable           *bool   `json:"is_bookable"`
}

func (h *PropertyHandler) Update(c *gin.Context) {
	p, ok := h.loadOwned(c)
	if !ok {
		return
	}
	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Address != nil {
		p.Address = *req.Address
	}
	if req.City != nil {
		p.City = *req.City
	}
	if req.PricePerNightCents != nil && *req.PricePerNightCents > 0 {
		p.PricePerNightCents = *req.PricePerNightCents
	}
	if req.SecurityDepositCents != nil && *req.SecurityDepositCents >= 0 {
		p.SecurityDepositCents = *req.SecurityDepositCents
	}
	if req.IsBookable != nil {
		p.IsBookable = *req.IsBookable
	}
	if err := h.repo.Update(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update property"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"property": p})
}

func (h *PropertyHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid property id"})
		return
	}
	p, err := h.repo.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"property": p})
}

// List returns bookable properties, featured first.
func (h *PropertyHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.repo.List(c.Query("city"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list properties"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"properties": list})
}

func (h *PropertyHandler) ListMine(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.repo.ListByOwner(middleware.GetUserID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list properties"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"properties": list})
}

func (h *PropertyHandler) loadOwned(c *gin.Context) (*models.Property, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid property id"})
		return nil, false
	}
	p, err := h.repo.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
		return nil, false
	}
	role, _ := c.Get("role")
	if p.OwnerID != middleware.GetUserID(c) && role != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your property"})
		return nil, false
	}
	return p, true
}
