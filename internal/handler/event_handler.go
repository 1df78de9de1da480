package handler

import (
	"net/http"
	"strconv"
	"time"

	"stayhub/internal/domain"
	"stayhub/internal/middleware"
	"stayhub/internal/models"
	"stayhub/internal/repository"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	repo *repository.EventRepository
}

func NewEventHandler(repo *repository.EventRepository) *EventHandler {
	return &EventHandler{repo: repo}
}

type CreateEventRequest struct {
	Title            string    `json:"title" binding:"required,max=255"`
	Description      string    `json:"description"`
	Venue            string    `json:"venue" binding:"max=512"`
	City             string    `json:"city" binding:"required,max=100"`
	StartsAt         time.Time `json:"starts_at" binding:"required"`
	EndsAt           time.Time `json:"ends_at" binding:"required"`
	TicketPriceCents int64     `json:"ticket_price_cents" binding:"required,min=1"`
	TotalCapacity    int       `json:"total_capacity" binding:"required,min=1"`
}

func (h *EventHandler) Create(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.StartsAt.Before(req.EndsAt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "starts_at must precede ends_at"})
		return
	}
	ownerKind := domain.OwnerIndividual
	if role, _ := c.Get("role"); role == domain.RoleAdmin {
		ownerKind = domain.OwnerPlatform
	}
	e := &models.Event{
		OwnerID:          middleware.GetUserID(c),
		OwnerKind:        ownerKind,
		Title:            req.Title,
		Description:      req.Description,
		Venue:            req.Venue,
		City:             req.City,
		StartsAt:         req.StartsAt,
		EndsAt:           req.EndsAt,
		TicketPriceCents: req.TicketPriceCents,
		TotalCapacity:    req.TotalCapacity,
		IsBookable:       true,
	}
	if err := h.repo.Create(e); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create event"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event": e})
}

type UpdateEventRequest struct {
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	Venue            *string `json:"venue"`
	City             *string `json:"city"`
	TicketPriceCents *int64  `json:"ticket_price_cents"`
	IsBookable       *bool   `json:"is_bookable"`
}

func (h *EventHandler) Update(c *gin.Context) {
	e, ok := h.loadOwned(c)
	if !ok {
		return
	}
	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Venue != nil {
		e.Venue = *req.Venue
	}
	if req.City != nil {
		e.City = *req.City
	}
	if req.TicketPriceCents != nil && *req.TicketPriceCents > 0 {
		e.TicketPriceCents = *req.TicketPriceCents
	}
	if req.IsBookable != nil {
		e.IsBookable = *req.IsBookable
	}
	if err := h.repo.Update(e); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update event"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": e})
}

func (h *EventHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}
	e, err := h.repo.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": e})
}

// List returns upcoming bookable events, featured first.
func (h *EventHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.repo.List(c.Query("city"), time.Now(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": list})
}

func (h *EventHandler) ListMine(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.repo.ListByOwner(middleware.GetUserID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": list})
}

func (h *EventHandler) loadOwned(c *gin.Context) (*models.Event, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return nil, false
	}
	e, err := h.repo.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return nil, false
	}
	role, _ := c.Get("role")
	if e.OwnerID != middleware.GetUserID(c) && role != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your event"})
		return nil, false
	}
	return e, true
}
