package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"stayhub/internal/domain"
	"stayhub/internal/middleware"
	"stayhub/internal/repository"
	"stayhub/internal/service"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	availability *service.AvailabilityService
	bookings     *service.BookingService
	bookingRepo  *repository.BookingRepository
	notifier     *service.NotificationService
	publisher    service.EventPublisher
}

func NewBookingHandler(availability *service.AvailabilityService, bookings *service.BookingService, bookingRepo *repository.BookingRepository, notifier *service.NotificationService, publisher service.EventPublisher) *BookingHandler {
	return &BookingHandler{
		availability: availability,
		bookings:     bookings,
		bookingRepo:  bookingRepo,
		notifier:     notifier,
		publisher:    publisher,
	}
}

type CreateBookingRequest struct {
	ListingKind string     `json:"listing_kind" binding:"required,oneof=PROPERTY EVENT"`
	ListingID   uint       `json:"listing_id" binding:"required"`
	StartDate   *time.Time `json:"start_date"` // PROPERTY only
	EndDate     *time.Time `json:"end_date"`
	Quantity    int        `json:"quantity"` // EVENT only
}

// Create reserves a listing window or ticket quantity and returns the new
// PENDING booking. Conflicts come back as 409 with a reason.
func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.availability.CheckAndReserve(c.Request.Context(), service.BookingRequest{
		ListingKind: req.ListingKind,
		ListingID:   req.ListingID,
		RequesterID: middleware.GetUserID(c),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Quantity:    req.Quantity,
	})
	if err != nil {
		switch err {
		case service.ErrInvalidWindow, service.ErrInvalidQuantity:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case service.ErrListingNotBookable:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "reason": "not_bookable"})
		case service.ErrWindowUnavailable:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "reason": "window_unavailable"})
		case service.ErrInsufficientCapacity:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "reason": "sold_out"})
		default:
			log.Printf("[booking] reserve failed: kind=%s listing=%d err=%v", req.ListingKind, req.ListingID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "booking failed"})
		}
		return
	}
	h.notifier.NotifyBookingRequest(b)
	if h.publisher != nil {
		_ = h.publisher.PublishJSON(c.Request.Context(), "booking.created", gin.H{
			"booking_id":   b.ID,
			"ticket":       b.Ticket,
			"listing_kind": b.ListingKind,
			"listing_id":   b.ListingID,
		})
	}
	c.JSON(http.StatusCreated, gin.H{"booking": b})
}

type ConfirmBookingRequest struct {
	AmountCents int64  `json:"amount_cents" binding:"required,min=1"`
	MethodRef   string `json:"method_ref" binding:"required"`
}

// Confirm records payment against a PENDING booking and posts its revenue
// split. Re-confirming an already confirmed booking is a 409.
func (h *BookingHandler) Confirm(c *gin.Context) {
	id, ok := h.loadOwnBookingID(c)
	if !ok {
		return
	}
	var req ConfirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.bookings.Confirm(c.Request.Context(), id, service.ConfirmInput{
		AmountCents: req.AmountCents,
		MethodRef:   req.MethodRef,
	})
	if err != nil {
		switch err {
		case service.ErrBookingNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case service.ErrInvalidAmount:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case service.ErrAlreadyConfirmed:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "reason": "already_confirmed"})
		case service.ErrInvalidStateTransition:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "reason": "invalid_state"})
		default:
			log.Printf("[booking] confirm failed: id=%d err=%v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "confirmation failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// Cancel cancels the caller's booking. CONFIRMED bookings inside the
// cancellation lock window are rejected with 409.
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := h.loadOwnBookingID(c)
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)
	b, err := h.bookings.Cancel(c.Request.Context(), id, &userID)
	if err != nil {
		switch err {
		case service.ErrBookingNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case service.ErrCancellationLocked:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "reason": "cancellation_locked"})
		case service.ErrInvalidStateTransition:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "reason": "invalid_state"})
		default:
			log.Printf("[booking] cancel failed: id=%d err=%v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cancellation failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

func (h *BookingHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}
	b, err := h.bookingRepo.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	userID := middleware.GetUserID(c)
	role, _ := c.Get("role")
	if b.RequesterID != userID && b.OwnerID != userID && role != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

func (h *BookingHandler) ListMine(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.bookingRepo.ListByRequester(c.Request.Context(), middleware.GetUserID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list bookings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

// ListForMyListings returns bookings made against the caller's listings.
func (h *BookingHandler) ListForMyListings(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.bookingRepo.ListByOwner(c.Request.Context(), middleware.GetUserID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list bookings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list})
}

// loadOwnBookingID parses :id and checks the booking belongs to the caller.
func (h *BookingHandler) loadOwnBookingID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return 0, false
	}
	b, err := h.bookingRepo.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return 0, false
	}
	if b.RequesterID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your booking"})
		return 0, false
	}
	return b.ID, true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
