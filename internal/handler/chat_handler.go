package handler

import (
	"net/http"
	"strconv"

	"stayhub/config"
	"stayhub/internal/middleware"
	"stayhub/internal/models"
	"stayhub/internal/repository"
	"stayhub/internal/ws"

	"github.com/gin-gonic/gin"
)

// ChatHandler serves booking-scoped chat: message history over HTTP and a
// websocket room per booking for the guest and the host.
type ChatHandler struct {
	cfg         *config.JWTConfig
	chatRepo    *repository.ChatRepository
	bookingRepo *repository.BookingRepository
	hub         *ws.ChatHub
}

func NewChatHandler(cfg *config.JWTConfig, chatRepo *repository.ChatRepository, bookingRepo *repository.BookingRepository, hub *ws.ChatHub) *ChatHandler {
	return &ChatHandler{cfg: cfg, chatRepo: chatRepo, bookingRepo: bookingRepo, hub: hub}
}

// SaveChatMessage persists an inbound websocket message.
func (h *ChatHandler) SaveChatMessage(bookingID, senderID uint, body string) (interface{}, error) {
	m := &models.ChatMessage{
		BookingID: bookingID,
		SenderID:  senderID,
		Content:   body,
	}
	if err := h.chatRepo.CreateMessage(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (h *ChatHandler) History(c *gin.Context) {
	b, ok := h.loadBookingForMember(c)
	if !ok {
		return
	}
	limit, offset := pagination(c)
	msgs, err := h.chatRepo.ListByBookingID(b.ID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list messages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// Join upgrades to a websocket in the booking's chat room.
func (h *ChatHandler) Join(c *gin.Context) {
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
	room := h.hub.GetOrCreateRoom(b.ID, b.RequesterID, b.OwnerID)
	ws.UpgradeChatWS(h.cfg, room, h)(c)
}

func (h *ChatHandler) loadBookingForMember(c *gin.Context) (*models.Booking, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return nil, false
	}
	b, err := h.bookingRepo.GetByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return nil, false
	}
	userID := middleware.GetUserID(c)
	if b.RequesterID != userID && b.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return nil, false
	}
	return b, true
}
