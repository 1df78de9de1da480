package handler

import (
	"net/http"

	"stayhub/internal/middleware"
	"stayhub/internal/repository"

	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	repo *repository.FavoriteRepository
}

func NewFavoriteHandler(repo *repository.FavoriteRepository) *FavoriteHandler {
	return &FavoriteHandler{repo: repo}
}

type FavoriteRequest struct {
	ListingKind string `json:"listing_kind" binding:"required,oneof=PROPERTY EVENT"`
	ListingID   uint   `json:"listing_id" binding:"required"`
}

func (h *FavoriteHandler) Add(c *gin.Context) {
	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.repo.Add(middleware.GetUserID(c), req.ListingKind, req.ListingID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not add favorite"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

func (h *FavoriteHandler) Remove(c *gin.Context) {
	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.repo.Remove(middleware.GetUserID(c), req.ListingKind, req.ListingID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not remove favorite"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *FavoriteHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.repo.ListByUser(middleware.GetUserID(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list favorites"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": list})
}
