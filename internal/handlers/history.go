package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"styleme-backend/internal/models"
	"styleme-backend/internal/wardrobe"
)

type HistoryHandler struct {
	wardrobe *wardrobe.Service
}

func NewHistoryHandler(wardrobeService *wardrobe.Service) *HistoryHandler {
	return &HistoryHandler{wardrobe: wardrobeService}
}

func (h *HistoryHandler) ListHistory(c *gin.Context) {
	history, err := h.wardrobe.ListHistory(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list history", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.HistoryResponse{History: history})
}

func (h *HistoryHandler) ToggleFavorite(c *gin.Context) {
	item, err := h.wardrobe.ToggleFavorite(c.Request.Context(), c.Param("history_id"))
	if errors.Is(err, wardrobe.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "history item not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to update history item", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *HistoryHandler) RemoveHistory(c *gin.Context) {
	err := h.wardrobe.RemoveHistory(c.Request.Context(), c.Param("history_id"))
	if errors.Is(err, wardrobe.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "history item not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to remove history item", Message: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *HistoryHandler) ClearHistory(c *gin.Context) {
	if err := h.wardrobe.ClearHistory(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to clear history", Message: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
