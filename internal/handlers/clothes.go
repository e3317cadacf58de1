package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"styleme-backend/internal/models"
	"styleme-backend/internal/wardrobe"
)

type ClothesHandler struct {
	wardrobe *wardrobe.Service
}

func NewClothesHandler(wardrobeService *wardrobe.Service) *ClothesHandler {
	return &ClothesHandler{wardrobe: wardrobeService}
}

func (h *ClothesHandler) ListClothes(c *gin.Context) {
	clothes, err := h.wardrobe.ListClothes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list clothes", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.ClothesResponse{Clothes: clothes})
}

func (h *ClothesHandler) AddCloth(c *gin.Context) {
	var req models.ClothRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	item, err := h.wardrobe.AddCloth(c.Request.Context(), wardrobe.ClothingItem{
		Name:     req.Name,
		Brand:    req.Brand,
		Material: req.Material,
		ImageURI: req.ImageURI,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to add cloth", Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *ClothesHandler) UpdateCloth(c *gin.Context) {
	var req models.ClothRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	item, err := h.wardrobe.UpdateCloth(c.Request.Context(), c.Param("cloth_id"), wardrobe.ClothingItem{
		Name:     req.Name,
		Brand:    req.Brand,
		Material: req.Material,
		ImageURI: req.ImageURI,
	})
	if errors.Is(err, wardrobe.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "cloth not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to update cloth", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *ClothesHandler) DeleteCloth(c *gin.Context) {
	err := h.wardrobe.DeleteCloth(c.Request.Context(), c.Param("cloth_id"))
	if errors.Is(err, wardrobe.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "cloth not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to delete cloth", Message: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
