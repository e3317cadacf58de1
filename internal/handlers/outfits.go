package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"styleme-backend/internal/entitlement"
	"styleme-backend/internal/models"
	"styleme-backend/internal/wardrobe"
)

type OutfitsHandler struct {
	wardrobe *wardrobe.Service
	gate     *entitlement.Gate
}

func NewOutfitsHandler(wardrobeService *wardrobe.Service, gate *entitlement.Gate) *OutfitsHandler {
	return &OutfitsHandler{wardrobe: wardrobeService, gate: gate}
}

func (h *OutfitsHandler) ListOutfits(c *gin.Context) {
	outfits, err := h.wardrobe.ListOutfits(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list outfits", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.OutfitsResponse{Outfits: outfits})
}

// AddOutfit godoc
// @Summary     Create an outfit
// @Description Free-tier users are limited to a fixed number of outfits; subscribers are unlimited.
// @Tags        outfits
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Success     201 {object} wardrobe.Outfit
// @Failure     403 {object} models.ErrorResponse
// @Router      /outfits [post]
func (h *OutfitsHandler) AddOutfit(c *gin.Context) {
	var req models.OutfitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	count, err := h.wardrobe.OutfitCount(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to count outfits", Message: err.Error()})
		return
	}

	access := h.gate.CheckOutfitCreation(c.Request.Context(), count)
	if !access.CanCreate {
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Error:      "outfit limit reached",
			Message:    "Free accounts can keep up to 2 outfits. Upgrade to premium for unlimited outfits.",
			CanUpgrade: true,
		})
		return
	}

	outfit, err := h.wardrobe.AddOutfit(c.Request.Context(), wardrobe.Outfit{
		Name:    req.Name,
		ItemIDs: req.ItemIDs,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to add outfit", Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, outfit)
}

func (h *OutfitsHandler) DeleteOutfit(c *gin.Context) {
	err := h.wardrobe.DeleteOutfit(c.Request.Context(), c.Param("outfit_id"))
	if errors.Is(err, wardrobe.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "outfit not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to delete outfit", Message: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
