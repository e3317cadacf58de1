package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"styleme-backend/internal/entitlement"
	"styleme-backend/internal/models"
)

type SubscriptionHandler struct {
	gate *entitlement.Gate
}

func NewSubscriptionHandler(gate *entitlement.Gate) *SubscriptionHandler {
	return &SubscriptionHandler{gate: gate}
}

// GetStatus godoc
// @Summary     Subscription status
// @Description Returns the cached subscription flag; pass ?refresh=true to bypass the cache.
// @Tags        subscription
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.SubscriptionStatusResponse
// @Router      /subscription/status [get]
func (h *SubscriptionHandler) GetStatus(c *gin.Context) {
	forceRefresh := c.Query("refresh") == "true"
	c.JSON(http.StatusOK, models.SubscriptionStatusResponse{
		IsSubscribed: h.gate.SubscriptionStatus(c.Request.Context(), forceRefresh),
	})
}

func (h *SubscriptionHandler) Purchase(c *gin.Context) {
	var req models.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	result, err := h.gate.Purchase(c.Request.Context(), req.PackageID)
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "purchase failed", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *SubscriptionHandler) Restore(c *gin.Context) {
	result, err := h.gate.Restore(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "restore failed", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
