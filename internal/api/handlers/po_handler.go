// backend-go/internal/api/handlers/po_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stockcast/backend-go/internal/service"
)

type POHandler struct {
	poService *service.POService
}

func NewPOHandler(poService *service.POService) *POHandler {
	return &POHandler{poService: poService}
}

type draftRequest struct {
	ProductIDs []int64 `json:"product_ids"`
}

// DraftPurchaseOrders builds advisory purchase orders for the requested
// products, one draft per supplier.
func (h *POHandler) DraftPurchaseOrders(c *gin.Context) {
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(req.ProductIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_ids must not be empty"})
		return
	}

	drafts, err := h.poService.DraftFromAdvisor(c.Request.Context(), req.ProductIDs)
	if err != nil {
		respondError(c, err, "failed to draft purchase orders")
		return
	}

	c.JSON(http.StatusOK, drafts)
}
