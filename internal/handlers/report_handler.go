package handlers

import (
	"errors"
	"net/http"

	"github.com/IaraKrasnoff/OnesToManys/internal/services"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Welcome lists the API surface for anyone hitting the root path.
func (h *ReportHandler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the Orders API!",
		"endpoints": gin.H{
			"orders":            "/orders",
			"orders_with_items": "/orders/with-items",
			"all_order_items":   "/order-items",
			"order_items":       "/orders/{order_id}/items",
			"stats":             "/stats",
			"health":            "/health",
		},
	})
}

func (h *ReportHandler) GetStats(c *gin.Context) {
	stats, err := h.reportService.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *ReportHandler) GetOrderSummary(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Invalid order ID")
	if !ok {
		return
	}

	summary, err := h.reportService.GetOrderSummary(id)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}
