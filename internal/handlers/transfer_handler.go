package handlers

import (
	"errors"
	"net/http"

	"github.com/IaraKrasnoff/OnesToManys/internal/services"
	"github.com/gin-gonic/gin"
)

type TransferHandler struct {
	transferService services.TransferService
}

func NewTransferHandler(transferService services.TransferService) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

func (h *TransferHandler) ExportJSON(c *gin.Context) {
	doc, err := h.transferService.ExportJSON()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *TransferHandler) ExportSQL(c *gin.Context) {
	export, err := h.transferService.ExportSQL()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, export)
}

// ImportJSON rebuilds orders from an interchange document. Any failure is a
// bad request: either the document shape is wrong or one of its entries
// could not be created.
func (h *TransferHandler) ImportJSON(c *gin.Context) {
	var doc services.ImportDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.transferService.Import(&doc)
	if err != nil {
		if errors.Is(err, services.ErrMissingDataField) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Import failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Import completed successfully",
		"imported_orders": result.ImportedOrders,
		"imported_items":  result.ImportedItems,
	})
}
