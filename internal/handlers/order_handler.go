package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/IaraKrasnoff/OnesToManys/internal/models"
	"github.com/IaraKrasnoff/OnesToManys/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	orderService services.OrderService
}

func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// OrderRequest is the wire shape for creating and updating orders. The total
// is ignored on create and taken as-is on update.
type OrderRequest struct {
	CustomerID  int64           `json:"customer_id" binding:"required"`
	OrderDate   models.Date     `json:"order_date" binding:"required"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// OrderItemRequest is the wire shape for items. The owning order always comes
// from the URL path, and the line total is derived server-side.
type OrderItemRequest struct {
	ProductID int64           `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type OrderWithItemsRequest struct {
	CustomerID int64              `json:"customer_id" binding:"required"`
	OrderDate  models.Date        `json:"order_date" binding:"required"`
	Items      []OrderItemRequest `json:"items" binding:"dive"`
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order := &models.Order{
		CustomerID: req.CustomerID,
		OrderDate:  req.OrderDate,
	}
	if err := h.orderService.CreateOrder(order); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) CreateOrderWithItems(c *gin.Context) {
	var req OrderWithItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order := &models.Order{
		CustomerID: req.CustomerID,
		OrderDate:  req.OrderDate,
	}
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	if err := h.orderService.CreateOrderWithItems(order, items); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	orders, err := h.orderService.GetAllOrders()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Invalid order ID")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrderByID(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Invalid order ID")
	if !ok {
		return
	}

	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order := &models.Order{
		OrderID:     id,
		CustomerID:  req.CustomerID,
		OrderDate:   req.OrderDate,
		TotalAmount: req.TotalAmount,
	}
	updated, err := h.orderService.UpdateOrder(order)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Invalid order ID")
	if !ok {
		return
	}

	if err := h.orderService.DeleteOrder(id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}

func (h *OrderHandler) GetOrderItems(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Invalid order ID")
	if !ok {
		return
	}

	items, err := h.orderService.GetOrderItems(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *OrderHandler) GetAllOrderItems(c *gin.Context) {
	items, err := h.orderService.GetAllOrderItems()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *OrderHandler) AddItemToOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Invalid order ID")
	if !ok {
		return
	}

	var req OrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	item := &models.OrderItem{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
	}
	if err := h.orderService.AddItemToOrder(id, item); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *OrderHandler) UpdateOrderItem(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id", "Invalid order ID")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "item_id", "Invalid order item ID")
	if !ok {
		return
	}

	var req OrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	item := &models.OrderItem{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
	}
	updated, err := h.orderService.UpdateOrderItem(orderID, itemID, item)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *OrderHandler) DeleteOrderItem(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id", "Invalid order ID")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "item_id", "Invalid order item ID")
	if !ok {
		return
	}

	if err := h.orderService.DeleteOrderItem(orderID, itemID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order item deleted successfully"})
}

// respondError translates service errors into HTTP statuses: missing records
// are 404, validation and cross-reference problems are 400, everything else
// is an internal failure.
func (h *OrderHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, services.ErrOrderItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order item not found"})
	case errors.Is(err, services.ErrItemNotInOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order item does not belong to this order"})
	case errors.Is(err, services.ErrInvalidOrder), errors.Is(err, services.ErrInvalidOrderItem):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseIDParam(c *gin.Context, name, message string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
		return 0, false
	}
	return uint(id), true
}
