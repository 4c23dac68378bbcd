package services

import (
	"fmt"

	"github.com/IaraKrasnoff/OnesToManys/internal/cache"
	"github.com/IaraKrasnoff/OnesToManys/internal/models"
	"github.com/IaraKrasnoff/OnesToManys/internal/repository"
	"github.com/shopspring/decimal"
)

type OrderService interface {
	CreateOrder(order *models.Order) error
	CreateOrderWithItems(order *models.Order, items []models.OrderItem) error
	GetOrderByID(id uint) (*models.Order, error)
	GetAllOrders() ([]models.Order, error)
	UpdateOrder(order *models.Order) (*models.Order, error)
	DeleteOrder(id uint) error

	// Order item methods
	AddItemToOrder(orderID uint, item *models.OrderItem) error
	GetOrderItems(orderID uint) ([]models.OrderItem, error)
	GetAllOrderItems() ([]models.OrderItem, error)
	UpdateOrderItem(orderID, itemID uint, item *models.OrderItem) (*models.OrderItem, error)
	DeleteOrderItem(orderID, itemID uint) error

	RecalculateOrderTotal(orderID uint) error
}

type orderService struct {
	orderRepo     repository.OrderRepository
	orderItemRepo repository.OrderItemRepository
	statsCache    *cache.Client
}

func NewOrderService(orderRepo repository.OrderRepository, orderItemRepo repository.OrderItemRepository, statsCache *cache.Client) OrderService {
	return &orderService{orderRepo: orderRepo, orderItemRepo: orderItemRepo, statsCache: statsCache}
}

// CreateOrder persists a new order. The total always starts at zero; it only
// ever changes through item mutations or an explicit order update.
func (s *orderService) CreateOrder(order *models.Order) error {
	if err := validateOrder(order); err != nil {
		return err
	}
	order.TotalAmount = decimal.Zero

	if err := s.orderRepo.Create(order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	s.statsCache.InvalidateStats()
	return nil
}

// CreateOrderWithItems creates the order first, then its items, then writes
// the summed total back onto the order in one final update.
func (s *orderService) CreateOrderWithItems(order *models.Order, items []models.OrderItem) error {
	if err := s.CreateOrder(order); err != nil {
		return err
	}

	total := decimal.Zero
	for i := range items {
		items[i].OrderID = order.OrderID
		if err := s.createItem(&items[i]); err != nil {
			return err
		}
		total = total.Add(items[i].LineTotal)
	}

	if len(items) > 0 {
		order.TotalAmount = total.Round(2)
		if _, err := s.orderRepo.Update(order); err != nil {
			return fmt.Errorf("failed to update order total: %w", err)
		}
	}
	s.statsCache.InvalidateStats()
	return nil
}

func (s *orderService) GetOrderByID(id uint) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

func (s *orderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// UpdateOrder overwrites customer, date and total with the caller's values and
// echoes back the stored record. The supplied total is authoritative here:
// direct order updates never trigger a recomputation from items.
func (s *orderService) UpdateOrder(order *models.Order) (*models.Order, error) {
	if err := validateOrder(order); err != nil {
		return nil, err
	}

	found, err := s.orderRepo.Update(order)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	if !found {
		return nil, ErrOrderNotFound
	}
	s.statsCache.InvalidateStats()
	return s.orderRepo.GetByID(order.OrderID)
}

// DeleteOrder removes the order together with all of its items.
func (s *orderService) DeleteOrder(id uint) error {
	deleted, err := s.orderRepo.Delete(id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if !deleted {
		return ErrOrderNotFound
	}
	s.statsCache.InvalidateStats()
	return nil
}

// AddItemToOrder creates a new item under an existing order and brings the
// order total back in line with its items.
func (s *orderService) AddItemToOrder(orderID uint, item *models.OrderItem) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}

	item.OrderID = orderID
	if err := s.createItem(item); err != nil {
		return err
	}
	s.statsCache.InvalidateStats()
	return nil
}

func (s *orderService) GetOrderItems(orderID uint) ([]models.OrderItem, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return s.orderItemRepo.GetByOrderID(orderID)
}

func (s *orderService) GetAllOrderItems() ([]models.OrderItem, error) {
	return s.orderItemRepo.GetAll()
}

// UpdateOrderItem rewrites an item in the context of its owning order. The
// order id in the path is binding: an item stored under a different order is
// rejected, so ownership never changes through an update.
func (s *orderService) UpdateOrderItem(orderID, itemID uint, item *models.OrderItem) (*models.OrderItem, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	existing, err := s.orderItemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrOrderItemNotFound
	}
	if existing.OrderID != orderID {
		return nil, ErrItemNotInOrder
	}

	item.OrderItemID = itemID
	item.OrderID = orderID
	if err := validateOrderItem(item); err != nil {
		return nil, err
	}
	deriveLineTotal(item)

	found, err := s.orderItemRepo.Update(item)
	if err != nil {
		return nil, fmt.Errorf("failed to update order item: %w", err)
	}
	if !found {
		return nil, ErrOrderItemNotFound
	}

	if err := s.RecalculateOrderTotal(orderID); err != nil {
		return nil, err
	}
	s.statsCache.InvalidateStats()
	return s.orderItemRepo.GetByID(itemID)
}

// DeleteOrderItem removes an item from its owning order and recomputes the
// order total from the remaining items.
func (s *orderService) DeleteOrderItem(orderID, itemID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}

	existing, err := s.orderItemRepo.GetByID(itemID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrOrderItemNotFound
	}
	if existing.OrderID != orderID {
		return ErrItemNotInOrder
	}

	deleted, err := s.orderItemRepo.Delete(itemID)
	if err != nil {
		return fmt.Errorf("failed to delete order item: %w", err)
	}
	if !deleted {
		return ErrOrderItemNotFound
	}

	if err := s.RecalculateOrderTotal(orderID); err != nil {
		return err
	}
	s.statsCache.InvalidateStats()
	return nil
}

// RecalculateOrderTotal sums the line totals of the order's current items,
// rounds to two decimal places and writes the result onto the order. An order
// that no longer exists makes this a no-op: the update simply matches no row.
// The read-sum-write sequence is not serialized against concurrent item
// mutations on the same order; the last writer wins.
func (s *orderService) RecalculateOrderTotal(orderID uint) error {
	items, err := s.orderItemRepo.GetByOrderID(orderID)
	if err != nil {
		return fmt.Errorf("failed to load items for order %d: %w", orderID, err)
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal)
	}

	if err := s.orderRepo.UpdateTotal(orderID, total.Round(2)); err != nil {
		return fmt.Errorf("failed to update total for order %d: %w", orderID, err)
	}
	return nil
}

// createItem validates, derives the line total when absent, persists the item
// and recomputes the owning order's total.
func (s *orderService) createItem(item *models.OrderItem) error {
	if err := validateOrderItem(item); err != nil {
		return err
	}
	deriveLineTotal(item)

	if err := s.orderItemRepo.Create(item); err != nil {
		return fmt.Errorf("failed to create order item: %w", err)
	}
	return s.RecalculateOrderTotal(item.OrderID)
}

func validateOrder(order *models.Order) error {
	if order.OrderDate.IsZero() {
		return fmt.Errorf("%w: order_date is required", ErrInvalidOrder)
	}
	return nil
}

func validateOrderItem(item *models.OrderItem) error {
	if item.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidOrderItem)
	}
	if item.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: unit_price must not be negative", ErrInvalidOrderItem)
	}
	return nil
}

// deriveLineTotal fills in quantity * unit_price rounded to two decimal places
// when the caller did not supply a line total of their own.
func deriveLineTotal(item *models.OrderItem) {
	if item.LineTotal.IsZero() {
		item.LineTotal = models.ComputeLineTotal(item.Quantity, item.UnitPrice)
	}
}
