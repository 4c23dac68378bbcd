package services_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/IaraKrasnoff/OnesToManys/internal/models"
	"github.com/IaraKrasnoff/OnesToManys/internal/repository"
	"github.com/IaraKrasnoff/OnesToManys/internal/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// A named in-memory database per test keeps tests isolated while the
	// shared cache keeps it alive across pooled connections.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func newOrderService(t *testing.T) (services.OrderService, *gorm.DB) {
	db := setupTestDB(t)
	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)
	return services.NewOrderService(orderRepo, orderItemRepo, nil), db
}

func mustCreateOrder(t *testing.T, svc services.OrderService, customerID int64, date models.Date) *models.Order {
	order := &models.Order{CustomerID: customerID, OrderDate: date}
	if err := svc.CreateOrder(order); err != nil {
		t.Fatalf("failed to create order: %v", err)
	}
	return order
}

func TestOrderTotalFollowsItemMutations(t *testing.T) {
	svc, _ := newOrderService(t)

	order := mustCreateOrder(t, svc, 101, models.NewDate(2025, time.August, 10))
	assert.Equal(t, "0.00", order.TotalAmount.StringFixed(2))

	first := &models.OrderItem{ProductID: 501, Quantity: 2, UnitPrice: decimal.NewFromFloat(10.50)}
	assert.NoError(t, svc.AddItemToOrder(order.OrderID, first))
	assert.Equal(t, "21.00", first.LineTotal.StringFixed(2))

	stored, err := svc.GetOrderByID(order.OrderID)
	assert.NoError(t, err)
	assert.Equal(t, "21.00", stored.TotalAmount.StringFixed(2))

	second := &models.OrderItem{ProductID: 502, Quantity: 1, UnitPrice: decimal.NewFromFloat(25.00)}
	assert.NoError(t, svc.AddItemToOrder(order.OrderID, second))

	stored, err = svc.GetOrderByID(order.OrderID)
	assert.NoError(t, err)
	assert.Equal(t, "46.00", stored.TotalAmount.StringFixed(2))

	assert.NoError(t, svc.DeleteOrderItem(order.OrderID, first.OrderItemID))

	stored, err = svc.GetOrderByID(order.OrderID)
	assert.NoError(t, err)
	assert.Equal(t, "25.00", stored.TotalAmount.StringFixed(2))
}

func TestUpdateOrderItemRecalculatesTotal(t *testing.T) {
	svc, _ := newOrderService(t)

	order := mustCreateOrder(t, svc, 101, models.NewDate(2025, time.August, 10))
	item := &models.OrderItem{ProductID: 501, Quantity: 1, UnitPrice: decimal.NewFromFloat(10.00)}
	assert.NoError(t, svc.AddItemToOrder(order.OrderID, item))

	updated, err := svc.UpdateOrderItem(order.OrderID, item.OrderItemID, &models.OrderItem{
		ProductID: 501,
		Quantity:  3,
		UnitPrice: decimal.NewFromFloat(15.99),
	})
	assert.NoError(t, err)
	assert.Equal(t, "47.97", updated.LineTotal.StringFixed(2))
	assert.Equal(t, order.OrderID, updated.OrderID)

	stored, err := svc.GetOrderByID(order.OrderID)
	assert.NoError(t, err)
	assert.Equal(t, "47.97", stored.TotalAmount.StringFixed(2))
}

func TestCreateOrderForcesZeroTotal(t *testing.T) {
	svc, _ := newOrderService(t)

	order := &models.Order{
		CustomerID:  101,
		OrderDate:   models.NewDate(2025, time.August, 10),
		TotalAmount: decimal.NewFromFloat(99.99),
	}
	assert.NoError(t, svc.CreateOrder(order))
	assert.Equal(t, "0.00", order.TotalAmount.StringFixed(2))

	stored, err := svc.GetOrderByID(order.OrderID)
	assert.NoError(t, err)
	assert.Equal(t, "0.00", stored.TotalAmount.StringFixed(2))
}

func TestDirectOrderUpdateTotalIsAuthoritative(t *testing.T) {
	svc, _ := newOrderService(t)

	order := mustCreateOrder(t, svc, 101, models.NewDate(2025, time.August, 10))
	item := &models.OrderItem{ProductID: 501, Quantity: 2, UnitPrice: decimal.NewFromFloat(10.50)}
	assert.NoError(t, svc.AddItemToOrder(order.OrderID, item))

	// A direct update may set any total; the consistency engine leaves it
	// alone until the next item mutation.
	updated, err := svc.UpdateOrder(&models.Order{
		OrderID:     order.OrderID,
		CustomerID:  101,
		OrderDate:   order.OrderDate,
		TotalAmount: decimal.NewFromFloat(99.99),
	})
	assert.NoError(t, err)
	assert.Equal(t, "99.99", updated.TotalAmount.StringFixed(2))

	second := &models.OrderItem{ProductID: 502, Quantity: 1, UnitPrice: decimal.NewFromFloat(25.00)}
	assert.NoError(t, svc.AddItemToOrder(order.OrderID, second))

	stored, err := svc.GetOrderByID(order.OrderID)
	assert.NoError(t, err)
	assert.Equal(t, "46.00", stored.TotalAmount.StringFixed(2))
}

func TestUpdateMissingOrder(t *testing.T) {
	svc, _ := newOrderService(t)

	_, err := svc.UpdateOrder(&models.Order{
		OrderID:    9999,
		CustomerID: 101,
		OrderDate:  models.NewDate(2025, time.August, 10),
	})
	assert.ErrorIs(t, err, services.ErrOrderNotFound)
}

func TestCreateOrderWithItems(t *testing.T) {
	svc, _ := newOrderService(t)

	order := &models.Order{CustomerID: 104, OrderDate: models.NewDate(2025, time.August, 13)}
	items := []models.OrderItem{
		{ProductID: 501, Quantity: 2, UnitPrice: decimal.NewFromFloat(10.50)},
		{ProductID: 502, Quantity: 1, UnitPrice: decimal.NewFromFloat(25.00)},
	}
	assert.NoError(t, svc.CreateOrderWithItems(order, items))
	assert.Equal(t, "46.00", order.TotalAmount.StringFixed(2))

	stored, err := svc.GetOrderItems(order.OrderID)
	assert.NoError(t, err)
	assert.Len(t, stored, 2)
	assert.Equal(t, "21.00", stored[0].LineTotal.StringFixed(2))
	assert.Equal(t, "25.00", stored[1].LineTotal.StringFixed(2))
}

func TestAddItemToMissingOrder(t *testing.T) {
	svc, db := newOrderService(t)

	item := &models.OrderItem{ProductID: 501, Quantity: 2, UnitPrice: decimal.NewFromFloat(10.50)}
	err := svc.AddItemToOrder(9999, item)
	assert.ErrorIs(t, err, services.ErrOrderNotFound)

	var count int64
	db.Model(&models.OrderItem{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestLineTotalDerivation(t *testing.T) {
	svc, _ := newOrderService(t)
	order := mustCreateOrder(t, svc, 101, models.NewDate(2025, time.August, 10))

	t.Run("Derived when not supplied", func(t *testing.T) {
		item := &models.OrderItem{ProductID: 501, Quantity: 3, UnitPrice: decimal.NewFromFloat(15.75)}
		assert.NoError(t, svc.AddItemToOrder(order.OrderID, item))
		assert.Equal(t, "47.25", item.LineTotal.StringFixed(2))
	})

	t.Run("Trusted when supplied", func(t *testing.T) {
		item := &models.OrderItem{
			ProductID: 502,
			Quantity:  2,
			UnitPrice: decimal.NewFromFloat(10.00),
			LineTotal: decimal.NewFromFloat(15.00),
		}
		assert.NoError(t, svc.AddItemToOrder(order.OrderID, item))
		assert.Equal(t, "15.00", item.LineTotal.StringFixed(2))

		stored, err := svc.GetOrderByID(order.OrderID)
		assert.NoError(t, err)
		assert.Equal(t, "62.25", stored.TotalAmount.StringFixed(2))
	})
}

func TestItemMustBelongToPathOrder(t *testing.T) {
	svc, _ := newOrderService(t)

	owner := mustCreateOrder(t, svc, 101, models.NewDate(2025, time.August, 10))
	other := mustCreateOrder(t, svc, 102, models.NewDate(2025, time.August, 11))

	item := &models.OrderItem{ProductID: 501, Quantity: 2, UnitPrice: decimal.NewFromFloat(10.50)}
	assert.NoError(t, svc.AddItemToOrder(owner.OrderID, item))

	_, err := svc.UpdateOrderItem(other.OrderID, item.OrderItemID, &models.OrderItem{
		ProductID: 501, Quantity: 1, UnitPrice: decimal.NewFromFloat(10.50),
	})
	assert.ErrorIs(t, err, services.ErrItemNotInOrder)

	err = svc.DeleteOrderItem(other.OrderID, item.OrderItemID)
	assert.ErrorIs(t, err, services.ErrItemNotInOrder)

	// The item and its owner's total are untouched.
	stored, err := svc.GetOrderByID(owner.OrderID)
	assert.NoError(t, err)
	assert.Equal(t, "21.00", stored.TotalAmount.StringFixed(2))
}

func TestDeleteOrderCascadesToItems(t *testing.T) {
	svc, db := newOrderService(t)

	order := mustCreateOrder(t, svc, 101, models.NewDate(2025, time.August, 10))
	item := &models.OrderItem{ProductID: 501, Quantity: 2, UnitPrice: decimal.NewFromFloat(10.50)}
	assert.NoError(t, svc.AddItemToOrder(order.OrderID, item))

	assert.NoError(t, svc.DeleteOrder(order.OrderID))

	stored, err := svc.GetOrderByID(order.OrderID)
	assert.NoError(t, err)
	assert.Nil(t, stored)

	var count int64
	db.Model(&models.OrderItem{}).Where("order_id = ?", order.OrderID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestDeleteMissingOrder(t *testing.T) {
	svc, _ := newOrderService(t)
	assert.ErrorIs(t, svc.DeleteOrder(9999), services.ErrOrderNotFound)
}

func TestItemValidation(t *testing.T) {
	svc, _ := newOrderService(t)
	order := mustCreateOrder(t, svc, 101, models.NewDate(2025, time.August, 10))

	t.Run("Quantity must be positive", func(t *testing.T) {
		err := svc.AddItemToOrder(order.OrderID, &models.OrderItem{
			ProductID: 501, Quantity: 0, UnitPrice: decimal.NewFromFloat(10.50),
		})
		assert.ErrorIs(t, err, services.ErrInvalidOrderItem)
	})

	t.Run("Unit price must not be negative", func(t *testing.T) {
		err := svc.AddItemToOrder(order.OrderID, &models.OrderItem{
			ProductID: 501, Quantity: 1, UnitPrice: decimal.NewFromFloat(-1.00),
		})
		assert.ErrorIs(t, err, services.ErrInvalidOrderItem)
	})

	t.Run("Order date is required", func(t *testing.T) {
		err := svc.CreateOrder(&models.Order{CustomerID: 101})
		assert.ErrorIs(t, err, services.ErrInvalidOrder)
	})
}

func TestRecalculateTotalForMissingOrderIsNoOp(t *testing.T) {
	svc, _ := newOrderService(t)
	assert.NoError(t, svc.RecalculateOrderTotal(9999))
}

func TestGetAllOrdersSortedByID(t *testing.T) {
	svc, _ := newOrderService(t)

	for _, customer := range []int64{103, 101, 102} {
		mustCreateOrder(t, svc, customer, models.NewDate(2025, time.August, 10))
	}

	orders, err := svc.GetAllOrders()
	assert.NoError(t, err)
	assert.Len(t, orders, 3)
	assert.True(t, orders[0].OrderID < orders[1].OrderID)
	assert.True(t, orders[1].OrderID < orders[2].OrderID)
}
