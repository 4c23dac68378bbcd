package repository

import (
	"errors"

	"github.com/IaraKrasnoff/OnesToManys/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id uint) (*models.Order, error)
	GetAll() ([]models.Order, error)
	GetAllWithItems() ([]models.Order, error)
	Update(order *models.Order) (bool, error)
	UpdateTotal(id uint, total decimal.Decimal) error
	Delete(id uint) (bool, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Order("order_id ASC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetAllWithItems() ([]models.Order, error) {
	var orders []models.Order
	err := r.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_item_id ASC")
		}).
		Order("order_id ASC").
		Find(&orders).Error
	return orders, err
}

// Update writes customer_id, order_date and total_amount for the given order.
// The explicit Select forces zero values through; the affected-row count
// reports whether the order existed.
func (r *orderRepository) Update(order *models.Order) (bool, error) {
	result := r.db.Model(&models.Order{}).
		Where("order_id = ?", order.OrderID).
		Select("customer_id", "order_date", "total_amount").
		Updates(order)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *orderRepository) UpdateTotal(id uint, total decimal.Decimal) error {
	return r.db.Model(&models.Order{}).
		Where("order_id = ?", id).
		Update("total_amount", total).Error
}

// Delete removes the order and all of its items in one transaction. Items go
// first so no detail row is ever left without its master.
func (r *orderRepository) Delete(id uint) (bool, error) {
	var deleted bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Order{}, id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}
