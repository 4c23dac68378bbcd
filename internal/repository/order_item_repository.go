package repository

import (
	"errors"

	"github.com/IaraKrasnoff/OnesToManys/internal/models"
	"gorm.io/gorm"
)

type OrderItemRepository interface {
	Create(item *models.OrderItem) error
	GetByID(id uint) (*models.OrderItem, error)
	GetAll() ([]models.OrderItem, error)
	GetByOrderID(orderID uint) ([]models.OrderItem, error)
	Update(item *models.OrderItem) (bool, error)
	Delete(id uint) (bool, error)
}

type orderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) Create(item *models.OrderItem) error {
	return r.db.Create(item).Error
}

func (r *orderItemRepository) GetByID(id uint) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *orderItemRepository) GetAll() ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.Order("order_item_id ASC").Find(&items).Error
	return items, err
}

func (r *orderItemRepository) GetByOrderID(orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.
		Where("order_id = ?", orderID).
		Order("order_item_id ASC").
		Find(&items).Error
	return items, err
}

// Update writes order_id, product_id, quantity, unit_price and line_total for
// the given item, forcing zero values through with an explicit Select.
func (r *orderItemRepository) Update(item *models.OrderItem) (bool, error) {
	result := r.db.Model(&models.OrderItem{}).
		Where("order_item_id = ?", item.OrderItemID).
		Select("order_id", "product_id", "quantity", "unit_price", "line_total").
		Updates(item)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *orderItemRepository) Delete(id uint) (bool, error) {
	result := r.db.Delete(&models.OrderItem{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
