package models

import (
	"github.com/shopspring/decimal"
)

// OrderItem is a detail line belonging to exactly one order. LineTotal is
// quantity * unit_price rounded to two decimal places unless the caller
// supplies an explicit value.
type OrderItem struct {
	OrderItemID uint            `json:"order_item_id" gorm:"primaryKey"`
	OrderID     uint            `json:"order_id" gorm:"not null"`
	ProductID   int64           `json:"product_id" gorm:"not null"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	UnitPrice   decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	LineTotal   decimal.Decimal `json:"line_total" gorm:"type:decimal(10,2);not null"`
}

// ComputeLineTotal derives the line total from quantity and unit price,
// rounded to two decimal places.
func ComputeLineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
