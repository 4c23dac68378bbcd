package models

import (
	"github.com/shopspring/decimal"
)

// Order is the master record. TotalAmount is derived from the line totals of
// the order's items and is recalculated after every item mutation.
type Order struct {
	OrderID     uint            `json:"order_id" gorm:"primaryKey"`
	CustomerID  int64           `json:"customer_id" gorm:"not null"`
	OrderDate   Date            `json:"order_date" gorm:"type:date;not null"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(10,2);default:0.00"`

	Items []OrderItem `json:"-" gorm:"foreignKey:OrderID;references:OrderID"`
}
