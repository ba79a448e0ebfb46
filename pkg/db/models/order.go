package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the header of an order aggregate. Total is derived from its lines.
type Order struct {
	ID         uint            `gorm:"column:id;primaryKey"`
	OrderedAt  time.Time       `gorm:"column:ordered_at;not null"`
	CustomerID uint            `gorm:"column:customer_id;not null;index"`
	EmployeeID uint            `gorm:"column:employee_id;not null;index"`
	Total      decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLine is keyed by (order_id, menu_id). UnitPrice is the price snapshot
// taken when the order was created.
type OrderLine struct {
	OrderID   uint            `gorm:"column:order_id;primaryKey;autoIncrement:false"`
	MenuID    uint            `gorm:"column:menu_id;primaryKey;autoIncrement:false;index"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Subtotal  decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
}

// Delivery is at most one per order.
type Delivery struct {
	ID          uint            `gorm:"column:id;primaryKey"`
	OrderID     uint            `gorm:"column:order_id;not null;uniqueIndex"`
	EmployeeID  uint            `gorm:"column:employee_id;not null;index"`
	DepartureAt *time.Time      `gorm:"column:departure_at"`
	ArrivalAt   *time.Time      `gorm:"column:arrival_at"`
	Fee         decimal.Decimal `gorm:"column:fee;type:numeric(12,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

type Packaging struct {
	ID        uint            `gorm:"column:id;primaryKey"`
	OrderID   uint            `gorm:"column:order_id;not null;index"`
	Quantity  int             `gorm:"column:quantity;not null"`
	Type      string          `gorm:"column:type;size:50;not null"`
	Size      string          `gorm:"column:size;size:20"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
