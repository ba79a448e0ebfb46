package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dulcismaison/dulcis-backend/pkg/enums"
)

// Ingredient holds the running stock level. Current never goes below zero.
type Ingredient struct {
	ID            uint            `gorm:"column:id;primaryKey"`
	Name          string          `gorm:"column:name;size:100;not null"`
	Unit          string          `gorm:"column:unit;size:20;not null"`
	Current       decimal.Decimal `gorm:"column:current_qty;type:numeric(12,3);not null"`
	CriticalLevel decimal.Decimal `gorm:"column:critical_level;type:numeric(12,3);not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// IsCritical reports whether stock sits below the critical threshold.
func (i Ingredient) IsCritical() bool {
	return i.Current.LessThan(i.CriticalLevel)
}

type SupplyReceipt struct {
	ID         uint      `gorm:"column:id;primaryKey"`
	ReceivedAt time.Time `gorm:"column:received_at;not null"`
	EmployeeID uint      `gorm:"column:employee_id;not null;index"`
	SupplierID uint      `gorm:"column:supplier_id;not null;index"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

// SupplyReceiptLine is keyed by (supply_receipt_id, ingredient_id).
type SupplyReceiptLine struct {
	SupplyReceiptID uint            `gorm:"column:supply_receipt_id;primaryKey;autoIncrement:false"`
	IngredientID    uint            `gorm:"column:ingredient_id;primaryKey;autoIncrement:false;index"`
	Quantity        decimal.Decimal `gorm:"column:quantity;type:numeric(12,3);not null"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	ExpiresAt       time.Time       `gorm:"column:expires_at;not null"`
}

// IngredientMovement records one change to an ingredient's stock level.
type IngredientMovement struct {
	ID              uint                    `gorm:"column:id;primaryKey"`
	IngredientID    uint                    `gorm:"column:ingredient_id;not null;index"`
	Type            enums.StockMovementType `gorm:"column:type;size:20;not null"`
	Quantity        decimal.Decimal         `gorm:"column:quantity;type:numeric(12,3);not null"`
	PreviousQty     decimal.Decimal         `gorm:"column:previous_qty;type:numeric(12,3);not null"`
	NewQty          decimal.Decimal         `gorm:"column:new_qty;type:numeric(12,3);not null"`
	SupplyReceiptID *uint                   `gorm:"column:supply_receipt_id;index"`
	OccurredAt      time.Time               `gorm:"column:occurred_at;not null"`
}
