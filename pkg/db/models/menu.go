package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Menu struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name;size:100;not null"`
	Category  string    `gorm:"column:category;size:50;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// MenuPricing is one append-only entry of a menu's price history.
type MenuPricing struct {
	ID          uint            `gorm:"column:id;primaryKey"`
	MenuID      uint            `gorm:"column:menu_id;not null;index:idx_menu_pricings_menu_effective,priority:1"`
	Servings    int             `gorm:"column:servings;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	EffectiveAt time.Time       `gorm:"column:effective_at;not null;index:idx_menu_pricings_menu_effective,priority:2"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
