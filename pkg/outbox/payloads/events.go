package payloads

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderLineSnapshot struct {
	MenuID    uint            `json:"menuId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderCreatedEvent is emitted once an order and all of its lines committed.
type OrderCreatedEvent struct {
	OrderID    uint                `json:"orderId"`
	CustomerID uint                `json:"customerId"`
	EmployeeID uint                `json:"employeeId"`
	OrderedAt  time.Time           `json:"orderedAt"`
	Total      decimal.Decimal     `json:"total"`
	Lines      []OrderLineSnapshot `json:"lines"`
}

type OrderCanceledEvent struct {
	OrderID    uint            `json:"orderId"`
	CustomerID uint            `json:"customerId"`
	Total      decimal.Decimal `json:"total"`
	CanceledAt time.Time       `json:"canceledAt"`
}

type ReceiptLineSnapshot struct {
	IngredientID uint            `json:"ingredientId"`
	Quantity     decimal.Decimal `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	ExpiresAt    time.Time       `json:"expiresAt"`
}

// SupplyReceiptRecordedEvent is emitted with the stock increments of a receipt.
type SupplyReceiptRecordedEvent struct {
	SupplyReceiptID uint                  `json:"supplyReceiptId"`
	SupplierID      uint                  `json:"supplierId"`
	EmployeeID      uint                  `json:"employeeId"`
	ReceivedAt      time.Time             `json:"receivedAt"`
	Lines           []ReceiptLineSnapshot `json:"lines"`
}

type SupplyReceiptVoidedEvent struct {
	SupplyReceiptID uint                  `json:"supplyReceiptId"`
	SupplierID      uint                  `json:"supplierId"`
	VoidedAt        time.Time             `json:"voidedAt"`
	Lines           []ReceiptLineSnapshot `json:"lines"`
}

// IngredientStockCriticalEvent is emitted when stock drops below the critical level.
type IngredientStockCriticalEvent struct {
	IngredientID  uint            `json:"ingredientId"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	Current       decimal.Decimal `json:"current"`
	CriticalLevel decimal.Decimal `json:"criticalLevel"`
	DetectedAt    time.Time       `json:"detectedAt"`
}
