package orders

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/dulcismaison/dulcis-backend/pkg/amounts"
	"github.com/dulcismaison/dulcis-backend/pkg/db/models"
)

const (
	maxPackagingTypeLen = 50
	maxPackagingSizeLen = 20
)

// LineInput requests quantity servings of one menu.
type LineInput struct {
	MenuID   uint
	Quantity int
}

// CreateOrderInput describes a new order. Prices are never supplied by the
// caller; each line snapshots the menu price effective at order time.
type CreateOrderInput struct {
	CustomerID uint
	EmployeeID uint
	Lines      []LineInput
}

// AddDeliveryInput attaches the single delivery of an order.
type AddDeliveryInput struct {
	OrderID    uint
	EmployeeID uint
	Departure  *time.Time
	Arrival    *time.Time
	Fee        decimal.Decimal
}

// AddPackagingInput appends one packaging record to an order.
type AddPackagingInput struct {
	OrderID  uint
	Quantity int
	Type     string
	Size     string
	Price    decimal.Decimal
}

// OrderDetail is the whole order aggregate.
type OrderDetail struct {
	Order     models.Order
	Lines     []models.OrderLine
	Delivery  *models.Delivery
	Packaging []models.Packaging
}

func (in CreateOrderInput) validate() error {
	var c amounts.Collector
	if len(in.Lines) == 0 {
		c.Add(&amounts.Violation{Field: "lines", Reason: "at least one line is required"})
	}
	seen := make(map[uint]struct{}, len(in.Lines))
	for i, line := range in.Lines {
		if line.MenuID == 0 {
			c.AddLine(i, &amounts.Violation{Field: "menuId", Reason: "is required"})
		} else if _, dup := seen[line.MenuID]; dup {
			c.AddLine(i, &amounts.Violation{Field: "menuId", Reason: "appears more than once"})
		}
		seen[line.MenuID] = struct{}{}
		c.AddLine(i, amounts.PositiveCount("quantity", line.Quantity))
	}
	return c.Err()
}

func (in AddDeliveryInput) validate() error {
	var c amounts.Collector
	c.Add(amounts.Money("fee", in.Fee))
	c.Add(arrivalViolation(in.Departure, in.Arrival))
	return c.Err()
}

func (in AddPackagingInput) normalize() (AddPackagingInput, error) {
	var c amounts.Collector
	in.Type = strings.TrimSpace(in.Type)
	in.Size = strings.TrimSpace(in.Size)
	c.Add(amounts.PositiveCount("quantity", in.Quantity))
	c.Add(amounts.Money("price", in.Price))
	switch {
	case in.Type == "":
		c.Add(&amounts.Violation{Field: "type", Reason: "is required"})
	case utf8.RuneCountInString(in.Type) > maxPackagingTypeLen:
		c.Add(&amounts.Violation{Field: "type", Reason: "is too long"})
	}
	if utf8.RuneCountInString(in.Size) > maxPackagingSizeLen {
		c.Add(&amounts.Violation{Field: "size", Reason: "is too long"})
	}
	return in, c.Err()
}

func arrivalViolation(departure, arrival *time.Time) *amounts.Violation {
	if departure != nil && arrival != nil && arrival.Before(*departure) {
		return &amounts.Violation{Field: "arrival", Reason: "must not be before departure"}
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.UTC()
	return &v
}

func sumSubtotals(lines []models.OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal)
	}
	return total
}

func subtotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
