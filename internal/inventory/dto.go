package inventory

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/dulcismaison/dulcis-backend/pkg/amounts"
	"github.com/dulcismaison/dulcis-backend/pkg/db/models"
)

const (
	maxNameLen = 100
	maxUnitLen = 20
)

// CreateIngredientInput describes a new ingredient; stock always starts at zero.
type CreateIngredientInput struct {
	Name          string
	Unit          string
	CriticalLevel decimal.Decimal
}

// IngredientStatus pairs an ingredient with its alert state as of the read.
type IngredientStatus struct {
	Ingredient models.Ingredient
	Critical   bool
}

func statusOf(ingredient models.Ingredient) IngredientStatus {
	return IngredientStatus{Ingredient: ingredient, Critical: ingredient.IsCritical()}
}

// ReceiptLineInput is one delivered ingredient on a supply receipt.
type ReceiptLineInput struct {
	IngredientID uint
	Quantity     decimal.Decimal
	Price        decimal.Decimal
	ExpiresAt    time.Time
}

// RecordReceiptInput describes a supplier delivery. ReceivedAt defaults to now.
type RecordReceiptInput struct {
	EmployeeID uint
	SupplierID uint
	ReceivedAt time.Time
	Lines      []ReceiptLineInput
}

// ReceiptDetail is a supply receipt with its lines.
type ReceiptDetail struct {
	Receipt models.SupplyReceipt
	Lines   []models.SupplyReceiptLine
}

func (in CreateIngredientInput) validate() (name, unit string, err error) {
	var c amounts.Collector
	name = strings.TrimSpace(in.Name)
	unit = strings.TrimSpace(in.Unit)
	c.Add(textViolation("name", name, maxNameLen))
	c.Add(textViolation("unit", unit, maxUnitLen))
	c.Add(amounts.Quantity("criticalLevel", in.CriticalLevel))
	return name, unit, c.Err()
}

func (in RecordReceiptInput) validate() error {
	var c amounts.Collector
	if in.EmployeeID == 0 {
		c.Add(&amounts.Violation{Field: "employeeId", Reason: "is required"})
	}
	if in.SupplierID == 0 {
		c.Add(&amounts.Violation{Field: "supplierId", Reason: "is required"})
	}
	if len(in.Lines) == 0 {
		c.Add(&amounts.Violation{Field: "lines", Reason: "at least one line is required"})
	}
	seen := make(map[uint]struct{}, len(in.Lines))
	for i, line := range in.Lines {
		if line.IngredientID == 0 {
			c.AddLine(i, &amounts.Violation{Field: "ingredientId", Reason: "is required"})
		} else if _, dup := seen[line.IngredientID]; dup {
			c.AddLine(i, &amounts.Violation{Field: "ingredientId", Reason: "appears more than once"})
		}
		seen[line.IngredientID] = struct{}{}
		c.AddLine(i, amounts.PositiveQuantity("quantity", line.Quantity))
		c.AddLine(i, amounts.Money("price", line.Price))
		if line.ExpiresAt.IsZero() {
			c.AddLine(i, &amounts.Violation{Field: "expiresAt", Reason: "is required"})
		}
	}
	return c.Err()
}

func textViolation(field, value string, max int) *amounts.Violation {
	switch {
	case value == "":
		return &amounts.Violation{Field: field, Reason: "is required"}
	case utf8.RuneCountInString(value) > max:
		return &amounts.Violation{Field: field, Reason: "is too long"}
	}
	return nil
}
