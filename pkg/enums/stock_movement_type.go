package enums

import "fmt"

// StockMovementType classifies a change to an ingredient's stock level.
type StockMovementType string

const (
	StockMovementReceipt     StockMovementType = "receipt"
	StockMovementConsumption StockMovementType = "consumption"
	StockMovementVoid        StockMovementType = "receipt_void"
)

var validStockMovementTypes = []StockMovementType{
	StockMovementReceipt,
	StockMovementConsumption,
	StockMovementVoid,
}

// String implements fmt.Stringer.
func (s StockMovementType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StockMovementType.
func (s StockMovementType) IsValid() bool {
	for _, candidate := range validStockMovementTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsIncrement reports whether the movement adds stock.
func (s StockMovementType) IsIncrement() bool {
	return s == StockMovementReceipt
}

// ParseStockMovementType converts raw input into a StockMovementType.
func ParseStockMovementType(value string) (StockMovementType, error) {
	for _, candidate := range validStockMovementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock movement type %q", value)
}
