// Package amounts validates money and quantity values against the precision
// of their numeric columns before they reach the database.
package amounts

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/dulcismaison/dulcis-backend/pkg/errors"
)

const (
	MoneyScale    = 2
	QuantityScale = 3
)

var (
	// numeric(12,2) and numeric(12,3) upper bounds.
	maxMoney    = decimal.New(1, 10)
	maxQuantity = decimal.New(1, 9)
)

// MaxCount is the largest value an INT column holds.
const MaxCount = math.MaxInt32

// Violation describes one rejected field, optionally on a numbered line.
type Violation struct {
	Line   *int   `json:"line,omitempty"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Money reports a violation unless v is a non-negative amount with at most two
// decimal places.
func Money(field string, v decimal.Decimal) *Violation {
	return check(field, v, MoneyScale, maxMoney, false)
}

// PositiveQuantity reports a violation unless v is strictly positive with at
// most three decimal places.
func PositiveQuantity(field string, v decimal.Decimal) *Violation {
	return check(field, v, QuantityScale, maxQuantity, true)
}

// Quantity is PositiveQuantity that also accepts zero.
func Quantity(field string, v decimal.Decimal) *Violation {
	return check(field, v, QuantityScale, maxQuantity, false)
}

// PositiveCount reports a violation unless 0 < n <= MaxCount.
func PositiveCount(field string, n int) *Violation {
	switch {
	case n <= 0:
		return &Violation{Field: field, Reason: "must be greater than zero"}
	case n > MaxCount:
		return &Violation{Field: field, Reason: "too large"}
	}
	return nil
}

func check(field string, v decimal.Decimal, scale int32, max decimal.Decimal, positive bool) *Violation {
	switch {
	case positive && !v.IsPositive():
		return &Violation{Field: field, Reason: "must be greater than zero"}
	case v.IsNegative():
		return &Violation{Field: field, Reason: "must not be negative"}
	case !v.Equal(v.Round(scale)):
		return &Violation{Field: field, Reason: fmt.Sprintf("at most %d decimal places", scale)}
	case v.GreaterThanOrEqual(max):
		return &Violation{Field: field, Reason: "too large"}
	}
	return nil
}

// Collector gathers violations so a request reports every bad field at once.
type Collector struct {
	violations []Violation
}

// Add records v when non-nil.
func (c *Collector) Add(v *Violation) {
	if v != nil {
		c.violations = append(c.violations, *v)
	}
}

// AddLine records v against the zero-based line index.
func (c *Collector) AddLine(line int, v *Violation) {
	if v == nil {
		return
	}
	idx := line
	v.Line = &idx
	c.violations = append(c.violations, *v)
}

// Violations returns what has been collected so far.
func (c *Collector) Violations() []Violation {
	return c.violations
}

// Err returns an INVALID_ARGUMENT error listing every violation, or nil.
func (c *Collector) Err() error {
	if len(c.violations) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeInvalidArgument, fmt.Sprintf("invalid input for %d field(s)", len(c.violations))).WithDetails(map[string]any{
		"violations": c.violations,
	})
}
