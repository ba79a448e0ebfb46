package catalog

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/dulcismaison/dulcis-backend/pkg/amounts"
	pkgerrors "github.com/dulcismaison/dulcis-backend/pkg/errors"
)

const (
	maxNameLen     = 100
	maxCategoryLen = 50
)

// SetPriceInput is one new entry for a menu's price history.
type SetPriceInput struct {
	Servings    int
	Price       decimal.Decimal
	EffectiveAt time.Time
}

func (in SetPriceInput) validate() error {
	var c amounts.Collector
	c.Add(amounts.PositiveCount("servings", in.Servings))
	c.Add(amounts.Money("price", in.Price))
	if in.EffectiveAt.IsZero() {
		c.Add(&amounts.Violation{Field: "effectiveAt", Reason: "is required"})
	}
	return c.Err()
}

func cleanText(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return "", pkgerrors.New(pkgerrors.CodeInvalidArgument, field+" is required")
	case utf8.RuneCountInString(value) > max:
		return "", pkgerrors.New(pkgerrors.CodeInvalidArgument, field+" is too long").
			WithDetails(map[string]any{"field": field, "max": max})
	}
	return value, nil
}
