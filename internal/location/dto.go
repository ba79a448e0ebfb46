package location

import (
	"strings"
	"unicode/utf8"

	"github.com/dulcismaison/dulcis-backend/pkg/db/models"
	pkgerrors "github.com/dulcismaison/dulcis-backend/pkg/errors"
)

const (
	maxNameLen        = 100
	maxDescriptionLen = 200
)

// ResolvedAddress is the full Address → Street → Barangay chain of one address.
type ResolvedAddress struct {
	Address  models.Address
	Street   models.Street
	Barangay models.Barangay
}

// Display renders the chain as a single line, most specific part first.
func (r ResolvedAddress) Display() string {
	return strings.Join([]string{r.Address.Description, r.Street.Name, r.Barangay.Name}, ", ")
}

func normalizeText(field, value string, max int) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", pkgerrors.New(pkgerrors.CodeInvalidArgument, field+" is required")
	}
	if utf8.RuneCountInString(trimmed) > max {
		return "", pkgerrors.New(pkgerrors.CodeInvalidArgument, field+" is too long").
			WithDetails(map[string]any{"field": field, "max": max})
	}
	return trimmed, nil
}
