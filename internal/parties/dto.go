package parties

import (
	"strings"
	"unicode/utf8"

	"github.com/dulcismaison/dulcis-backend/pkg/enums"
	pkgerrors "github.com/dulcismaison/dulcis-backend/pkg/errors"
)

const (
	maxNameLen    = 100
	maxPhoneLen   = 20
	maxContactLen = 20
	maxAge        = 150
)

// CustomerInput carries the mutable customer fields. A nil AddressID leaves
// the customer without an address.
type CustomerInput struct {
	Name      string
	AddressID *uint
}

// EmployeeInput carries the mutable employee fields. CivilStatus may be empty.
type EmployeeInput struct {
	Name        string
	Age         int
	CivilStatus string
	AddressID   *uint
}

// SupplierInput carries the mutable supplier fields.
type SupplierInput struct {
	Name      string
	Contact   string
	AddressID *uint
}

type employeeFields struct {
	name        string
	age         int
	civilStatus *enums.CivilStatus
}

func (in CustomerInput) normalizedName() (string, error) {
	return requireText("name", in.Name, maxNameLen)
}

func (in EmployeeInput) normalize() (employeeFields, error) {
	name, err := requireText("name", in.Name, maxNameLen)
	if err != nil {
		return employeeFields{}, err
	}
	if in.Age < 0 || in.Age > maxAge {
		return employeeFields{}, pkgerrors.New(pkgerrors.CodeInvalidArgument, "age out of range").
			WithDetails(map[string]any{"field": "age", "min": 0, "max": maxAge})
	}
	fields := employeeFields{name: name, age: in.Age}
	if raw := strings.TrimSpace(in.CivilStatus); raw != "" {
		status, err := enums.ParseCivilStatus(raw)
		if err != nil {
			return employeeFields{}, pkgerrors.Wrap(pkgerrors.CodeInvalidArgument, err, "invalid civil status")
		}
		fields.civilStatus = &status
	}
	return fields, nil
}

func (in SupplierInput) normalize() (name, contact string, err error) {
	name, err = requireText("name", in.Name, maxNameLen)
	if err != nil {
		return "", "", err
	}
	contact = strings.TrimSpace(in.Contact)
	if utf8.RuneCountInString(contact) > maxContactLen {
		return "", "", pkgerrors.New(pkgerrors.CodeInvalidArgument, "contact is too long").
			WithDetails(map[string]any{"field": "contact", "max": maxContactLen})
	}
	return name, contact, nil
}

func requireText(field, value string, max int) (string, error) {
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

// normalizePhone accepts digits plus the usual separators.
func normalizePhone(phone string) (string, error) {
	trimmed, err := requireText("phone", phone, maxPhoneLen)
	if err != nil {
		return "", err
	}
	for _, r := range trimmed {
		switch {
		case r >= '0' && r <= '9':
		case r == '+', r == '-', r == ' ', r == '(', r == ')':
		default:
			return "", pkgerrors.New(pkgerrors.CodeInvalidArgument, "phone contains invalid characters")
		}
	}
	return trimmed, nil
}
